package structon

// Registry maps TypeIDs to their ordered field descriptor lists.
// Descriptor order is declaration order and fixes the field order of
// encoded output; it does not have to match memory layout order.
//
// Registration is a write phase that must complete before concurrent
// encode/decode traffic starts. Lookup never mutates.
type Registry struct {
	types map[TypeID][]FieldDescriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[TypeID][]FieldDescriptor)}
}

// Register stores the descriptor list for id, replacing any previous
// registration wholesale. It never fails. The slice is copied; the
// stored descriptors are immutable afterwards.
//
// Duplicate field names within one list are not rejected: the encoded
// object keeps one member per name and the last descriptor wins.
func (r *Registry) Register(id TypeID, fields []FieldDescriptor) {
	if r.types == nil {
		r.types = make(map[TypeID][]FieldDescriptor)
	}
	own := make([]FieldDescriptor, len(fields))
	copy(own, fields)
	r.types[id] = own
}

// Lookup returns the descriptor list for id. Absence is a normal
// outcome, not an error; callers decide how to react.
func (r *Registry) Lookup(id TypeID) ([]FieldDescriptor, bool) {
	fields, ok := r.types[id]
	return fields, ok
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.types) }
