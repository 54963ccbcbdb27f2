package structon

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/rawbytedev/structon/internal/rawmem"
	"github.com/rawbytedev/structon/jtree"
)

// Decode writes the object node tree into the record at rec. A
// non-object root fails the whole call with ErrTypeMismatch; after
// that, failures stay field-local: a mismatched or malformed field is
// logged, reported in the FieldError list and skipped, leaving its
// memory untouched, and conversion continues with the next field.
//
// Fields absent from the tree, or present as null, are skipped
// entirely; the record's existing bytes for them are not zeroed.
func (r *Registry) Decode(id TypeID, tree *jtree.Value, rec unsafe.Pointer) ([]FieldError, error) {
	fields, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	if tree.Kind() != jtree.KindObject {
		return nil, fmt.Errorf("%w: got %s", ErrTypeMismatch, tree.Kind())
	}
	return r.decodeFields(fields, tree, rec), nil
}

func (r *Registry) decodeFields(fields []FieldDescriptor, tree *jtree.Value, rec unsafe.Pointer) []FieldError {
	var ferrs []FieldError
	for i := range fields {
		f := &fields[i]
		val := tree.Get(f.Name)
		if val.IsNull() {
			continue
		}
		nested, err := r.decodeField(f, val, rec)
		ferrs = append(ferrs, nested...)
		if err != nil {
			Logger().Warn("structon: field decode failed",
				zap.String("field", f.Name), zap.Error(err))
			ferrs = append(ferrs, FieldError{Field: f.Name, Err: err})
		}
	}
	return ferrs
}

func (r *Registry) decodeField(f *FieldDescriptor, val *jtree.Value, rec unsafe.Pointer) (nested []FieldError, err error) {
	defer func() {
		if p := recover(); p != nil {
			nested = nil
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	switch f.Kind {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64, KindBool:
		return nil, decodeScalar(f.Kind, val, rawmem.Field(rec, f.Offset))

	case KindString:
		// Size 0 marks an opaque string reference: nothing to copy
		// into, and reallocation is not this engine's business.
		if f.Size == 0 {
			return nil, nil
		}
		s, err := val.AsStr()
		if err != nil {
			return nil, err
		}
		writeString(rec, f, s)
		return nil, nil

	case KindFunction:
		return nil, nil // never written

	case KindPointer:
		// one-way policy: pointer fields are never restored from
		// serialized data, whatever the tree or the record held
		rawmem.ClearPointer(rec, f.Offset)
		return nil, nil

	case KindStruct:
		if f.NestedType == "" {
			return nil, nil
		}
		sub, ok := r.Lookup(f.NestedType)
		if !ok {
			return nil, nil
		}
		if val.Kind() != jtree.KindObject {
			return nil, fmt.Errorf("expected object, got %s", val.Kind())
		}
		nferrs := r.decodeFields(sub, val, rawmem.Field(rec, f.Offset))
		return prefixFieldErrors(nil, f.Name, nferrs), nil

	case KindArray:
		return r.decodeArray(f, val, rec)

	default:
		return nil, nil
	}
}

func (r *Registry) decodeArray(f *FieldDescriptor, val *jtree.Value, rec unsafe.Pointer) ([]FieldError, error) {
	if val.Kind() != jtree.KindArray {
		return nil, nil // not an array node: skip the field, no error
	}
	items := val.Items()

	if f.NestedType != "" {
		sub, ok := r.Lookup(f.NestedType)
		if !ok {
			return nil, nil
		}
		elemSize := f.ElemSize
		if elemSize == 0 {
			elemSize = inferredElemSize(sub)
		}
		if elemSize == 0 {
			return nil, nil
		}
		bound := len(items)
		if f.ElemCount > 0 {
			bound = min(bound, f.ElemCount)
		} else if f.Size > 0 {
			bound = min(bound, int(f.Size/elemSize))
		}
		var ferrs []FieldError
		for i := 0; i < bound; i++ {
			if items[i].Kind() != jtree.KindObject {
				continue
			}
			nferrs := r.decodeFields(sub, items[i], rawmem.Elem(rec, f.Offset, i, elemSize))
			ferrs = prefixFieldErrors(ferrs, fmt.Sprintf("%s[%d]", f.Name, i), nferrs)
		}
		return ferrs, nil
	}

	elemSize := scalarSize(f.ElemKind)
	if elemSize == 0 {
		return nil, fmt.Errorf("unknown array element kind %s", f.ElemKind)
	}
	bound := len(items)
	if f.ElemCount > 0 {
		bound = min(bound, f.ElemCount)
	} else {
		bound = min(bound, int(f.Size/elemSize))
	}
	for i := 0; i < bound; i++ {
		// elements of the wrong kind are skipped one by one, they do
		// not fail the field
		_ = decodeScalar(f.ElemKind, items[i], rawmem.Elem(rec, f.Offset, i, elemSize))
	}
	return nil, nil
}

// decodeScalar writes one primitive leaf at p, or reports a mismatch
// without touching memory. Wider values truncate to the field width,
// as a raw memory store would.
func decodeScalar(kind TypeCode, val *jtree.Value, p unsafe.Pointer) error {
	switch kind {
	case KindInt8:
		u, err := val.AsUint64()
		if err != nil {
			return err
		}
		rawmem.PutInt8(p, 0, int8(uint8(u)))
	case KindUint8:
		u, err := val.AsUint64()
		if err != nil {
			return err
		}
		rawmem.PutUint8(p, 0, uint8(u))
	case KindInt16:
		i, err := val.AsInt64()
		if err != nil {
			return err
		}
		rawmem.PutInt16(p, 0, int16(i))
	case KindInt32:
		i, err := val.AsInt64()
		if err != nil {
			return err
		}
		rawmem.PutInt32(p, 0, int32(i))
	case KindInt64:
		i, err := val.AsInt64()
		if err != nil {
			return err
		}
		rawmem.PutInt64(p, 0, i)
	case KindUint16:
		u, err := val.AsUint64()
		if err != nil {
			return err
		}
		rawmem.PutUint16(p, 0, uint16(u))
	case KindUint32:
		u, err := val.AsUint64()
		if err != nil {
			return err
		}
		rawmem.PutUint32(p, 0, uint32(u))
	case KindUint64:
		u, err := val.AsUint64()
		if err != nil {
			return err
		}
		rawmem.PutUint64(p, 0, u)
	case KindFloat32:
		g, err := val.AsFloat64()
		if err != nil {
			return err
		}
		rawmem.PutFloat32(p, 0, float32(g))
	case KindFloat64:
		g, err := val.AsFloat64()
		if err != nil {
			return err
		}
		rawmem.PutFloat64(p, 0, g)
	case KindBool:
		b, err := val.AsBool()
		if err != nil {
			return err
		}
		rawmem.PutBool(p, 0, b)
	default:
		return fmt.Errorf("not a scalar kind: %s", kind)
	}
	return nil
}

// writeString copies s into the field's fixed buffer, truncating to
// Size-1 bytes. The remainder is zero filled, so the buffer is always
// left NUL terminated whatever the input length.
func writeString(rec unsafe.Pointer, f *FieldDescriptor, s string) {
	buf := rawmem.Bytes(rec, f.Offset, f.Size)
	n := copy(buf[:f.Size-1], s)
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}
