// Package jtree is a generic JSON-like tree value model. Unlike
// map-backed JSON objects, object nodes keep their members in insertion
// order, so serialized output is stable field for field.
package jtree

import (
	"fmt"
	"math"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindStr
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindStr:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Value
}

// Value is a single node of the tree. The zero Value is null.
type Value struct {
	kind Kind

	boolVal  bool
	intVal   int64
	uintVal  uint64
	floatVal float64
	strVal   string

	items   []*Value
	members []Member
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool creates a boolean value.
func Bool(v bool) *Value { return &Value{kind: KindBool, boolVal: v} }

// Int creates a signed integer value.
func Int(v int64) *Value { return &Value{kind: KindInt, intVal: v} }

// Uint creates an unsigned integer value.
func Uint(v uint64) *Value { return &Value{kind: KindUint, uintVal: v} }

// Float creates a floating point value.
func Float(v float64) *Value { return &Value{kind: KindFloat, floatVal: v} }

// Str creates a string value.
func Str(v string) *Value { return &Value{kind: KindStr, strVal: v} }

// Array creates an array value.
func Array(items ...*Value) *Value { return &Value{kind: KindArray, items: items} }

// Object creates an object value from members.
func Object(members ...Member) *Value { return &Value{kind: KindObject, members: members} }

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind. A nil Value reads as null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool { return v == nil || v.kind == KindNull }

// IsNumber reports whether the value is int, uint or float.
func (v *Value) IsNumber() bool {
	k := v.Kind()
	return k == KindInt || k == KindUint || k == KindFloat
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("jtree: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsInt64 returns the value as a signed integer. Unsigned values in
// range convert; floats with an exact integral value convert too.
func (v *Value) AsInt64() (int64, error) {
	switch v.Kind() {
	case KindInt:
		return v.intVal, nil
	case KindUint:
		if v.uintVal > math.MaxInt64 {
			return 0, fmt.Errorf("jtree: uint %d overflows int64", v.uintVal)
		}
		return int64(v.uintVal), nil
	case KindFloat:
		if v.floatVal == math.Trunc(v.floatVal) && v.floatVal >= math.MinInt64 && v.floatVal < math.MaxInt64 {
			return int64(v.floatVal), nil
		}
		return 0, fmt.Errorf("jtree: float %v is not an integer", v.floatVal)
	default:
		return 0, fmt.Errorf("jtree: expected integer, got %s", v.Kind())
	}
}

// AsUint64 returns the value as an unsigned integer.
func (v *Value) AsUint64() (uint64, error) {
	switch v.Kind() {
	case KindUint:
		return v.uintVal, nil
	case KindInt:
		if v.intVal < 0 {
			return 0, fmt.Errorf("jtree: negative value %d", v.intVal)
		}
		return uint64(v.intVal), nil
	case KindFloat:
		if v.floatVal == math.Trunc(v.floatVal) && v.floatVal >= 0 && v.floatVal < math.MaxUint64 {
			return uint64(v.floatVal), nil
		}
		return 0, fmt.Errorf("jtree: float %v is not an unsigned integer", v.floatVal)
	default:
		return 0, fmt.Errorf("jtree: expected unsigned integer, got %s", v.Kind())
	}
}

// AsFloat64 returns any numeric value as float64.
func (v *Value) AsFloat64() (float64, error) {
	switch v.Kind() {
	case KindFloat:
		return v.floatVal, nil
	case KindInt:
		return float64(v.intVal), nil
	case KindUint:
		return float64(v.uintVal), nil
	default:
		return 0, fmt.Errorf("jtree: expected number, got %s", v.Kind())
	}
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v.Kind() != KindStr {
		return "", fmt.Errorf("jtree: expected string, got %s", v.Kind())
	}
	return v.strVal, nil
}

// Items returns the elements of an array node, nil otherwise.
func (v *Value) Items() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.items
}

// Members returns the ordered members of an object node, nil otherwise.
func (v *Value) Members() []Member {
	if v.Kind() != KindObject {
		return nil
	}
	return v.members
}

// Len returns the element/member count of an array or object.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Get returns the member value under key, or nil when absent or when
// the node is not an object.
func (v *Value) Get(key string) *Value {
	if v.Kind() != KindObject {
		return nil
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Has reports whether the object has a member under key.
func (v *Value) Has(key string) bool {
	if v.Kind() != KindObject {
		return false
	}
	for _, m := range v.members {
		if m.Key == key {
			return true
		}
	}
	return false
}

// ============================================================
// Mutators
// ============================================================

// Set stores val under key on an object node. An existing member is
// replaced in place so the original position is kept.
func (v *Value) Set(key string, val *Value) {
	if v.kind != KindObject {
		panic("jtree: Set on non-object")
	}
	for i := range v.members {
		if v.members[i].Key == key {
			v.members[i].Value = val
			return
		}
	}
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Append adds an element to an array node.
func (v *Value) Append(val *Value) {
	if v.kind != KindArray {
		panic("jtree: Append on non-array")
	}
	v.items = append(v.items, val)
}
