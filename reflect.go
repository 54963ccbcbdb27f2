package structon

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/rawbytedev/structon/jtree"
)

// The registration layer. The engine itself only consumes descriptor
// lists; this file produces them from a Go struct's static shape, the
// way the conversion layer would otherwise require hand-written
// metadata per type.
//
// Mapping rules:
//   - fixed-width integers, floats and bool map to their TypeCode
//   - int/uint/uintptr map by platform width
//   - [N]byte is a fixed-capacity text buffer (KindString)
//   - other arrays are KindArray; struct elements register recursively
//   - nested structs register recursively (KindStruct)
//   - func fields are KindFunction, pointer fields KindPointer
//   - anything without a fixed layout (string headers, slices, maps,
//     interfaces, channels) is KindUnknown: encoded as an opaque
//     marker, never written on decode
//
// Unexported fields and fields tagged `json:"-"` are skipped.

// TypeIDFor returns the TypeID RegisterStruct would assign to the
// record type of sample (a struct or pointer to struct).
func TypeIDFor(sample any) TypeID {
	t := reflect.TypeOf(sample)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return TypeID(t.String())
}

// RegisterStruct walks the struct type of sample and registers a
// descriptor list for it, plus one for every nested struct type it
// reaches. Registering the same type again is a no-op.
func (r *Registry) RegisterStruct(sample any) (TypeID, error) {
	t := reflect.TypeOf(sample)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return "", ErrNotStruct
	}
	return r.registerStructType(t)
}

func (r *Registry) registerStructType(t reflect.Type) (TypeID, error) {
	id := TypeID(t.String())
	if _, ok := r.Lookup(id); ok {
		return id, nil
	}
	// claim the id before walking fields so self-references through
	// nested arrays terminate
	r.Register(id, nil)

	fields := make([]FieldDescriptor, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" && !sf.Anonymous {
			continue // skip unexported
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		fd := FieldDescriptor{
			Name:   name,
			Offset: sf.Offset,
			Size:   sf.Type.Size(),
		}
		if err := r.describeField(&fd, sf.Type); err != nil {
			return "", fmt.Errorf("structon: field %s.%s: %w", t.String(), sf.Name, err)
		}
		fields = append(fields, fd)
	}
	r.Register(id, fields)
	return id, nil
}

func (r *Registry) describeField(fd *FieldDescriptor, t reflect.Type) error {
	if k, ok := scalarTypeCode(t.Kind()); ok {
		fd.Kind = k
		return nil
	}
	switch t.Kind() {
	case reflect.Array:
		et := t.Elem()
		if et.Kind() == reflect.Uint8 {
			fd.Kind = KindString // [N]byte text buffer, capacity = Size
			return nil
		}
		fd.Kind = KindArray
		fd.ElemSize = et.Size()
		fd.ElemCount = t.Len()
		if k, ok := scalarTypeCode(et.Kind()); ok {
			fd.ElemKind = k
			return nil
		}
		if et.Kind() == reflect.Struct {
			id, err := r.registerStructType(et)
			if err != nil {
				return err
			}
			fd.NestedType = id
			return nil
		}
		fd.ElemKind = KindUnknown
		return nil

	case reflect.Struct:
		id, err := r.registerStructType(t)
		if err != nil {
			return err
		}
		fd.Kind = KindStruct
		fd.NestedType = id
		return nil

	case reflect.Func:
		fd.Kind = KindFunction
		return nil

	case reflect.Pointer, reflect.UnsafePointer:
		fd.Kind = KindPointer
		return nil

	default:
		// no fixed layout: opaque on encode, untouched on decode
		fd.Kind = KindUnknown
		return nil
	}
}

func scalarTypeCode(k reflect.Kind) (TypeCode, bool) {
	switch k {
	case reflect.Int8:
		return KindInt8, true
	case reflect.Int16:
		return KindInt16, true
	case reflect.Int32:
		return KindInt32, true
	case reflect.Int64:
		return KindInt64, true
	case reflect.Uint8:
		return KindUint8, true
	case reflect.Uint16:
		return KindUint16, true
	case reflect.Uint32:
		return KindUint32, true
	case reflect.Uint64:
		return KindUint64, true
	case reflect.Float32:
		return KindFloat32, true
	case reflect.Float64:
		return KindFloat64, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Int:
		if intSize == 8 {
			return KindInt64, true
		}
		return KindInt32, true
	case reflect.Uint, reflect.Uintptr:
		if intSize == 8 {
			return KindUint64, true
		}
		return KindUint32, true
	default:
		return KindUnknown, false
	}
}

const intSize = unsafe.Sizeof(int(0))

// EncodeValue encodes a pointer to a registered struct without the
// caller touching unsafe. The type must have been registered (through
// RegisterStruct or manually under TypeIDFor's id).
func (r *Registry) EncodeValue(v any) (*jtree.Value, []FieldError, error) {
	rec, id, err := structPointer(v)
	if err != nil {
		return nil, nil, err
	}
	return r.Encode(id, rec)
}

// DecodeValue decodes a tree into a pointer to a registered struct.
func (r *Registry) DecodeValue(tree *jtree.Value, out any) ([]FieldError, error) {
	rec, id, err := structPointer(out)
	if err != nil {
		return nil, err
	}
	return r.Decode(id, tree, rec)
}

// EncodeValueToText is EncodeValue plus JSON serialization.
func (r *Registry) EncodeValueToText(v any) (string, []FieldError, error) {
	rec, id, err := structPointer(v)
	if err != nil {
		return "", nil, err
	}
	return r.EncodeToText(id, rec)
}

// DecodeValueFromText is DecodeValue from JSON text.
func (r *Registry) DecodeValueFromText(text string, out any) ([]FieldError, error) {
	rec, id, err := structPointer(out)
	if err != nil {
		return nil, err
	}
	return r.DecodeFromText(id, text, rec)
}

func structPointer(v any) (unsafe.Pointer, TypeID, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, "", ErrNotStructPtr
	}
	return unsafe.Pointer(rv.Pointer()), TypeID(rv.Elem().Type().String()), nil
}
