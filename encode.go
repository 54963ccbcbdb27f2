package structon

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/rawbytedev/structon/internal/rawmem"
	"github.com/rawbytedev/structon/jtree"
)

// Encode converts the record at rec into an object node keyed by field
// name, in descriptor order. The call only fails when id is unknown;
// individual field failures degrade to the "[error]" marker and are
// reported in the returned FieldError list, so one bad field never
// erases the rest of the record.
//
// rec must point at a live record of the registered type; the engine
// assumes exclusive access for the duration of the call.
func (r *Registry) Encode(id TypeID, rec unsafe.Pointer) (*jtree.Value, []FieldError, error) {
	fields, ok := r.Lookup(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	obj, ferrs := r.encodeFields(fields, rec)
	return obj, ferrs, nil
}

func (r *Registry) encodeFields(fields []FieldDescriptor, rec unsafe.Pointer) (*jtree.Value, []FieldError) {
	obj := jtree.Object()
	var ferrs []FieldError
	for i := range fields {
		f := &fields[i]
		val, nested, err := r.encodeField(f, rec)
		ferrs = append(ferrs, nested...)
		if err != nil {
			Logger().Warn("structon: field encode failed",
				zap.String("field", f.Name), zap.Error(err))
			ferrs = append(ferrs, FieldError{Field: f.Name, Err: err})
			obj.Set(f.Name, jtree.Str(markerError))
			continue
		}
		// an array slot populated by the explicit path must not be
		// overwritten by a later fallback attempt under the same name
		if f.Kind == KindArray && obj.Has(f.Name) {
			continue
		}
		obj.Set(f.Name, val)
	}
	return obj, ferrs
}

// encodeField converts one field. Failures, including panics out of
// raw memory access, stay at this boundary.
func (r *Registry) encodeField(f *FieldDescriptor, rec unsafe.Pointer) (v *jtree.Value, nested []FieldError, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, nested = nil, nil
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	switch f.Kind {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64, KindBool:
		return encodeScalar(f.Kind, rawmem.Field(rec, f.Offset)), nil, nil

	case KindString:
		return jtree.Str(readString(rec, f)), nil, nil

	case KindFunction:
		return jtree.Str(markerFunction), nil, nil

	case KindPointer:
		return jtree.Str(markerPointer), nil, nil

	case KindStruct:
		if f.NestedType == "" {
			return jtree.Str(markerStruct), nil, nil
		}
		sub, ok := r.Lookup(f.NestedType)
		if !ok {
			return jtree.Str(markerStruct), nil, nil
		}
		obj, nferrs := r.encodeFields(sub, rawmem.Field(rec, f.Offset))
		return obj, prefixFieldErrors(nil, f.Name, nferrs), nil

	case KindArray:
		return r.encodeArray(f, rec)

	default:
		return jtree.Str(markerUnknownType), nil, nil
	}
}

func (r *Registry) encodeArray(f *FieldDescriptor, rec unsafe.Pointer) (*jtree.Value, []FieldError, error) {
	// explicit layout first
	if f.ElemSize > 0 && f.ElemCount > 0 {
		if f.NestedType != "" {
			if sub, ok := r.Lookup(f.NestedType); ok {
				return r.encodeRecordArray(f, rec, sub, f.ElemSize, f.ElemCount)
			}
		}
		if f.ElemKind == KindUnknown {
			return jtree.Array(jtree.Str(markerUnknownElem)), nil, nil
		}
		if !isScalar(f.ElemKind) {
			return jtree.Array(jtree.Str(markerUnknownArray)), nil, nil
		}
		return encodeScalarArray(f, rec, f.ElemSize, f.ElemCount), nil, nil
	}

	// legacy path: infer the element layout from Size and, for record
	// elements, from the nested type's own descriptor spans
	if f.NestedType != "" {
		if sub, ok := r.Lookup(f.NestedType); ok {
			elemSize := inferredElemSize(sub)
			if elemSize == 0 {
				return jtree.Array(jtree.Str(markerUnknownElem)), nil, nil
			}
			return r.encodeRecordArray(f, rec, sub, elemSize, int(f.Size/elemSize))
		}
	}
	elemSize := scalarSize(f.ElemKind)
	if elemSize == 0 {
		return jtree.Array(jtree.Str(markerUnknownArray)), nil, nil
	}
	return encodeScalarArray(f, rec, elemSize, int(f.Size/elemSize)), nil, nil
}

func (r *Registry) encodeRecordArray(f *FieldDescriptor, rec unsafe.Pointer, sub []FieldDescriptor, elemSize uintptr, count int) (*jtree.Value, []FieldError, error) {
	arr := jtree.Array()
	var ferrs []FieldError
	for i := 0; i < count; i++ {
		obj, nferrs := r.encodeFields(sub, rawmem.Elem(rec, f.Offset, i, elemSize))
		ferrs = prefixFieldErrors(ferrs, fmt.Sprintf("%s[%d]", f.Name, i), nferrs)
		arr.Append(obj)
	}
	return arr, ferrs, nil
}

func encodeScalarArray(f *FieldDescriptor, rec unsafe.Pointer, elemSize uintptr, count int) *jtree.Value {
	arr := jtree.Array()
	for i := 0; i < count; i++ {
		arr.Append(encodeScalar(f.ElemKind, rawmem.Elem(rec, f.Offset, i, elemSize)))
	}
	return arr
}

// encodeScalar reads one primitive at p. Both 8-bit kinds encode as an
// unsigned byte value, not as a one-character string.
func encodeScalar(kind TypeCode, p unsafe.Pointer) *jtree.Value {
	switch kind {
	case KindInt8, KindUint8:
		return jtree.Uint(uint64(rawmem.Uint8(p, 0)))
	case KindInt16:
		return jtree.Int(int64(rawmem.Int16(p, 0)))
	case KindInt32:
		return jtree.Int(int64(rawmem.Int32(p, 0)))
	case KindInt64:
		return jtree.Int(rawmem.Int64(p, 0))
	case KindUint16:
		return jtree.Uint(uint64(rawmem.Uint16(p, 0)))
	case KindUint32:
		return jtree.Uint(uint64(rawmem.Uint32(p, 0)))
	case KindUint64:
		return jtree.Uint(rawmem.Uint64(p, 0))
	case KindFloat32:
		return jtree.Float(float64(rawmem.Float32(p, 0)))
	case KindFloat64:
		return jtree.Float(rawmem.Float64(p, 0))
	case KindBool:
		return jtree.Bool(rawmem.Bool(p, 0))
	default:
		return jtree.Str(markerUnknownType)
	}
}

// readString copies the field's text buffer up to the first NUL or the
// buffer capacity. Bytes >= 128 are dropped; only 7-bit text survives.
func readString(rec unsafe.Pointer, f *FieldDescriptor) string {
	capa := f.Size
	if capa == 0 {
		capa = defaultStringCap
	}
	buf := rawmem.Bytes(rec, f.Offset, capa)
	out := make([]byte, 0, len(buf))
	for _, c := range buf {
		if c == 0 {
			break
		}
		if c < 128 {
			out = append(out, c)
		}
	}
	return string(out)
}
