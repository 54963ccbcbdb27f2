package structon

import (
	"github.com/rawbytedev/structon/internal/rawmem"
)

// TypeID names one record type inside a Registry. Any scheme works as
// long as distinct types get distinct ids; RegisterStruct derives one
// from the reflect type string.
type TypeID string

// TypeCode is the closed set of field kinds a descriptor can carry.
type TypeCode uint8

const (
	KindUnknown TypeCode = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString   // fixed-capacity byte buffer holding NUL-terminated text
	KindFunction // opaque, never serialized
	KindStruct   // nested record, NestedType names its descriptors
	KindArray    // fixed-length homogeneous sequence
	KindPointer  // opaque reference, never dereferenced
)

// String returns the kind name.
func (c TypeCode) String() string {
	switch c {
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// FieldDescriptor is the static contract for one field of a record
// type: where it lives, how wide it is, and how to interpret it.
//
// For KindArray, ElemSize/ElemCount describe the element layout when
// known. Both zero selects the legacy path that infers the layout from
// Size and, for record elements, from the nested type's own
// descriptors.
type FieldDescriptor struct {
	Name   string
	Kind   TypeCode
	Offset uintptr
	Size   uintptr

	// NestedType references a registered record type when Kind is
	// KindStruct, or when Kind is KindArray and elements are records.
	NestedType TypeID

	// ElemKind is the scalar element kind of an array; KindUnknown
	// when elements are records or unclassified.
	ElemKind  TypeCode
	ElemSize  uintptr
	ElemCount int
}

// scalarSize returns the byte width of a scalar kind, 0 if not scalar.
func scalarSize(c TypeCode) uintptr {
	switch c {
	case KindBool, KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindInt64, KindUint64, KindFloat64:
		return 8
	default:
		return 0
	}
}

func isScalar(c TypeCode) bool { return scalarSize(c) != 0 }

// Opaque marker strings emitted for non-serializable or failed
// fields. They are part of the wire format; do not change them.
const (
	markerFunction     = "[function_pointer]"
	markerPointer      = "[pointer]"
	markerStruct       = "[struct]"
	markerUnknownElem  = "[unknown_array_type]"
	markerUnknownArray = "[unknown_array]"
	markerUnknownType  = "[unknown_type]"
	markerError        = "[error]"
)

// defaultStringCap bounds string reads when a descriptor carries no
// buffer size.
const defaultStringCap = 256

// inferredElemSize derives one array element's width from the element
// type's own descriptors: the maximum field end, rounded up to pointer
// alignment. Fields of unknown width count as one pointer word.
func inferredElemSize(fields []FieldDescriptor) uintptr {
	var end uintptr
	for i := range fields {
		sz := fields[i].Size
		if sz == 0 {
			sz = rawmem.PtrSize
		}
		if fields[i].Offset+sz > end {
			end = fields[i].Offset + sz
		}
	}
	return (end + rawmem.PtrSize - 1) &^ (rawmem.PtrSize - 1)
}
