// Package rawmem is the only place that touches record memory. All
// access goes through typed loads/stores at a byte offset from the
// record base pointer; callers guarantee offset+width stays inside the
// record (see the Registry contract).
package rawmem

import "unsafe"

// PtrSize is the platform pointer width in bytes.
const PtrSize = unsafe.Sizeof(uintptr(0))

func at(p unsafe.Pointer, off uintptr) unsafe.Pointer { return unsafe.Add(p, off) }

func Int8(p unsafe.Pointer, off uintptr) int8       { return *(*int8)(at(p, off)) }
func Int16(p unsafe.Pointer, off uintptr) int16     { return *(*int16)(at(p, off)) }
func Int32(p unsafe.Pointer, off uintptr) int32     { return *(*int32)(at(p, off)) }
func Int64(p unsafe.Pointer, off uintptr) int64     { return *(*int64)(at(p, off)) }
func Uint8(p unsafe.Pointer, off uintptr) uint8     { return *(*uint8)(at(p, off)) }
func Uint16(p unsafe.Pointer, off uintptr) uint16   { return *(*uint16)(at(p, off)) }
func Uint32(p unsafe.Pointer, off uintptr) uint32   { return *(*uint32)(at(p, off)) }
func Uint64(p unsafe.Pointer, off uintptr) uint64   { return *(*uint64)(at(p, off)) }
func Float32(p unsafe.Pointer, off uintptr) float32 { return *(*float32)(at(p, off)) }
func Float64(p unsafe.Pointer, off uintptr) float64 { return *(*float64)(at(p, off)) }
func Bool(p unsafe.Pointer, off uintptr) bool       { return *(*bool)(at(p, off)) }

func PutInt8(p unsafe.Pointer, off uintptr, v int8)       { *(*int8)(at(p, off)) = v }
func PutInt16(p unsafe.Pointer, off uintptr, v int16)     { *(*int16)(at(p, off)) = v }
func PutInt32(p unsafe.Pointer, off uintptr, v int32)     { *(*int32)(at(p, off)) = v }
func PutInt64(p unsafe.Pointer, off uintptr, v int64)     { *(*int64)(at(p, off)) = v }
func PutUint8(p unsafe.Pointer, off uintptr, v uint8)     { *(*uint8)(at(p, off)) = v }
func PutUint16(p unsafe.Pointer, off uintptr, v uint16)   { *(*uint16)(at(p, off)) = v }
func PutUint32(p unsafe.Pointer, off uintptr, v uint32)   { *(*uint32)(at(p, off)) = v }
func PutUint64(p unsafe.Pointer, off uintptr, v uint64)   { *(*uint64)(at(p, off)) = v }
func PutFloat32(p unsafe.Pointer, off uintptr, v float32) { *(*float32)(at(p, off)) = v }
func PutFloat64(p unsafe.Pointer, off uintptr, v float64) { *(*float64)(at(p, off)) = v }
func PutBool(p unsafe.Pointer, off uintptr, v bool)       { *(*bool)(at(p, off)) = v }

// Field returns the base pointer of the field at off.
func Field(p unsafe.Pointer, off uintptr) unsafe.Pointer { return at(p, off) }

// ClearPointer writes a nil pointer word at off.
func ClearPointer(p unsafe.Pointer, off uintptr) {
	*(*unsafe.Pointer)(at(p, off)) = nil
}

// Bytes aliases n bytes of record memory starting at off. The slice is
// a view, not a copy; it must not outlive the call that produced it.
func Bytes(p unsafe.Pointer, off, n uintptr) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(at(p, off)), n)
}

// Elem returns the base pointer of element i in an array field that
// starts at off with elemSize-wide elements.
func Elem(p unsafe.Pointer, off uintptr, i int, elemSize uintptr) unsafe.Pointer {
	return at(p, off+uintptr(i)*elemSize)
}
