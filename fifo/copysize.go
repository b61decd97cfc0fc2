package fifo

import (
	"reflect"
	"unsafe"
)

// CopySize reports how many leading bytes of *v Pusher.Set and Push copy
// into the slot. Results at or above the size of T copy the whole value.
//
// Use it for large element types where only a prefix changes between
// messages; bytes past the prefix keep whatever the slot held before.
type CopySize[T any] func(v *T) uintptr

// Prefix returns a CopySize that always copies the first n bytes.
func Prefix[T any](n uintptr) CopySize[T] {
	return func(*T) uintptr { return n }
}

// copyPrefix copies the first n bytes of src into dst. T must be
// pointer-free: a byte copy bypasses the GC write barrier.
func copyPrefix[T any](dst, src *T, n uintptr) {
	copy(
		unsafe.Slice((*byte)(unsafe.Pointer(dst)), n),
		unsafe.Slice((*byte)(unsafe.Pointer(src)), n),
	)
}

// hasPointers reports whether values of t can reference heap memory.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
