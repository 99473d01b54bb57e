package memory

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"memlayout/process"
)

// SizeOf returns the in-memory size of T
func SizeOf[T any]() uintptr {
	var t T
	return unsafe.Sizeof(t)
}

// bytesOf returns a byte view of the memory behind v
func bytesOf[T any](v *T) []byte {
	size := int(unsafe.Sizeof(*v))
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), size)
}

// sliceBytes returns a byte view of the backing array of s
func sliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
}

var podCache sync.Map // reflect.Type -> bool

// isPlainData reports whether T can be filled from raw remote bytes,
// i.e. it (recursively) contains no Go pointers.
func isPlainData[T any]() bool {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := podCache.Load(rt); ok {
		return v.(bool)
	}
	plain := !typeHasPointers(rt)
	podCache.Store(rt, plain)
	return plain
}

func typeHasPointers(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.String, reflect.Chan:
		return true
	case reflect.Array:
		return typeHasPointers(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if typeHasPointers(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// bool, ints, uints, floats, complex, uintptr
		return false
	}
}

func checkPlain[T any]() error {
	if !isPlainData[T]() {
		var t T
		return fmt.Errorf("%T contains pointers and cannot hold remote bytes: %w", t, process.InvalidArgument)
	}
	return nil
}

// MaxReadSize bounds the bytes a single ReadArray may request
const MaxReadSize = 1 << 30

// Read copies sizeof(T) bytes at addr into a zeroed T
func Read[T any](m *Memory, addr Address) (T, error) {
	var v T
	if err := checkPlain[T](); err != nil {
		return v, err
	}
	if err := m.ReadBytes(addr, bytesOf(&v)); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ReadArray reads n consecutive T values at addr in one driver request
func ReadArray[T any](m *Memory, addr Address, n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative count %d: %w", n, process.InvalidArgument)
	}
	if err := checkPlain[T](); err != nil {
		return nil, err
	}
	if size := SizeOf[T](); size > 0 && uint64(n) > MaxReadSize/uint64(size) {
		return nil, fmt.Errorf("%d elements of %d bytes exceed %d bytes: %w", n, size, MaxReadSize, process.InvalidArgument)
	}
	if !IsValid(addr) {
		return nil, fmt.Errorf("read at %s: %w", addr, process.InvalidAddress)
	}

	out := make([]T, n)
	if err := m.ReadBytes(addr, sliceBytes(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// Write stores the bytes of v at addr
func Write[T any](m *Memory, addr Address, v T) error {
	if err := checkPlain[T](); err != nil {
		return err
	}
	return m.WriteBytes(addr, bytesOf(&v))
}
