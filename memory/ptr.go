package memory

import (
	"fmt"

	"memlayout/process"
)

// Validator is implemented by values that can check themselves after a read
type Validator interface {
	IsValid() bool
}

// Ptr is a remote address of a T. It has the size and layout of a raw pointer,
// so it can be embedded in types read straight from the target.
type Ptr[T any] Address

func (p Ptr[T]) Addr() Address {
	return Address(p)
}

func (p Ptr[T]) IsValid() bool {
	return IsValid(Address(p))
}

func (p Ptr[T]) String() string {
	return Address(p).String()
}

// Add advances p by i elements of T
func (p Ptr[T]) Add(i int) Ptr[T] {
	return Ptr[T](uint64(p) + uint64(i)*uint64(SizeOf[T]()))
}

// Read dereferences p. An invalid p is reported as BadData, it came from the target.
func (p Ptr[T]) Read(m *Memory) (T, error) {
	if !p.IsValid() {
		var zero T
		return zero, fmt.Errorf("pointer %s: %w", Address(p), process.BadData)
	}
	return Read[T](m, Address(p))
}

// ReadValid dereferences p and, when T is a Validator, rejects invalid values
func (p Ptr[T]) ReadValid(m *Memory) (T, error) {
	v, err := p.Read(m)
	if err != nil {
		return v, err
	}
	if check, ok := any(v).(Validator); ok && !check.IsValid() {
		var zero T
		return zero, fmt.Errorf("value at %s failed validation: %w", Address(p), process.BadData)
	}
	return v, nil
}

// PtrArray is the remote address of the first element of a run of T
type PtrArray[T any] Address

func (p PtrArray[T]) IsValid() bool {
	return IsValid(Address(p))
}

// Address returns the address of element i
func (p PtrArray[T]) Address(i int) Address {
	return Address(uint64(p) + uint64(i)*uint64(SizeOf[T]()))
}

func (p PtrArray[T]) Ptr(i int) Ptr[T] {
	return Ptr[T](p.Address(i))
}

// Index reads element i
func (p PtrArray[T]) Index(m *Memory, i int) (T, error) {
	return Read[T](m, p.Address(i))
}

// Take reads the first n elements in one request
func (p PtrArray[T]) Take(m *Memory, n int) ([]T, error) {
	return ReadArray[T](m, Address(p), n)
}
