package memory

import (
	"fmt"

	"memlayout/process"

	"golang.org/x/text/encoding/unicode"
)

// MaxArrayLen is the largest element count a TArray may claim before it is
// treated as garbage
const MaxArrayLen = 20000

// TArray is a remote dynamic array header: data pointer, element count, capacity
type TArray[T any] struct {
	Data Address
	Num  uint32
	Max  uint32
}

// IsValid rejects headers that would cause unbounded or nonsensical reads
func (a TArray[T]) IsValid() bool {
	return IsValid(a.Data) && a.Num <= a.Max && a.Max < MaxArrayLen
}

func (a TArray[T]) Len() int {
	return int(a.Num)
}

func (a TArray[T]) Cap() int {
	return int(a.Max)
}

func (a TArray[T]) IsEmpty() bool {
	return a.Num == 0
}

// Address returns the address of element i
func (a TArray[T]) Address(i int) Address {
	return a.Data + Address(uint64(i)*uint64(SizeOf[T]()))
}

// Index reads element i
func (a TArray[T]) Index(m *Memory, i int) (T, error) {
	if i < 0 || i >= int(a.Num) {
		var zero T
		return zero, fmt.Errorf("index %d out of range [0,%d): %w", i, a.Num, process.InvalidArgument)
	}
	return Read[T](m, a.Address(i))
}

// Slice reads every element. It returns nil, without touching the driver,
// when the header is invalid, and nil on any read failure.
func (a TArray[T]) Slice(m *Memory) []T {
	if !a.IsValid() {
		return nil
	}
	out, err := ReadArray[T](m, a.Data, int(a.Num))
	if err != nil {
		return nil
	}
	return out
}

// Range reads elements [lo, hi) with the same best-effort rules as Slice.
// hi is clamped to Len.
func (a TArray[T]) Range(m *Memory, lo, hi int) []T {
	hi = min(hi, int(a.Num))
	if !a.IsValid() || lo < 0 || lo >= hi {
		return nil
	}
	out, err := ReadArray[T](m, a.Address(lo), hi-lo)
	if err != nil {
		return nil
	}
	return out
}

// CastArray reinterprets the element type of a. It panics if the sizes differ.
func CastArray[To, From any](a TArray[From]) TArray[To] {
	if SizeOf[To]() != SizeOf[From]() {
		panic(fmt.Sprintf("cannot cast TArray elements of size %d to size %d", SizeOf[From](), SizeOf[To]()))
	}
	return TArray[To]{Data: a.Data, Num: a.Num, Max: a.Max}
}

// FString is a remote UTF-16 string stored as a TArray of code units
type FString struct {
	TArray[uint16]
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// String decodes the remote text. Trailing NULs are dropped.
func (s FString) String(m *Memory) (string, error) {
	if !s.IsValid() {
		return "", fmt.Errorf("string header %s/%d/%d: %w", s.Data, s.Num, s.Max, process.BadData)
	}

	units, err := ReadArray[uint16](m, s.Data, int(s.Num))
	if err != nil {
		return "", err
	}
	for len(units) > 0 && units[len(units)-1] == 0 {
		units = units[:len(units)-1]
	}

	decoded, err := utf16le.NewDecoder().Bytes(sliceBytes(units))
	if err != nil {
		return "", fmt.Errorf("decode string at %s: %v: %w", s.Data, err, process.BadData)
	}
	return string(decoded), nil
}
