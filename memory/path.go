package memory

import (
	"fmt"

	"memlayout/process"
)

// ReadPath reads a T at the end of a pointer chain.
// It starts at base, adds the first offset, reads a pointer, adds the next offset,
// reads a pointer, and so on. The last offset is added to the final pointer and T
// is read from there. With no offsets T is read from base.
func ReadPath[T any](m *Memory, base Address, offsets ...uint64) (T, error) {
	var zero T
	currentAddr := base

	for i := 0; i < len(offsets)-1; i++ {
		ptrAddr := currentAddr + Address(offsets[i])

		ptrVal, err := Read[Address](m, ptrAddr)
		if err != nil {
			return zero, fmt.Errorf("failed to read pointer at offset %d (addr %s): %w", i, ptrAddr, err)
		}
		if !IsValid(ptrVal) {
			return zero, fmt.Errorf("pointer at offset %d (addr %s) is %s: %w", i, ptrAddr, ptrVal, process.BadData)
		}

		currentAddr = ptrVal
	}

	finalAddr := currentAddr
	if len(offsets) > 0 {
		finalAddr += Address(offsets[len(offsets)-1])
	}

	val, err := Read[T](m, finalAddr)
	if err != nil {
		return zero, fmt.Errorf("failed to read final value at %s: %w", finalAddr, err)
	}
	return val, nil
}
