package memory

import (
	"fmt"
)

// Reinterpret copies the bytes of v into a To. Both types must have the same
// size, anything else is a programming error and panics.
func Reinterpret[To, From any](v From) To {
	var out To
	if SizeOf[To]() != SizeOf[From]() {
		panic(fmt.Sprintf("reinterpret: size mismatch %T (%d) -> %T (%d)", v, SizeOf[From](), out, SizeOf[To]()))
	}
	copy(bytesOf(&out), bytesOf(&v))
	return out
}
