package memory

import (
	"math/bits"
)

const obfuscateRotation = 23

// Obfuscate hides a literal offset so it does not appear verbatim in a binary.
// Deobfuscate(Obfuscate(off, key), key) == off for every key.
func Obfuscate(offset, key uint64) uint64 {
	return bits.RotateLeft64(offset^key, obfuscateRotation)
}

func Deobfuscate(encoded, key uint64) uint64 {
	return bits.RotateLeft64(encoded, -obfuscateRotation) ^ key
}
