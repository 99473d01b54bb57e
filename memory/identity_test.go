package memory

import (
	"testing"

	"memlayout/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type actorPtr Address

func (p actorPtr) Addr() Address     { return Address(p) }
func (p actorPtr) TypeHash() uint64 { return TypeHash("AActor") }

type pawnPtr Address

func (p pawnPtr) Addr() Address     { return Address(p) }
func (p pawnPtr) TypeHash() uint64 { return TypeHash("APawn") }

// hierarchy maps an object address to the type hashes it is an instance of
type hierarchy map[Address][]uint64

func (h hierarchy) IsA(m *Memory, object Address, typeHash uint64) (bool, error) {
	for _, hash := range h[object] {
		if hash == typeHash {
			return true, nil
		}
	}
	return false, nil
}

func TestTryCast(t *testing.T) {
	id := hierarchy{
		0x200000: {TypeHash("APawn"), TypeHash("AActor")},
		0x300000: {TypeHash("AActor")},
	}
	m := New(nil, 0, 0, WithIdentity(id))

	pawn, err := TryCast[pawnPtr](m, actorPtr(0x200000))
	require.NoError(t, err)
	assert.Equal(t, pawnPtr(0x200000), pawn)

	ok, err := IsA[pawnPtr](m, actorPtr(0x300000))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = TryCast[pawnPtr](m, actorPtr(0x300000))
	assert.ErrorIs(t, err, process.BadData)

	ok, err = IsA[actorPtr](m, pawnPtr(0x200000))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTryCastWithoutIdentity(t *testing.T) {
	m := New(nil, 0, 0)
	_, err := TryCast[pawnPtr](m, actorPtr(0x200000))
	assert.ErrorIs(t, err, process.InvalidArgument)
}
