package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
)

func TestTypeHash(t *testing.T) {
	assert.Equal(t, xxh3.HashString("Actor"), TypeHash("AActor"))
	assert.Equal(t, TypeHash("AActor"), TypeHash("AActor"))
	assert.NotEqual(t, TypeHash("AActor"), TypeHash("APawn"))
	// only the first character is dropped
	assert.Equal(t, TypeHash("AActor"), TypeHash("UActor"))
	assert.Equal(t, xxh3.HashString("Actor"), NameHash("Actor"))
}

func TestMemo(t *testing.T) {
	memo := NewMemo[int, string]()
	calls := 0
	fn := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := memo.Do(1, fn)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	v, err = memo.Do(1, fn)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)

	_, err = memo.Do(2, func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	_, ok := memo.Get(2)
	assert.False(t, ok)
	assert.Equal(t, 1, memo.Len())

	memo.Reset()
	assert.Zero(t, memo.Len())
}
