package process

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("read at %s: %w", Address(0x1000), BadRead)
	assert.ErrorIs(t, err, BadRead)
	assert.Equal(t, BadRead, KindOf(err))
	assert.Equal(t, "read at 0x1000: bad read", err.Error())

	assert.Equal(t, ErrorKind(0), KindOf(errors.New("plain")))
	assert.Equal(t, BadRead, KindOf(ErrProcessNotOpen))
}

func TestAOBMatch(t *testing.T) {
	aob, err := AOB{Pattern: []byte{0x48, 0x00, 0x05}, Mask: []byte{0xFF, 0x00, 0xFF}}.Normalize()
	assert.NoError(t, err)

	data := []byte{0x00, 0x48, 0x99, 0x05, 0x48, 0x01, 0x05}
	assert.Equal(t, []uint{1, 4}, aob.Match(data))

	exact, err := AOB{Pattern: []byte{0x05}}.Normalize()
	assert.NoError(t, err)
	assert.True(t, exact.IsValid())
	assert.Equal(t, []uint{3, 6}, exact.Match(data))

	_, err = AOB{}.Normalize()
	assert.Error(t, err)
}

func TestParseAOB(t *testing.T) {
	aob, err := ParseAOB("48 8b,?? 05")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0x8B, 0x00, 0x05}, aob.Pattern)
	assert.Equal(t, []byte{0xFF, 0xFF, 0x00, 0xFF}, aob.Mask)
	assert.Equal(t, "48 8b ?? 05", aob.String())

	_, err = ParseAOB("48 zz")
	assert.ErrorIs(t, err, InvalidArgument)

	_, err = ParseAOB(" , ")
	assert.ErrorIs(t, err, InvalidArgument)
}
