package memory

import (
	"encoding/binary"
	"testing"

	"memlayout/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checked struct {
	Magic uint32
}

func (c checked) IsValid() bool {
	return c.Magic == 0xC0FFEE
}

func TestPtr(t *testing.T) {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:], 0xC0FFEE)
	binary.LittleEndian.PutUint32(data[4:], 5)
	m, _ := newTestMemory(t, data)

	p := Ptr[uint32](testBase)
	v, err := p.Add(1).Read(m)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)
	assert.Equal(t, Address(testBase+4), p.Add(1).Addr())

	c, err := Ptr[checked](testBase).ReadValid(m)
	require.NoError(t, err)
	assert.True(t, c.IsValid())

	_, err = Ptr[checked](testBase + 4).ReadValid(m)
	assert.ErrorIs(t, err, process.BadData)

	_, err = Ptr[uint32](0).Read(m)
	assert.ErrorIs(t, err, process.BadData)
}

func TestPtrArray(t *testing.T) {
	data := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	m, _ := newTestMemory(t, data)

	arr := PtrArray[uint16](testBase)
	assert.Equal(t, Address(testBase+6), arr.Address(3))

	v, err := arr.Index(m, 2)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), v)

	all, err := arr.Take(m, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2, 3, 4}, all)

	v, err = arr.Ptr(1).Read(m)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), v)
}
