package memory_map

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	mm := []MemoryMapItem{
		{Address: 0x3000, Size: 0x1000, Perms: "rw-p"},
		{Address: 0x1000, Size: 0x1000, Perms: "r-xp"},
	}
	Sort(mm)

	assert.Nil(t, Find(0x500, mm))
	assert.Equal(t, uint64(0x1000), Find(0x1000, mm).Address)
	assert.Equal(t, uint64(0x1000), Find(0x1FFF, mm).Address)
	assert.Nil(t, Find(0x2000, mm))
	assert.Equal(t, uint64(0x3000), Find(0x3800, mm).Address)
	assert.Nil(t, Find(0x4000, mm))

	assert.True(t, Contains(0x3000, 0x1000, mm))
	assert.False(t, Contains(0x3800, 0x1000, mm))
}

func TestPerms(t *testing.T) {
	assert.True(t, MemoryMapItem{Perms: "r-xp"}.IsReadable())
	assert.False(t, MemoryMapItem{Perms: "r-xp"}.IsWritable())
	assert.True(t, MemoryMapItem{Perms: "rw-p"}.IsWritable())
	assert.False(t, MemoryMapItem{Perms: "---p"}.IsReadable())
}
