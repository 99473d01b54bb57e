//go:build linux

package memory_map

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMapsLine(t *testing.T) {
	item, ok := parseMapsLine("00400000-0040b000 r-xp 00000000 08:01 1234 /usr/bin/my app")
	assert.True(t, ok)
	assert.Equal(t, uint64(0x400000), item.Address)
	assert.Equal(t, uint(0xb000), item.Size)
	assert.Equal(t, "r-xp", item.Perms)
	assert.Equal(t, "/usr/bin/my app", item.Path)

	item, ok = parseMapsLine("7ffd1000-7ffd2000 rw-p 00000000 00:00 0")
	assert.True(t, ok)
	assert.Empty(t, item.Path)

	_, ok = parseMapsLine("garbage")
	assert.False(t, ok)
}
