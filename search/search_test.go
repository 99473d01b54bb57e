package search

import (
	"encoding/binary"
	"testing"

	"memlayout/memory"
	"memlayout/process"
	"memlayout/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = memory.Address(0x500000)

// graph: root+0x8 -> A (A+0x0 points back at root), root+0x18 is a guarded
// pointer to B, and the value sits at A+0x10, B+0x4 and root+0x20
func graph(t *testing.T) *memory.Memory {
	t.Helper()
	data := make([]byte, 0x400)
	binary.LittleEndian.PutUint64(data[0x8:], uint64(root+0x100))
	binary.LittleEndian.PutUint64(data[0x18:], 0x8000000200)
	binary.LittleEndian.PutUint32(data[0x20:], 1337)
	binary.LittleEndian.PutUint64(data[0x100:], uint64(root))
	binary.LittleEndian.PutUint32(data[0x110:], 1337)
	binary.LittleEndian.PutUint32(data[0x204:], 1337)

	return memory.New(process_blob.NewBlob(root, data), root, root)
}

func TestSearch(t *testing.T) {
	m := graph(t)

	results, err := Search(m, root, WithSearchForType(uint32(1337)))
	require.NoError(t, err)
	require.Equal(t, []Result{
		{Path: []uint64{0x8, 0x10}},
		{Path: []uint64{0x18, 0x4}},
		{Path: []uint64{0x20}},
	}, results)

	assert.Equal(t, "0x18 -> 0x4", results[1].String())
	addr, err := results[1].Address(m, root)
	require.NoError(t, err)
	assert.Equal(t, root+0x204, addr)

	v, err := memory.Read[uint32](m, addr)
	require.NoError(t, err)
	assert.Equal(t, uint32(1337), v)
}

func TestSearchDepth(t *testing.T) {
	results, err := Search(graph(t), root, WithSearchForType(uint32(1337)), WithMaxDepth(0))
	require.NoError(t, err)
	assert.Equal(t, []Result{{Path: []uint64{0x20}}}, results)
}

func TestSearchRejects(t *testing.T) {
	m := graph(t)

	_, err := Search(m, root)
	assert.ErrorIs(t, err, process.InvalidArgument)

	_, err = Search(m, root, WithSearchForBytes([]byte{1}), WithMinAlignment(0))
	assert.ErrorIs(t, err, process.InvalidArgument)

	_, err = Search(m, 0x10, WithSearchForBytes([]byte{1}))
	assert.ErrorIs(t, err, process.InvalidAddress)

	// unreadable structures are skipped, not fatal
	results, err := Search(m, 0x900000, WithSearchForBytes([]byte{1}))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		kind, text string
		want       []byte
	}{
		{"u8", "0xFF", []byte{0xFF}},
		{"u16", "513", []byte{0x01, 0x02}},
		{"i32", "-2", []byte{0xFE, 0xFF, 0xFF, 0xFF}},
		{"f32", "2.5", []byte{0x00, 0x00, 0x20, 0x40}},
		{"ptr", "0x400010", []byte{0x10, 0x00, 0x40, 0, 0, 0, 0, 0}},
	}
	for _, c := range cases {
		got, err := ParseValue(c.kind, c.text)
		require.NoError(t, err, c.kind)
		assert.Equal(t, c.want, got, c.kind)
	}

	_, err := ParseValue("u8", "256")
	assert.ErrorIs(t, err, process.InvalidArgument)
	_, err = ParseValue("u128", "1")
	assert.ErrorIs(t, err, process.InvalidArgument)
}
