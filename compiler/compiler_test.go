package compiler

import (
	"os"
	"strings"
	"testing"

	"memlayout/layout"
	"memlayout/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bits(w uint) *uint {
	return &w
}

func field(typ, name, offset string, width ...uint) layout.RawField {
	f := layout.RawField{Type: typ, Name: name, Offset: offset}
	if len(width) > 0 {
		f.BitWidth = bits(width[0])
	}
	return f
}

func entry(pos int, name, base string, fields ...layout.RawField) layout.Entry {
	return layout.Entry{Pos: pos, Struct: layout.RawStruct{Name: name, Base: base, Fields: fields}}
}

func compile(t *testing.T, entries ...layout.Entry) *Schema {
	t.Helper()
	schema, err := Compile(entries, Options{})
	require.NoError(t, err)
	return schema
}

func lookup(t *testing.T, s *Schema, name string) *Struct {
	t.Helper()
	st, ok := s.Lookup(name)
	require.True(t, ok, "struct %s", name)
	return st
}

func names(accs []Accessor) []string {
	out := make([]string, 0, len(accs))
	for _, a := range accs {
		out = append(out, a.Name)
	}
	return out
}

func messages(s *Schema) []string {
	out := make([]string, 0, len(s.Diagnostics))
	for _, d := range s.Diagnostics {
		out = append(out, d.String())
	}
	return out
}

func TestBitShifts(t *testing.T) {
	s := compile(t, entry(0, "Flags", "",
		field("uint8_t", "a", "0x10", 1),
		field("uint8_t", "b", "0x10", 2),
		field("uint8_t", "c", "0x10", 5),
		field("uint8_t", "d", "0x11", 1),
	))

	own := lookup(t, s, "Flags").Own
	require.Len(t, own, 4)

	assert.Equal(t, FieldOffset{Byte: 0x10, Shift: 0, Width: 1}, own[0].Offset)
	assert.Equal(t, FieldOffset{Byte: 0x10, Shift: 1, Width: 2}, own[1].Offset)
	assert.Equal(t, FieldOffset{Byte: 0x10, Shift: 3, Width: 5}, own[2].Offset)
	assert.Equal(t, FieldOffset{Byte: 0x11, Shift: 0, Width: 1}, own[3].Offset)

	assert.Equal(t, uint64(0x1), own[0].Offset.Mask())
	assert.Equal(t, uint64(0x6), own[1].Offset.Mask())
	assert.Equal(t, uint64(0xF8), own[2].Offset.Mask())

	assert.Equal(t, Bit, own[0].Kind)
	assert.Equal(t, "bool", own[0].GoType)
	assert.Equal(t, Bits, own[1].Kind)
	assert.Equal(t, "uint8", own[1].GoType)
	assert.Empty(t, s.Diagnostics)
}

func TestBitCursorAdvancesOnSkippedField(t *testing.T) {
	s := compile(t, entry(0, "Flags", "",
		field("uint8_t", "a", "0x0", 2),
		field("float", "skipped", "0x0", 1),
		field("uint8_t", "c", "0x0", 1),
	))

	own := lookup(t, s, "Flags").Own
	require.Len(t, own, 2)
	assert.Equal(t, uint(3), own[1].Offset.Shift)
	require.Len(t, s.Diagnostics, 1)
	assert.Equal(t, "skipped", s.Diagnostics[0].Field)
}

func TestBitCursorKeyedByOffsetText(t *testing.T) {
	s := compile(t, entry(0, "Flags", "",
		field("uint8_t", "a", "0x10", 1),
		field("uint8_t", "b", "0x010", 1),
	))

	own := lookup(t, s, "Flags").Own
	require.Len(t, own, 2)
	assert.Equal(t, uint(0), own[1].Offset.Shift)
	assert.Equal(t, uint64(0x10), own[1].Offset.Byte)
}

func TestBitWidthAssertion(t *testing.T) {
	for _, w := range []uint{0, 9} {
		schema, err := Compile([]layout.Entry{entry(0, "Flags", "", field("uint8_t", "bad", "0x0", w))}, Options{})
		assert.Nil(t, schema)

		var assertion *AssertionError
		require.ErrorAs(t, err, &assertion)
		assert.Equal(t, w, assertion.Width)
		assert.Equal(t, "Flags", assertion.Struct)
		assert.Equal(t, "bad", assertion.Field)
	}
}

func TestBitStorageOverflow(t *testing.T) {
	s := compile(t, entry(0, "Flags", "",
		field("uint8_t", "a", "0x0", 5),
		field("uint8_t", "b", "0x0", 5),
	))

	assert.Equal(t, []string{"a"}, names(lookup(t, s, "Flags").Own))
	assert.Equal(t, []string{"Flags.b: bits 5-9 exceed uint8 storage"}, messages(s))
}

func TestBoolFields(t *testing.T) {
	s := compile(t, entry(0, "Flags", "",
		field("bool", "whole", "0x0"),
		field("bool", "bit", "0x1", 1),
		field("bool", "pair", "0x1", 2),
	))

	own := lookup(t, s, "Flags").Own
	require.Len(t, own, 3)
	assert.Equal(t, "bool", own[0].GoType)
	assert.Equal(t, "uint8", own[0].Load)
	assert.Equal(t, "uint8", own[1].Load)
	assert.Equal(t, "uint8", own[2].GoType)
}

func TestSkippedFields(t *testing.T) {
	s := compile(t, entry(0, "Odd", "",
		field("char[16]", "buffer", "0x0"),
		field("uint32_t", "empty", "0x"),
		field("struct FMystery", "mystery", "0x8"),
		field("int", "kept", "0xC"),
	))

	assert.Equal(t, []string{"kept"}, names(lookup(t, s, "Odd").Own))
	assert.Equal(t, []string{
		`Odd.buffer: unsupported type "char[16]"`,
		`Odd.empty: malformed offset "0x"`,
		`Odd.mystery: unknown type "FMystery"`,
	}, messages(s))
}

func TestFlattenOrder(t *testing.T) {
	s := compile(t,
		entry(30, "C", "B", field("int", "c", "0x30")),
		entry(10, "A", "", field("int", "a", "0x10")),
		entry(20, "B", "A", field("int", "b", "0x20")),
	)

	c := lookup(t, s, "C")
	assert.Equal(t, []string{"c", "b", "a"}, names(c.Fields))
	assert.Equal(t, []string{"C", "B", "A"}, c.Chain)
	assert.Equal(t, []string{"C", "B", "A"}, s.Chain["C"])
	assert.Equal(t, []string{"B", "A"}, s.Chain["B"])
	assert.Equal(t, "A", c.Fields[2].Owner)

	// structs come out in corpus order after the implicit root
	var order []string
	for _, st := range s.Structs {
		order = append(order, st.Name)
	}
	assert.Equal(t, []string{DefaultRootType, "A", "B", "C"}, order)
}

func TestInheritanceCycle(t *testing.T) {
	s := compile(t,
		entry(0, "X", "Y", field("int", "x", "0x0")),
		entry(10, "Y", "X", field("int", "y", "0x4")),
	)

	x := lookup(t, s, "X")
	assert.Equal(t, []string{"X", "Y"}, x.Chain)
	assert.Equal(t, []string{"x", "y"}, names(x.Fields))
	assert.Contains(t, messages(s), "X: inheritance cycle through X")
	assert.Contains(t, messages(s), "Y: inheritance cycle through Y")
}

func TestMissingBase(t *testing.T) {
	s := compile(t, entry(0, "Orphan", "Nowhere", field("int", "v", "0x0")))

	orphan := lookup(t, s, "Orphan")
	assert.Equal(t, []string{"Orphan"}, orphan.Chain)
	assert.Equal(t, []string{"v"}, names(orphan.Fields))
	assert.Equal(t, []string{"Orphan: missing base Nowhere"}, messages(s))
}

func TestDuplicateLastWins(t *testing.T) {
	s := compile(t,
		entry(0, "Foo", "", field("int", "old", "0x0")),
		entry(10, "Bar", "", field("int", "bar", "0x0")),
		entry(50, "Foo", "", field("int", "new", "0x8")),
	)

	foo := lookup(t, s, "Foo")
	assert.Equal(t, 50, foo.Pos)
	assert.Equal(t, []string{"new"}, names(foo.Fields))
	assert.Equal(t, "Bar", s.Structs[1].Name)
	assert.Equal(t, "Foo", s.Structs[2].Name)
	require.Len(t, s.Diagnostics, 1)
	assert.Contains(t, s.Diagnostics[0].Message, "redefined")
}

func TestHiddenFields(t *testing.T) {
	s := compile(t,
		entry(0, "A", "", field("int", "x", "0x0")),
		entry(10, "B", "A", field("float", "x", "0x10")),
		entry(20, "C", "B", field("int", "y", "0x20")),
	)

	c := lookup(t, s, "C")
	assert.Equal(t, []string{"y", "x"}, names(c.Fields))
	assert.Equal(t, "B", c.Fields[1].Owner)
	assert.Equal(t, []string{"A.x: hidden by B"}, messages(s))
}

func TestRootedHash(t *testing.T) {
	s := compile(t,
		entry(0, "AActor", "UObject", field("float", "speed", "0x60")),
		entry(10, "APawn", "AActor"),
		entry(20, "FVector", "", field("float", "x", "0x0")),
	)

	root := lookup(t, s, "UObject")
	assert.Equal(t, -1, root.Pos)
	assert.True(t, root.Rooted)

	pawn := lookup(t, s, "APawn")
	assert.True(t, pawn.Rooted)
	assert.Equal(t, memory.TypeHash("APawn"), pawn.Hash)
	assert.Equal(t, []string{"APawn", "AActor", "UObject"}, pawn.Chain)
	assert.Equal(t, []string{"speed"}, names(pawn.Fields))

	assert.False(t, lookup(t, s, "FVector").Rooted)
	assert.Empty(t, s.Diagnostics)
}

func TestCustomRootType(t *testing.T) {
	schema, err := Compile([]layout.Entry{
		entry(0, "Base", ""),
		entry(10, "Leaf", "Base"),
	}, Options{RootType: "Base"})
	require.NoError(t, err)

	_, ok := schema.Lookup(DefaultRootType)
	assert.False(t, ok)
	assert.True(t, lookup(t, schema, "Leaf").Rooted)
	assert.Equal(t, memory.TypeHash("Leaf"), lookup(t, schema, "Leaf").Hash)
}

func TestResolve(t *testing.T) {
	r := &resolver{
		structs: map[string]bool{"AActor": true},
		externs: map[string]string{"FVector": "FVector", "FName": "names.FName"},
	}

	cases := []struct{ in, want string }{
		{"int32", "int32"},
		{"float64", "float64"},
		{"bool", "bool"},
		{"FVector", "FVector"},
		{"FName", "names.FName"},
		{"voidPtr", "memory.Address"},
		{"FString", "memory.FString"},
		{"AActorPtr", "AActorPtr"},
		{"AActorPtrPtr", "memory.Ptr[AActorPtr]"},
		{"FVectorPtr", "memory.Ptr[FVector]"},
		{"uint8Ptr", "memory.Ptr[uint8]"},
		{"UUnknownPtr", "memory.Address"},
		{"TArray<AActorPtr>", "memory.TArray[AActorPtr]"},
		{"TArray<FVector>", "memory.TArray[FVector]"},
		{"TArray<TArray<int32>>", "memory.TArray[memory.TArray[int32]]"},
	}
	for _, c := range cases {
		got, ok := r.resolve(c.in)
		if assert.True(t, ok, c.in) {
			assert.Equal(t, c.want, got, c.in)
		}
	}

	for _, in := range []string{"FMystery", "TArray<FMystery>", "Ptr", "TMap<int32, int32>"} {
		_, ok := r.resolve(in)
		assert.False(t, ok, in)
	}
}

func TestCompileCorpus(t *testing.T) {
	corpus, err := os.ReadFile("testdata/generate.h")
	require.NoError(t, err)

	s, err := Compile(layout.Parse(string(corpus)), Options{})
	require.NoError(t, err)
	require.Empty(t, s.Diagnostics)

	actor := lookup(t, s, "AActor")
	assert.Equal(t, []string{"b_hidden", "role", "speed", "b_active", "owner", "children", "label", "internal_index"}, names(actor.Fields))

	byName := map[string]Accessor{}
	for _, a := range actor.Fields {
		byName[a.Name] = a
	}
	assert.Equal(t, "AActorPtr", byName["owner"].GoType)
	assert.Equal(t, "memory.TArray[AActorPtr]", byName["children"].GoType)
	assert.Equal(t, "memory.FString", byName["label"].GoType)
	assert.Equal(t, "float32", byName["speed"].GoType)
	assert.True(t, strings.HasPrefix(byName["owner"].Field.Offset, "0x68"))
}
