package layout

import (
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCorpus(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func TestParseMixed(t *testing.T) {
	corpus := readCorpus(t, "mixed.h")
	entries := Parse(corpus)
	require.Len(t, entries, 4)

	names := []string{}
	for i, e := range entries {
		names = append(names, e.Struct.Name)
		if i > 0 {
			assert.Less(t, entries[i-1].Pos, e.Pos)
		}
	}
	assert.Equal(t, []string{"Foo", "Bar", "Baz", "Standalone"}, names)

	foo := entries[0].Struct
	assert.Empty(t, foo.Base)
	require.Len(t, foo.Fields, 2)
	assert.Equal(t, RawField{Type: "uint32_t", Name: "a", Offset: "0x0", Span: foo.Fields[0].Span}, foo.Fields[0])
	require.NotNil(t, foo.Fields[1].BitWidth)
	assert.Equal(t, uint(1), *foo.Fields[1].BitWidth)

	bar := entries[1].Struct
	assert.Equal(t, "Foo", bar.Base)
	require.Len(t, bar.Fields, 2)
	assert.Equal(t, "Health", bar.Fields[0].Name)
	assert.Equal(t, "float", bar.Fields[0].Type)
	assert.Equal(t, "0x10", bar.Fields[0].Offset)
	assert.Equal(t, "struct Foo*", bar.Fields[1].Type)
	assert.Nil(t, bar.Fields[1].BitWidth)

	baz := entries[2].Struct
	assert.Equal(t, "Bar", baz.Base)
	require.Len(t, baz.Fields, 4)
	assert.Equal(t, "0x20", baz.Fields[2].Offset)
	assert.Equal(t, uint(5), *baz.Fields[2].BitWidth)
	assert.Equal(t, "struct TArray<struct Foo*>", baz.Fields[3].Type)

	standalone := entries[3].Struct
	assert.Empty(t, standalone.Base)
	require.Len(t, standalone.Fields, 1)
	assert.Equal(t, "char[16]", standalone.Fields[0].Type)
}

func TestParseFieldOnOpeningLine(t *testing.T) {
	entries := Parse("struct Foo { int32 a; // 0x0\n bool b : 1; // 0x4\n };")
	require.Len(t, entries, 1)

	foo := entries[0].Struct
	assert.Equal(t, "Foo", foo.Name)
	require.Len(t, foo.Fields, 2)
	assert.Equal(t, "int32", foo.Fields[0].Type)
	assert.Equal(t, "a", foo.Fields[0].Name)
	assert.Equal(t, "bool", foo.Fields[1].Type)
	assert.Equal(t, "0x4", foo.Fields[1].Offset)
	require.NotNil(t, foo.Fields[1].BitWidth)
	assert.Equal(t, uint(1), *foo.Fields[1].BitWidth)
}

func TestParseSpans(t *testing.T) {
	corpus := readCorpus(t, "mixed.h")
	for _, e := range Parse(corpus) {
		for _, f := range e.Struct.Fields {
			assert.Equal(t, f.Offset, corpus[f.Span.Start:f.Span.End], "field %s.%s", e.Struct.Name, f.Name)
		}
	}
}

func TestParseIgnoresUnterminated(t *testing.T) {
	corpus := "struct Broken {\n\tint a; // 0x0\n}\n\nstruct Ok {\n\tint b; // 0x4\n};\n"
	entries := Parse(corpus)
	require.Len(t, entries, 1)
	// the unterminated struct swallows up to the next "};"
	assert.Equal(t, "Broken", entries[0].Struct.Name)
	assert.Len(t, entries[0].Struct.Fields, 2)

	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("int x; // 0x10"))
}

func TestParseFieldTrailingText(t *testing.T) {
	entries := Parse("struct T {\n\tchar teamId; // 0xF8;\n\tint wide : 12; // 0x10\n};")
	require.Len(t, entries, 1)
	fields := entries[0].Struct.Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "0xF8", fields[0].Offset)
	assert.Equal(t, uint(12), *fields[1].BitWidth)
}

func TestRenderRoundTrip(t *testing.T) {
	corpus := readCorpus(t, "mixed.h")
	structs := Structs(Parse(corpus))

	rendered := Render(structs)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "render", []byte(rendered))

	reparsed := Structs(Parse(rendered))
	require.Len(t, reparsed, len(structs))
	for i := range structs {
		assert.Equal(t, structs[i].Name, reparsed[i].Name)
		assert.Equal(t, structs[i].Base, reparsed[i].Base)
		want := renderableFields(structs[i].Fields)
		require.Len(t, reparsed[i].Fields, len(want))
		for j, f := range want {
			got := reparsed[i].Fields[j]
			assert.Equal(t, f.Type, got.Type)
			assert.Equal(t, f.Name, got.Name)
			assert.Equal(t, f.Offset, got.Offset)
			assert.Equal(t, f.BitWidth, got.BitWidth)
		}
	}

	// rendering is stable once unrenderable fields are gone
	again := Render(reparsed)
	assert.Equal(t, again, Render(Structs(Parse(again))))
}

func renderableFields(fields []RawField) []RawField {
	var out []RawField
	for _, f := range fields {
		if renderable(f.Type) {
			out = append(out, f)
		}
	}
	return out
}
