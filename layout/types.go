package layout

// Span is a half-open byte range [Start, End) in the corpus
type Span struct {
	Start int
	End   int
}

// RawField is one field declaration exactly as it appeared in the corpus
type RawField struct {
	Type   string
	Name   string
	Offset string // hex literal, e.g. "0x3f0"
	// BitWidth is nil for whole-value fields
	BitWidth *uint
	// Span locates Offset in the corpus
	Span Span
}

func (f RawField) IsBitField() bool {
	return f.BitWidth != nil
}

// RawStruct is one struct declaration. Base is empty when the struct has no base.
type RawStruct struct {
	Name   string
	Base   string
	Fields []RawField
}

// Entry pairs a parsed struct with the byte position of its declaration
type Entry struct {
	Pos    int
	Struct RawStruct
}
