package compiler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"memlayout/layout"
	"memlayout/memory"
)

// DefaultRootType is the base every identity-checked object derives from
const DefaultRootType = "UObject"

type Options struct {
	// RootType names the root of the object hierarchy. Structs deriving from
	// it get a type hash. Defaults to DefaultRootType.
	RootType string

	// ExternTypes maps schema value types that are defined outside the schema
	// (vectors, transforms, ...) to their Go type expression.
	ExternTypes map[string]string

	// ObfuscationKey, when non-zero, hides every literal offset in generated code
	ObfuscationKey uint64
}

func (o Options) rootType() string {
	if o.RootType == "" {
		return DefaultRootType
	}
	return o.RootType
}

// Kind is the access pattern of a compiled field
type Kind int

const (
	Whole Kind = iota
	Bit
	Bits
)

func (k Kind) String() string {
	switch k {
	case Bit:
		return "bit"
	case Bits:
		return "bits"
	default:
		return "value"
	}
}

// Accessor is one compiled field
type Accessor struct {
	Field layout.RawField
	Owner string // struct that declared the field

	Name   string // snake case accessor name
	GoName string
	Type   string // normalized schema type
	GoType string // Go type returned by the reader
	Load   string // Go type loaded from the target
	Kind   Kind
	Offset FieldOffset
}

// Struct is one compiled struct with its flattened accessor set
type Struct struct {
	Name   string
	Base   string
	Pos    int
	Own    []Accessor
	Fields []Accessor // own fields first, then each ancestor's
	Chain  []string   // self first
	Rooted bool
	Hash   uint64 // memory.TypeHash(Name), meaningful when Rooted
}

func (s *Struct) PtrName() string {
	return s.Name + ptrSuffix
}

// Chain maps a struct name to its ancestors, self first
type Chain map[string][]string

// Schema is the compiled, flattened description of a corpus
type Schema struct {
	Options     Options
	Structs     []*Struct
	Chain       Chain
	Diagnostics []Diagnostic

	byName map[string]*Struct
	hidden map[string]bool
}

func (s *Schema) Lookup(name string) (*Struct, bool) {
	st, ok := s.byName[name]
	return st, ok
}

// Compile turns parsed entries into a Schema. Defects that only affect one
// declaration become Diagnostics. A bit width outside (0,8] is returned as an
// *AssertionError and no schema is produced.
func Compile(entries []layout.Entry, opts Options) (*Schema, error) {
	schema := &Schema{
		Options: opts,
		Chain:   make(Chain),
		byName:  make(map[string]*Struct),
		hidden:  make(map[string]bool),
	}

	winners := schema.dedupe(entries)

	root := opts.rootType()
	if _, ok := winners[root]; !ok {
		// the root is implicit in most corpora
		schema.add(&Struct{Name: root, Pos: -1})
	}

	ordered := make([]layout.Entry, 0, len(winners))
	for _, e := range winners {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Pos < ordered[j].Pos })

	for _, e := range ordered {
		schema.add(&Struct{Name: e.Struct.Name, Base: e.Struct.Base, Pos: e.Pos})
	}

	r := &resolver{
		structs: make(map[string]bool, len(schema.Structs)),
		externs: opts.ExternTypes,
	}
	for _, st := range schema.Structs {
		r.structs[st.Name] = true
	}

	// pass 1: every struct's own accessors
	for _, e := range ordered {
		st := schema.byName[e.Struct.Name]
		own, err := schema.compileFields(e.Struct, r)
		if err != nil {
			return nil, err
		}
		st.Own = own
	}

	// pass 2: inheritance chains and flattening
	for _, st := range schema.Structs {
		chain := schema.chain(st)
		schema.Chain[st.Name] = chain
		st.Chain = chain
		for _, name := range chain {
			if name == root {
				st.Rooted = true
				st.Hash = memory.TypeHash(st.Name)
			}
		}
		st.Fields = schema.flatten(st)
	}

	return schema, nil
}

func (s *Schema) add(st *Struct) {
	s.Structs = append(s.Structs, st)
	s.byName[st.Name] = st
}

func (s *Schema) diag(structName string, f *layout.RawField, format string, args ...any) {
	d := Diagnostic{Struct: structName, Message: fmt.Sprintf(format, args...)}
	if f != nil {
		d.Field = f.Name
		d.Span = f.Span
	}
	s.Diagnostics = append(s.Diagnostics, d)
}

// dedupe keeps the last definition of every struct name
func (s *Schema) dedupe(entries []layout.Entry) map[string]layout.Entry {
	winners := make(map[string]layout.Entry, len(entries))
	for _, e := range entries {
		if e.Struct.Name == "" {
			continue
		}
		if prev, ok := winners[e.Struct.Name]; ok {
			s.diag(e.Struct.Name, nil, "redefined at %d, definition at %d ignored", e.Pos, prev.Pos)
		}
		winners[e.Struct.Name] = e
	}
	return winners
}

func (s *Schema) compileFields(raw layout.RawStruct, r *resolver) ([]Accessor, error) {
	var (
		cursor bitCursor
		out    []Accessor
	)

	for i := range raw.Fields {
		f := raw.Fields[i]

		// the cursor advances even for fields that end up skipped
		shift := cursor.next(f)

		if err := checkWidth(raw.Name, f); err != nil {
			return nil, err
		}

		if strings.ContainsAny(f.Name, ":[") {
			s.diag(raw.Name, &f, "unsupported field name")
			continue
		}

		typ, ok := layout.NormalizeType(f.Type)
		if !ok {
			s.diag(raw.Name, &f, "unsupported type %q", f.Type)
			continue
		}

		offset, err := parseOffset(f.Offset)
		if err != nil {
			s.diag(raw.Name, &f, "malformed offset %q", f.Offset)
			continue
		}

		acc := Accessor{
			Field:  f,
			Owner:  raw.Name,
			Name:   layout.SnakeCase(f.Name),
			Type:   typ,
			Offset: FieldOffset{Byte: offset, Shift: shift},
		}
		acc.GoName = layout.GoName(acc.Name)

		if f.BitWidth != nil {
			if !isInteger(typ) {
				s.diag(raw.Name, &f, "bit field of non-integer type %q", typ)
				continue
			}
			acc.Offset.Width = *f.BitWidth
			acc.Load = unsignedOf[typ]
			if shift+acc.Offset.Width > primitives[acc.Load]*8 {
				s.diag(raw.Name, &f, "bits %d-%d exceed %s storage", shift, shift+acc.Offset.Width-1, acc.Load)
				continue
			}
			if acc.Offset.Width == 1 {
				acc.Kind = Bit
				acc.GoType = "bool"
			} else {
				acc.Kind = Bits
				acc.GoType = typ
				if typ == "bool" {
					acc.GoType = "uint8"
				}
			}
			out = append(out, acc)
			continue
		}

		goType, ok := r.resolve(typ)
		if !ok {
			s.diag(raw.Name, &f, "unknown type %q", typ)
			continue
		}
		acc.Kind = Whole
		acc.GoType = goType
		acc.Load = goType
		if typ == "bool" {
			acc.Load = "uint8"
		}
		out = append(out, acc)
	}

	return out, nil
}

func parseOffset(text string) (uint64, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	if digits == "" {
		return 0, fmt.Errorf("empty offset")
	}
	return strconv.ParseUint(digits, 16, 64)
}

// chain walks self, base, base's base and so on. It stops at a struct
// without a base, at a base missing from the corpus, or when a name repeats.
func (s *Schema) chain(st *Struct) []string {
	chain := []string{st.Name}
	visited := map[string]bool{st.Name: true}

	for cur := st; cur.Base != ""; {
		base := cur.Base
		if visited[base] {
			s.diag(st.Name, nil, "inheritance cycle through %s", base)
			break
		}

		next, ok := s.byName[base]
		if !ok {
			s.diag(st.Name, nil, "missing base %s", base)
			break
		}

		visited[base] = true
		chain = append(chain, base)
		cur = next
	}

	return chain
}

// flatten concatenates the own accessors of every struct in the chain.
// A name already provided by a more derived struct hides the ancestor's field.
func (s *Schema) flatten(st *Struct) []Accessor {
	var fields []Accessor
	seen := make(map[string]string)

	for _, name := range st.Chain {
		member := s.byName[name]
		for _, acc := range member.Own {
			if owner, ok := seen[acc.GoName]; ok {
				key := owner + "/" + member.Name + "/" + acc.GoName
				if !s.hidden[key] {
					s.hidden[key] = true
					s.diag(member.Name, &acc.Field, "hidden by %s", owner)
				}
				continue
			}
			seen[acc.GoName] = member.Name
			fields = append(fields, acc)
		}
	}

	return fields
}
