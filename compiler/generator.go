package compiler

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"memlayout/memory"
)

// Generator renders a Schema as Go source: one pointer type per struct with
// a reader and a writer per flattened field.
type Generator struct {
	Package string
	Imports []string
	// Source names the corpus in the generated header
	Source string
}

type genFile struct {
	Package string
	Source  string
	Imports []string
	Key     string
	Structs []genStruct
}

type genStruct struct {
	Name   string
	Ptr    string
	Base   string
	Rooted bool
	Hash   string
	Fields []genField
}

type genField struct {
	Ptr    string
	Name   string
	Field  string
	Owner  string
	Kind   string
	GoType string
	Load   string
	Addr   string
	Where  string
	Mask   string
	Shift  uint
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by layoutc{{if .Source}} from {{.Source}}{{end}}. DO NOT EDIT.

package {{.Package}}

import (
	"memlayout/memory"
{{- range .Imports}}
	{{printf "%q" .}}
{{- end}}
)
{{if .Key}}
const offsetKey = {{.Key}}
{{end}}
{{- range .Structs}}
// {{.Ptr}} is the remote address of a {{.Name}}{{if .Base}}, derived from {{.Base}}{{end}}.
type {{.Ptr}} memory.Address

func (p {{.Ptr}}) Addr() memory.Address { return memory.Address(p) }

func (p {{.Ptr}}) IsValid() bool { return memory.IsValid(memory.Address(p)) }

func (p {{.Ptr}}) String() string { return memory.Address(p).String() }
{{if .Rooted}}
// TypeHash identifies {{.Name}} in runtime type checks.
func (p {{.Ptr}}) TypeHash() uint64 { return {{.Hash}} }
{{end}}
{{- range .Fields}}
{{template "field" .}}
{{- end}}
{{end}}
{{- define "field"}}
{{- if eq .Kind "whole"}}
// Read{{.Name}} reads {{.Owner}}.{{.Field}}{{.Where}}.
func (p {{.Ptr}}) Read{{.Name}}(m *memory.Memory) ({{.GoType}}, error) {
	return memory.Read[{{.GoType}}](m, {{.Addr}})
}

// Write{{.Name}} writes {{.Owner}}.{{.Field}}{{.Where}}.
func (p {{.Ptr}}) Write{{.Name}}(m *memory.Memory, v {{.GoType}}) bool {
	return memory.Write(m, {{.Addr}}, v) == nil
}
{{- else if eq .Kind "bool"}}
// Read{{.Name}} reads {{.Owner}}.{{.Field}}{{.Where}}.
func (p {{.Ptr}}) Read{{.Name}}(m *memory.Memory) (bool, error) {
	v, err := memory.Read[uint8](m, {{.Addr}})
	return v != 0, err
}

// Write{{.Name}} writes {{.Owner}}.{{.Field}}{{.Where}}.
func (p {{.Ptr}}) Write{{.Name}}(m *memory.Memory, v bool) bool {
	var raw uint8
	if v {
		raw = 1
	}
	return memory.Write(m, {{.Addr}}, raw) == nil
}
{{- else if eq .Kind "bit"}}
// Read{{.Name}} reads {{.Owner}}.{{.Field}}{{.Where}}.
func (p {{.Ptr}}) Read{{.Name}}(m *memory.Memory) (bool, error) {
	v, err := memory.Read[{{.Load}}](m, {{.Addr}})
	return v&{{.Mask}} != 0, err
}

// Write{{.Name}} sets or clears {{.Owner}}.{{.Field}}{{.Where}}, leaving the other bits intact.
func (p {{.Ptr}}) Write{{.Name}}(m *memory.Memory, v bool) bool {
	addr := {{.Addr}}
	raw, err := memory.Read[{{.Load}}](m, addr)
	if err != nil {
		return false
	}
	if v {
		raw |= {{.Mask}}
	} else {
		raw &^= {{.Mask}}
	}
	return memory.Write(m, addr, raw) == nil
}
{{- else}}
// Read{{.Name}} reads the storage unit holding {{.Owner}}.{{.Field}}{{.Where}}.
// The value is neither masked nor shifted.
func (p {{.Ptr}}) Read{{.Name}}(m *memory.Memory) ({{.GoType}}, error) {
	return memory.Read[{{.GoType}}](m, {{.Addr}})
}

// Write{{.Name}} replaces {{.Owner}}.{{.Field}}{{.Where}}, leaving the other bits intact.
func (p {{.Ptr}}) Write{{.Name}}(m *memory.Memory, v {{.GoType}}) bool {
	addr := {{.Addr}}
	raw, err := memory.Read[{{.Load}}](m, addr)
	if err != nil {
		return false
	}
	raw = raw&^{{.Mask}} | {{.Load}}(v)<<{{.Shift}}&{{.Mask}}
	return memory.Write(m, addr, raw) == nil
}
{{- end}}
{{- end}}
`))

// Generate returns gofmt-formatted source for s. When formatting fails the
// unformatted source is returned with the error, for inspection.
func (g Generator) Generate(s *Schema) ([]byte, error) {
	key := s.Options.ObfuscationKey

	file := genFile{
		Package: g.Package,
		Source:  g.Source,
		Imports: g.Imports,
	}
	if key != 0 {
		file.Key = fmt.Sprintf("0x%X", key)
	}

	for _, st := range s.Structs {
		gs := genStruct{
			Name:   st.Name,
			Ptr:    st.PtrName(),
			Base:   st.Base,
			Rooted: st.Rooted,
			Hash:   fmt.Sprintf("0x%016X", st.Hash),
		}
		for _, acc := range st.Fields {
			gs.Fields = append(gs.Fields, genFieldOf(gs.Ptr, acc, key))
		}
		file.Structs = append(file.Structs, gs)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, file); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("format generated source: %w", err)
	}
	return formatted, nil
}

func genFieldOf(ptr string, acc Accessor, key uint64) genField {
	f := genField{
		Ptr:    ptr,
		Name:   acc.GoName,
		Field:  acc.Field.Name,
		Owner:  acc.Owner,
		GoType: acc.GoType,
		Load:   acc.Load,
		Addr:   addrExpr(acc.Offset.Byte, key),
		Mask:   fmt.Sprintf("0x%X", acc.Offset.Mask()),
		Shift:  acc.Offset.Shift,
	}

	switch acc.Kind {
	case Bit:
		f.Kind = "bit"
	case Bits:
		f.Kind = "bits"
	default:
		f.Kind = "whole"
		if acc.Type == "bool" {
			f.Kind = "bool"
		}
	}

	// obfuscated offsets stay out of comments too
	if key == 0 {
		switch acc.Kind {
		case Bit:
			f.Where = fmt.Sprintf(" (bit %d of %s)", acc.Offset.Shift, acc.Field.Offset)
		case Bits:
			f.Where = fmt.Sprintf(" (bits %d-%d of %s)", acc.Offset.Shift, acc.Offset.Shift+acc.Offset.Width-1, acc.Field.Offset)
		default:
			f.Where = " at " + acc.Field.Offset
		}
	}

	return f
}

func addrExpr(offset, key uint64) string {
	if key != 0 {
		return fmt.Sprintf("memory.Address(p) + memory.Address(memory.Deobfuscate(0x%X, offsetKey))", memory.Obfuscate(offset, key))
	}
	if offset == 0 {
		return "memory.Address(p)"
	}
	return fmt.Sprintf("memory.Address(p) + 0x%X", offset)
}
