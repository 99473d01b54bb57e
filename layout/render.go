package layout

import (
	"fmt"
	"strings"
)

// Render writes structs back out in the struct grammar. Parsing the result
// yields the same structs, fields and order. Fields whose type the struct
// grammar cannot carry are kept as comments.
func Render(structs []RawStruct) string {
	var b strings.Builder

	for i, s := range structs {
		if i > 0 {
			b.WriteString("\n")
		}

		if s.Base != "" {
			fmt.Fprintf(&b, "struct %s : %s {\n", s.Name, s.Base)
		} else {
			fmt.Fprintf(&b, "struct %s {\n", s.Name)
		}

		for _, f := range s.Fields {
			if !renderable(f.Type) {
				fmt.Fprintf(&b, "\t// %s %s; %s\n", f.Type, f.Name, f.Offset)
				continue
			}
			if f.BitWidth != nil {
				fmt.Fprintf(&b, "\t%s %s : %d; // %s\n", f.Type, f.Name, *f.BitWidth, f.Offset)
			} else {
				fmt.Fprintf(&b, "\t%s %s; // %s\n", f.Type, f.Name, f.Offset)
			}
		}

		b.WriteString("};\n")
	}

	return b.String()
}

func renderable(typ string) bool {
	if typ == "" {
		return false
	}
	for _, r := range typ {
		switch {
		case r == '_' || r == '<' || r == '>' || r == '*' || r == ' ' || r == ',':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
