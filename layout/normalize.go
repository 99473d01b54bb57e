package layout

import (
	"regexp"
	"strings"
	"unicode"
)

// typeTable maps C spellings to fixed width Go names. Order matters: the first
// entry whose From equals an identifier wins.
var typeTable = []struct {
	From string
	To   string
}{
	{"char", "int8"},
	{"uint8_t", "uint8"},
	{"uint16_t", "uint16"},
	{"uint32_t", "uint32"},
	{"uint64_t", "uint64"},
	{"int8_t", "int8"},
	{"int16_t", "int16"},
	{"int32_t", "int32"},
	{"int64_t", "int64"},
	{"uint8", "uint8"},
	{"uint16", "uint16"},
	{"uint32", "uint32"},
	{"uint64", "uint64"},
	{"int8", "int8"},
	{"int16", "int16"},
	{"int32", "int32"},
	{"int64", "int64"},
	{"uint", "uint32"},
	{"int", "int32"},
	{"float", "float32"},
	{"double", "float64"},
}

var (
	keywordRegex  = regexp.MustCompile(`\b(struct|class|const)\s+`)
	identRegex    = regexp.MustCompile(`\w+`)
	ptrSpaceRegex = regexp.MustCompile(`\s+\*`)
	ptrRegex      = regexp.MustCompile(`(\w*)\*`)
	firstCapRegex = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCapRegex   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonIdentRegex = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// NormalizeType rewrites a C type spelling into the schema spelling:
// keywords dropped, primitives renamed, "X*" turned into "XPtr".
// Arrays and anything containing ':' are not representable and report false.
func NormalizeType(raw string) (string, bool) {
	if strings.ContainsAny(raw, "[:") {
		return "", false
	}

	s := keywordRegex.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)

	s = identRegex.ReplaceAllStringFunc(s, func(word string) string {
		for _, entry := range typeTable {
			if entry.From == word {
				return entry.To
			}
		}
		return word
	})

	s = ptrSpaceRegex.ReplaceAllString(s, "*")
	s = ptrRegex.ReplaceAllString(s, "${1}Ptr")

	return s, true
}

// SnakeCase converts a field name such as "bRecentlyRendered" to "b_recently_rendered"
func SnakeCase(name string) string {
	s := firstCapRegex.ReplaceAllString(name, "${1}_${2}")
	s = allCapRegex.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// GoName turns a snake case name into an exported Go identifier
func GoName(snake string) string {
	var b strings.Builder
	for _, part := range strings.Split(nonIdentRegex.ReplaceAllString(snake, "_"), "_") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	name := b.String()
	if name == "" {
		return "X"
	}
	if unicode.IsDigit(rune(name[0])) {
		name = "N" + name
	}
	return name
}
