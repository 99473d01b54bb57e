package layout

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// A corpus mixes two declaration styles in any order:
//
//	struct AActor : UObject {
//		struct USceneComponent* RootComponent; // 0x230(0x08)
//		uint8_t bHidden : 1; // 0x60
//	};
//
//	// Inheritance: UObject
//	namespace AActor {
//		constexpr auto RootComponent = 0x230; // USceneComponent*
//	}
var (
	fieldRegex          = regexp.MustCompile(`([\w<>* ,]+?) (\w+)( : (\d+)|); // (0[xX][0-9a-fA-F]*)`)
	structBaseRegex     = regexp.MustCompile(`struct ([A-Za-z0-9_]*) : ([A-Za-z0-9_]*)\s*\{([\w\W]*?)\};`)
	structNoBaseRegex   = regexp.MustCompile(`struct ([A-Za-z0-9_]*)\s*\{([\w\W]*?)\};`)
	namespaceRegex      = regexp.MustCompile(`Inheritance: (\w*)[\w\W]*?namespace ([A-Za-z0-9_]*)\W*\{([\w\W]*?)\}`)
	constexprFieldRegex = regexp.MustCompile(`constexpr auto (\w*) = (0x[0-9a-f]*); // (.*)`)
)

// noBase marks a namespace block without a base
const noBase = "NONE"

// Parse extracts every struct declaration from corpus, ordered by position.
// It never fails: text that does not match either grammar is ignored.
func Parse(corpus string) []Entry {
	var entries []Entry

	for _, m := range structBaseRegex.FindAllStringSubmatchIndex(corpus, -1) {
		entries = append(entries, Entry{
			Pos: m[0],
			Struct: RawStruct{
				Name:   corpus[m[2]:m[3]],
				Base:   corpus[m[4]:m[5]],
				Fields: parseFields(corpus[m[6]:m[7]], m[6]),
			},
		})
	}

	for _, m := range structNoBaseRegex.FindAllStringSubmatchIndex(corpus, -1) {
		entries = append(entries, Entry{
			Pos: m[0],
			Struct: RawStruct{
				Name:   corpus[m[2]:m[3]],
				Fields: parseFields(corpus[m[4]:m[5]], m[4]),
			},
		})
	}

	for _, m := range namespaceRegex.FindAllStringSubmatchIndex(corpus, -1) {
		base := strings.TrimSpace(corpus[m[2]:m[3]])
		if base == noBase {
			base = ""
		}
		entries = append(entries, Entry{
			Pos: m[0],
			Struct: RawStruct{
				Name:   corpus[m[4]:m[5]],
				Base:   base,
				Fields: parseConstexprFields(corpus[m[6]:m[7]], m[6]),
			},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Pos < entries[j].Pos
	})

	return entries
}

// Structs drops the positions from entries
func Structs(entries []Entry) []RawStruct {
	out := make([]RawStruct, len(entries))
	for i, e := range entries {
		out[i] = e.Struct
	}
	return out
}

func parseFields(body string, bodyStart int) []RawField {
	var fields []RawField
	for _, m := range fieldRegex.FindAllStringSubmatchIndex(body, -1) {
		field := RawField{
			Type:   strings.TrimSpace(body[m[2]:m[3]]),
			Name:   body[m[4]:m[5]],
			Offset: body[m[10]:m[11]],
			Span:   Span{Start: bodyStart + m[10], End: bodyStart + m[11]},
		}
		if m[8] >= 0 {
			width, err := strconv.ParseUint(body[m[8]:m[9]], 10, 32)
			if err == nil {
				w := uint(width)
				field.BitWidth = &w
			}
		}
		fields = append(fields, field)
	}
	return fields
}

func parseConstexprFields(body string, bodyStart int) []RawField {
	var fields []RawField
	for _, m := range constexprFieldRegex.FindAllStringSubmatchIndex(body, -1) {
		fields = append(fields, RawField{
			Type:   strings.TrimSpace(body[m[6]:m[7]]),
			Name:   body[m[2]:m[3]],
			Offset: body[m[4]:m[5]],
			Span:   Span{Start: bodyStart + m[4], End: bodyStart + m[5]},
		})
	}
	return fields
}
