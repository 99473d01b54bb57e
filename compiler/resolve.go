package compiler

import (
	"strings"
)

// primitives are the schema spellings of plain values, with their size in bytes
var primitives = map[string]uint{
	"bool":    1,
	"int8":    1,
	"uint8":   1,
	"int16":   2,
	"uint16":  2,
	"int32":   4,
	"uint32":  4,
	"int64":   8,
	"uint64":  8,
	"float32": 4,
	"float64": 8,
}

var unsignedOf = map[string]string{
	"bool":   "uint8",
	"int8":   "uint8",
	"uint8":  "uint8",
	"int16":  "uint16",
	"uint16": "uint16",
	"int32":  "uint32",
	"uint32": "uint32",
	"int64":  "uint64",
	"uint64": "uint64",
}

const (
	ptrSuffix   = "Ptr"
	voidPtr     = "voidPtr"
	arrayPrefix = "TArray<"
	stringType  = "FString"
	goAddress   = "memory.Address"
	goString    = "memory.FString"
)

// resolver maps normalized schema types onto Go type expressions
type resolver struct {
	structs map[string]bool
	externs map[string]string
}

// resolve returns the Go type of a normalized field type. Unknown value
// types report false and the field is skipped.
func (r *resolver) resolve(t string) (string, bool) {
	if _, ok := primitives[t]; ok {
		return t, true
	}
	if goType, ok := r.externs[t]; ok {
		return goType, true
	}

	switch {
	case t == voidPtr:
		return goAddress, true

	case t == stringType:
		return goString, true

	case strings.HasPrefix(t, arrayPrefix) && strings.HasSuffix(t, ">"):
		elem, ok := r.resolve(strings.TrimSpace(t[len(arrayPrefix) : len(t)-1]))
		if !ok {
			return "", false
		}
		return "memory.TArray[" + elem + "]", true

	case strings.HasSuffix(t, ptrSuffix) && len(t) > len(ptrSuffix):
		inner := strings.TrimSuffix(t, ptrSuffix)
		if r.structs[inner] {
			// generated pointer type of a schema struct
			return t, true
		}
		if elem, ok := r.resolve(inner); ok {
			return "memory.Ptr[" + elem + "]", true
		}
		// pointer to something the schema does not describe
		return goAddress, true
	}

	return "", false
}

func isInteger(t string) bool {
	_, ok := unsignedOf[t]
	return ok
}
