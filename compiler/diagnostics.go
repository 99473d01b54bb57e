package compiler

import (
	"fmt"

	"memlayout/layout"
)

// Diagnostic records a declaration the compiler skipped or could not complete.
// Diagnostics never stop a compile.
type Diagnostic struct {
	Struct  string
	Field   string
	Span    layout.Span
	Message string
}

func (d Diagnostic) String() string {
	if d.Field != "" {
		return fmt.Sprintf("%s.%s: %s", d.Struct, d.Field, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Struct, d.Message)
}

// AssertionError is a corpus defect the compiler refuses to paper over.
// It aborts the whole compile.
type AssertionError struct {
	Struct string
	Field  string
	Width  uint
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s.%s: bit width %d outside (0,8]", e.Struct, e.Field, e.Width)
}
