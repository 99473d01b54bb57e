package table

import (
	"fmt"
	"io"
	"strings"
)

// FormatFunc is a callback to format/colorize cell values
type FormatFunc func(value string) string

// ColumnSpec defines a column's properties
type ColumnSpec struct {
	Header     string
	BlankValue string     // Value to show for empty cells (default: "-")
	FormatFunc FormatFunc // Optional formatter/colorizer, applied after padding widths are known
	MinWidth   int
	AlignRight bool
}

// Table collects rows and renders them as aligned text columns
type Table struct {
	columns   []ColumnSpec
	rows      [][]string
	seps      map[int]bool
	widths    []int
	separator string
}

func New(cols ...ColumnSpec) *Table {
	t := &Table{
		columns:   cols,
		seps:      make(map[int]bool),
		widths:    make([]int, len(cols)),
		separator: "-",
	}

	for i, col := range cols {
		t.widths[i] = max(col.MinWidth, len(col.Header))
		if t.columns[i].BlankValue == "" {
			t.columns[i].BlankValue = "-"
		}
	}

	return t
}

// AddRow adds a row of data to the table. Missing or empty cells show the
// column's BlankValue.
func (t *Table) AddRow(data ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(data) && data[i] != "" {
			row[i] = data[i]
		} else {
			row[i] = t.columns[i].BlankValue
		}

		if n := visibleLength(row[i]); n > t.widths[i] {
			t.widths[i] = n
		}
	}

	t.rows = append(t.rows, row)
}

// AddSeparator adds a separator line spanning the final column widths
func (t *Table) AddSeparator() {
	t.seps[len(t.rows)] = true
	t.rows = append(t.rows, nil)
}

func (t *Table) SetSeparatorChar(char string) {
	t.separator = char
}

func (t *Table) Len() int {
	return len(t.rows) - len(t.seps)
}

// Render writes the table to the given writer
func (t *Table) Render(w io.Writer) error {
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = t.pad(i, col.Header)
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(headers, " "), " ")); err != nil {
		return err
	}
	if err := t.renderSeparator(w, "-"); err != nil {
		return err
	}

	for r, row := range t.rows {
		if t.seps[r] {
			if err := t.renderSeparator(w, t.separator); err != nil {
				return err
			}
			continue
		}

		formatted := make([]string, len(row))
		for i, val := range row {
			cell := t.pad(i, val)
			if f := t.columns[i].FormatFunc; f != nil && val != t.columns[i].BlankValue {
				cell = strings.Replace(cell, val, f(val), 1)
			}
			formatted[i] = cell
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(formatted, " "), " ")); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) renderSeparator(w io.Writer, char string) error {
	sep := make([]string, len(t.columns))
	for i := range sep {
		sep[i] = strings.Repeat(char, t.widths[i])
	}
	_, err := fmt.Fprintln(w, strings.Join(sep, " "))
	return err
}

func (t *Table) pad(col int, s string) string {
	n := visibleLength(s)
	if n >= t.widths[col] {
		return s
	}
	fill := strings.Repeat(" ", t.widths[col]-n)
	if t.columns[col].AlignRight {
		return fill + s
	}
	return s + fill
}

// visibleLength is the rune count of s without ANSI escape sequences
func visibleLength(s string) int {
	length := 0
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			length++
		}
	}
	return length
}

func ColorGray(s string) string {
	return fmt.Sprintf("\033[90m%s\033[0m", s)
}

func ColorYellow(s string) string {
	return fmt.Sprintf("\033[33m%s\033[0m", s)
}

func ColorGreen(s string) string {
	return fmt.Sprintf("\033[32m%s\033[0m", s)
}
