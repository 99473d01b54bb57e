package compiler

import (
	"memlayout/layout"
)

const maxBitWidth = 8

// FieldOffset locates a field inside its struct. Width 0 is a whole-value field.
type FieldOffset struct {
	Byte  uint64
	Shift uint
	Width uint
}

func (o FieldOffset) IsBitField() bool {
	return o.Width > 0
}

// Mask selects the field's bits inside the loaded storage unit
func (o FieldOffset) Mask() uint64 {
	if o.Width == 0 {
		return 0
	}
	return ((uint64(1) << o.Width) - 1) << o.Shift
}

// bitCursor assigns shifts to consecutive bit fields sharing an offset.
// Runs are keyed by the literal offset text, so "0x10" and "0x010" start
// separate runs.
type bitCursor struct {
	offset string
	bits   uint
}

// next returns the shift for f and advances the cursor
func (c *bitCursor) next(f layout.RawField) uint {
	width := uint(0)
	if f.BitWidth != nil {
		width = *f.BitWidth
	}

	if f.Offset == c.offset {
		shift := c.bits
		c.bits += width
		return shift
	}

	c.offset = f.Offset
	c.bits = width
	return 0
}

func checkWidth(structName string, f layout.RawField) error {
	if f.BitWidth == nil {
		return nil
	}
	if w := *f.BitWidth; w == 0 || w > maxBitWidth {
		return &AssertionError{Struct: structName, Field: f.Name, Width: w}
	}
	return nil
}
