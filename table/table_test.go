package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tb := New(
		ColumnSpec{Header: "NAME"},
		ColumnSpec{Header: "OFFSET", AlignRight: true},
		ColumnSpec{Header: "BITS"},
	)
	tb.AddRow("speed", "0x60")
	tb.AddSeparator()
	tb.AddRow("internal_index", "0xC", "")

	var buf bytes.Buffer
	require.NoError(t, tb.Render(&buf))

	assert.Equal(t, strings.Join([]string{
		"NAME           OFFSET BITS",
		"-------------- ------ ----",
		"speed            0x60 -",
		"-------------- ------ ----",
		"internal_index    0xC -",
		"",
	}, "\n"), buf.String())
	assert.Equal(t, 2, tb.Len())
}

func TestRenderIgnoresEscapesInWidth(t *testing.T) {
	tb := New(ColumnSpec{Header: "A"}, ColumnSpec{Header: "B", FormatFunc: ColorYellow})
	tb.AddRow("abc", "x")
	tb.AddRow(ColorGray("de"), "y")

	var buf bytes.Buffer
	require.NoError(t, tb.Render(&buf))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "abc \033[33mx\033[0m", lines[2])
	assert.Equal(t, "\033[90mde\033[0m  \033[33my\033[0m", lines[3])
	assert.Equal(t, 2, visibleLength(ColorGreen("ok")))
}
