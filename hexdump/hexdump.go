package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"memlayout/memory"
	"memlayout/process/memory_map"
)

// Options defines options for customizing the hexdump output
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// GroupSize defines the grouping of bytes (usually 1, 2, 4, or 8)
	GroupSize int

	// ShowASCII determines whether to show the ASCII representation
	ShowASCII bool

	// StartAddress labels the first byte; dumps of remote memory pass the read address
	StartAddress memory.Address

	// OffsetWidth is the width of the address column in hex digits
	OffsetWidth int

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// ShowPointers annotates each line with the 8 byte aligned values that
	// look like pointers into MemoryMap. Guarded values are marked with '~'.
	ShowPointers bool

	// MemoryMap is the sorted memory map used for pointer validation
	MemoryMap []memory_map.MemoryMapItem

	// Guard resolves guarded values before they are checked against MemoryMap
	Guard memory.Address
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{
		BytesPerLine: 16,
		GroupSize:    1,
		ShowASCII:    true,
		OffsetWidth:  12,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.GroupSize <= 0 {
		options.GroupSize = 1
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 12
	}

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := min(offset+options.BytesPerLine, len(data))
		formatLine(writer, data[offset:end], options.StartAddress+memory.Address(offset), options)
		lineCount++
	}
}

func formatLine(writer io.Writer, data []byte, addr memory.Address, options Options) {
	fmt.Fprintf(writer, "%0"+strconv.Itoa(options.OffsetWidth)+"x  ", uint64(addr))

	groups := formatHexValues(data, options.GroupSize)
	groupsPerLine := max(options.BytesPerLine/options.GroupSize, 1)
	leftGroups := min(groupsPerLine/2, len(groups))

	// mid-line divider once the line reaches past half of BytesPerLine
	useSplit := options.BytesPerLine >= 8 && len(data) > options.BytesPerLine/2
	if useSplit && leftGroups > 0 && leftGroups < len(groups) {
		fmt.Fprint(writer, strings.Join(groups[:leftGroups], " "), " | ", strings.Join(groups[leftGroups:], " "))
	} else {
		fmt.Fprint(writer, strings.Join(groups, " "))
	}

	// pad short lines so the ASCII column stays aligned
	if options.BytesPerLine > len(data) {
		fullGroups := (options.BytesPerLine + options.GroupSize - 1) / options.GroupSize
		curGroups := (len(data) + options.GroupSize - 1) / options.GroupSize
		padding := (options.BytesPerLine-len(data))*2 + (fullGroups - 1) - max(0, curGroups-1)
		if options.BytesPerLine >= 8 && !useSplit {
			// the divider replaces one separator
			padding += 2
		}
		fmt.Fprint(writer, strings.Repeat(" ", padding))
	}

	if options.ShowASCII {
		fmt.Fprint(writer, " | ")
		mid := options.BytesPerLine / 2
		if options.BytesPerLine >= 8 && len(data) > mid {
			fmt.Fprint(writer, formatASCII(data[:mid]), " ", formatASCII(data[mid:]))
		} else {
			fmt.Fprint(writer, formatASCII(data))
		}
	}

	if options.ShowPointers {
		var ptrs []string
		for i := 0; i+8 <= len(data); i += 8 {
			if p, ok := pointerAt(data[i:i+8], options); ok {
				ptrs = append(ptrs, p)
			}
		}
		if len(ptrs) > 0 {
			fmt.Fprint(writer, " | ", strings.Join(ptrs, " "))
		}
	}

	fmt.Fprintln(writer)
}

func formatASCII(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		if c < 0x80 && unicode.IsPrint(rune(c)) {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func formatHexValues(data []byte, groupSize int) []string {
	var result []string
	var group strings.Builder

	for i, b := range data {
		fmt.Fprintf(&group, "%02x", b)
		if (i+1)%groupSize == 0 || i == len(data)-1 {
			result = append(result, group.String())
			group.Reset()
		}
	}

	return result
}

// pointerAt reports the 8 bytes as a pointer when they pass address
// validation and land inside the memory map
func pointerAt(word []byte, options Options) (string, bool) {
	v := memory.Address(binary.LittleEndian.Uint64(word))
	if !memory.IsValid(v) {
		return "", false
	}

	target, mark := v, ""
	if memory.IsGuarded(v) {
		target = options.Guard + v&0xFFFFFF
		mark = "~"
	}
	if memory_map.Find(uint64(target), options.MemoryMap) == nil {
		return "", false
	}
	return mark + v.String(), true
}
