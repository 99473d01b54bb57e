package search

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"memlayout/memory"
	"memlayout/process"
)

// Searcher holds configuration for the search
type Searcher struct {
	MaxStructSize uint
	MaxDepth      int
	MinAlignment  uint
	SearchFor     func([]byte) bool
}

// Option is a function that configures a Searcher
type Option func(*Searcher)

func WithMaxStructSize(size uint) Option {
	return func(s *Searcher) {
		s.MaxStructSize = size
	}
}

func WithMaxDepth(depth int) Option {
	return func(s *Searcher) {
		s.MaxDepth = depth
	}
}

func WithMinAlignment(align uint) Option {
	return func(s *Searcher) {
		s.MinAlignment = align
	}
}

// WithSearchForBytes matches any offset whose memory starts with want
func WithSearchForBytes(want []byte) Option {
	return func(s *Searcher) {
		s.SearchFor = func(data []byte) bool {
			return bytes.HasPrefix(data, want)
		}
	}
}

// WithSearchForType matches the little endian encoding of a plain data value
func WithSearchForType[T any](val T) Option {
	buf, err := binary.Append(nil, binary.LittleEndian, val)
	if err != nil {
		panic(fmt.Sprintf("search value %T is not fixed size: %v", val, err))
	}
	return WithSearchForBytes(buf)
}

// Result is one offset path from the search root to a match. Every offset
// but the last is dereferenced as a pointer, the last one holds the value.
type Result struct {
	Path []uint64
}

// Address follows the path from root and returns the address of the match
func (r Result) Address(m *memory.Memory, root memory.Address) (memory.Address, error) {
	addr := root
	for i, off := range r.Path {
		addr += memory.Address(off)
		if i == len(r.Path)-1 {
			break
		}
		next, err := memory.Read[memory.Address](m, addr)
		if err != nil {
			return 0, fmt.Errorf("path %s step %d: %w", r, i, err)
		}
		addr = m.Unguard(next)
	}
	return addr, nil
}

func (r Result) String() string {
	parts := make([]string, len(r.Path))
	for i, off := range r.Path {
		parts[i] = fmt.Sprintf("0x%X", off)
	}
	return strings.Join(parts, " -> ")
}

// Search walks every pointer reachable from root up to MaxDepth hops and
// reports each aligned offset matching SearchFor. Pointers go through the
// same validation and guard resolution as any other read, and every
// structure is visited once.
func Search(m *memory.Memory, root memory.Address, options ...Option) ([]Result, error) {
	s := &Searcher{
		MaxStructSize: 256,
		MaxDepth:      3,
		MinAlignment:  4,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.SearchFor == nil {
		return nil, fmt.Errorf("no search target specified: %w", process.InvalidArgument)
	}
	if s.MinAlignment == 0 || s.MaxStructSize == 0 {
		return nil, fmt.Errorf("alignment and struct size must be positive: %w", process.InvalidArgument)
	}
	if !memory.IsValid(root) {
		return nil, fmt.Errorf("search root %s: %w", root, process.InvalidAddress)
	}

	var results []Result
	visited := make(map[memory.Address]bool)

	var searchRecursive func(addr memory.Address, depth int, path []uint64)
	searchRecursive = func(addr memory.Address, depth int, path []uint64) {
		if depth > s.MaxDepth || visited[addr] {
			return
		}
		visited[addr] = true

		data := make([]byte, s.MaxStructSize)
		if err := m.ReadBytes(addr, data); err != nil {
			return
		}

		for offset := uint(0); offset+s.MinAlignment <= uint(len(data)); offset += s.MinAlignment {
			if s.SearchFor(data[offset:]) {
				results = append(results, Result{Path: extend(path, offset)})
			}

			if offset%8 != 0 || offset+8 > uint(len(data)) || depth == s.MaxDepth {
				continue
			}
			ptr := memory.Address(binary.LittleEndian.Uint64(data[offset:]))
			if !memory.IsValid(ptr) {
				continue
			}
			searchRecursive(m.Unguard(ptr), depth+1, extend(path, offset))
		}
	}

	searchRecursive(root, 0, nil)

	return results, nil
}

func extend(path []uint64, offset uint) []uint64 {
	next := make([]uint64, len(path), len(path)+1)
	copy(next, path)
	return append(next, uint64(offset))
}

// ParseValue encodes text as the little endian bytes of kind:
// u8 u16 u32 u64 i8 i16 i32 i64 f32 f64 ptr
func ParseValue(kind, text string) ([]byte, error) {
	bits := 0
	switch kind {
	case "u8", "i8":
		bits = 8
	case "u16", "i16":
		bits = 16
	case "u32", "i32", "f32":
		bits = 32
	case "u64", "i64", "f64", "ptr":
		bits = 64
	default:
		return nil, fmt.Errorf("unknown value type %q: %w", kind, process.InvalidArgument)
	}

	var raw uint64
	var err error
	switch kind[0] {
	case 'u', 'p':
		raw, err = strconv.ParseUint(text, 0, bits)
	case 'i':
		var n int64
		n, err = strconv.ParseInt(text, 0, bits)
		raw = uint64(n)
	case 'f':
		var f float64
		f, err = strconv.ParseFloat(text, bits)
		if bits == 32 {
			raw = uint64(math.Float32bits(float32(f)))
		} else {
			raw = math.Float64bits(f)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s value %q: %v: %w", kind, text, err, process.InvalidArgument)
	}

	buf := binary.LittleEndian.AppendUint64(nil, raw)
	return buf[:bits/8], nil
}
