package names

import (
	"fmt"
	"unicode/utf8"

	"memlayout/memory"
	"memlayout/process"

	"golang.org/x/text/encoding/unicode"
)

const (
	// DefaultStride is the byte distance between consecutive entry offsets
	DefaultStride = 4

	blockTableOffset = 0x10
	headerOffset     = 4
	textOffset       = 6
	maxNameLength    = 1024
)

// FName is the in-object reference to a pooled name
type FName struct {
	ComparisonIndex int32
	Number          uint32
	DisplayIndex    int32
}

// Decoder rewrites the raw text of an entry in place before it is decoded.
// Pools that store their names scrambled install one with WithDecoder.
type Decoder func(buf []byte, length uint16, wide bool)

type PoolOption func(p *Pool)

func WithStride(stride uint32) PoolOption {
	return func(p *Pool) {
		p.stride = stride
	}
}

func WithDecoder(decode Decoder) PoolOption {
	return func(p *Pool) {
		p.decode = decode
	}
}

// Pool resolves name indexes against the remote name pool at a fixed address.
// Resolved names and their hashes are cached for the life of the Pool.
type Pool struct {
	addr   memory.Address
	stride uint32
	decode Decoder

	names  *memory.Memo[int32, string]
	hashes *memory.Memo[int32, uint64]
}

func NewPool(addr memory.Address, opts ...PoolOption) *Pool {
	p := &Pool{
		addr:   addr,
		stride: DefaultStride,
		names:  memory.NewMemo[int32, string](),
		hashes: memory.NewMemo[int32, uint64](),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) Addr() memory.Address {
	return p.addr
}

// Entry returns the address of the pool entry for idx.
// The high 16 bits select a block, the low 16 bits the entry inside it.
func (p *Pool) Entry(m *memory.Memory, idx int32) (memory.Address, error) {
	block := uint32(idx) >> 16
	offset := uint32(idx) & 0xFFFF

	blockAddr, err := memory.Read[memory.Address](m, p.addr+blockTableOffset+memory.Address(8*block))
	if err != nil {
		return 0, fmt.Errorf("name block %d: %w", block, err)
	}

	entry := blockAddr + memory.Address(offset*p.stride)
	if !memory.IsValid(entry) {
		return 0, fmt.Errorf("name %d entry %s: %w", idx, entry, process.BadData)
	}
	return entry, nil
}

// Name resolves idx to its text
func (p *Pool) Name(m *memory.Memory, idx int32) (string, error) {
	return p.names.Do(idx, func() (string, error) {
		return p.read(m, idx)
	})
}

// Hash is memory.NameHash of the resolved name
func (p *Pool) Hash(m *memory.Memory, idx int32) (uint64, error) {
	return p.hashes.Do(idx, func() (uint64, error) {
		name, err := p.Name(m, idx)
		if err != nil {
			return 0, err
		}
		return memory.NameHash(name), nil
	})
}

// Resolve is Name for an FName read from an object
func (p *Pool) Resolve(m *memory.Memory, name FName) (string, error) {
	return p.Name(m, name.ComparisonIndex)
}

// Forget drops every cached name, after the target reloaded its pool
func (p *Pool) Forget() {
	p.names.Reset()
	p.hashes.Reset()
}

func (p *Pool) read(m *memory.Memory, idx int32) (string, error) {
	entry, err := p.Entry(m, idx)
	if err != nil {
		return "", err
	}

	header, err := memory.Read[uint16](m, entry+headerOffset)
	if err != nil {
		return "", fmt.Errorf("name %d header: %w", idx, err)
	}
	length := header >> 1
	wide := header&1 != 0
	if length > maxNameLength {
		return "", fmt.Errorf("name %d length %d: %w", idx, length, process.BadData)
	}

	size := int(length)
	if wide {
		size *= 2
	}
	buf, err := memory.ReadArray[byte](m, entry+textOffset, size)
	if err != nil {
		return "", fmt.Errorf("name %d text: %w", idx, err)
	}

	if p.decode != nil {
		p.decode(buf, length, wide)
	}

	if wide {
		text, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(buf)
		if err != nil {
			return "", fmt.Errorf("name %d: %v: %w", idx, err, process.BadData)
		}
		return string(text), nil
	}

	if !utf8.Valid(buf) {
		return "", fmt.Errorf("name %d is not text: %w", idx, process.BadData)
	}
	return string(buf), nil
}
