package process_blob

import (
	"fmt"

	"memlayout/process"
	"memlayout/process/memory_map"
)

// Region is one contiguous block of captured process memory
type Region struct {
	memory_map.MemoryMapItem
	data []byte
}

// NewRegion creates a readable and writable region holding a copy of data
func NewRegion(baseAddress process.Address, data []byte) *Region {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Region{
		MemoryMapItem: memory_map.MemoryMapItem{
			Address: uint64(baseAddress),
			Size:    uint(len(buf)),
			Perms:   "rw-p",
		},
		data: buf,
	}
}

func (r *Region) Data() []byte {
	return r.data
}

// bounds returns the slice of region data backing [addr, addr+size)
func (r *Region) bounds(addr process.Address, size process.Size) ([]byte, error) {
	base := process.Address(r.Address)
	if addr < base || uint64(addr)+uint64(size) > uint64(base)+uint64(len(r.data)) {
		return nil, fmt.Errorf("address %s size %d out of region %s: %w", addr, size, base, process.BadRead)
	}
	offset := uint64(addr - base)
	return r.data[offset : offset+uint64(size)], nil
}

// ReadInto copies region bytes at addr into dst
func (r *Region) ReadInto(addr process.Address, dst []byte) error {
	src, err := r.bounds(addr, process.Size(len(dst)))
	if err != nil {
		return err
	}
	copy(dst, src)
	return nil
}

// WriteFrom copies src into the region at addr
func (r *Region) WriteFrom(addr process.Address, src []byte) error {
	if !r.IsWritable() {
		return fmt.Errorf("region %x is not writable: %w", r.Address, process.BadRead)
	}
	dst, err := r.bounds(addr, process.Size(len(src)))
	if err != nil {
		return err
	}
	copy(dst, src)
	return nil
}
