package memory_map

import (
	"fmt"
	"sort"
)

// MemoryMapItem represents a memory region in a process's address space
type MemoryMapItem struct {
	Address uint64 `json:"Address"` // The starting address of the memory region
	Size    uint   `json:"Size"`    // The size of the memory region in bytes
	Perms   string `json:"Perms"`   // Permissions (e.g., "r-xp" for read, execute, private)
	Path    string `json:"Path,omitempty"`
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	return fmt.Sprintf("Address: %x, Size: %d, Perms: %s %s", mmItem.Address, mmItem.Size, mmItem.Perms, mmItem.Path)
}

func (mmItem MemoryMapItem) End() uint64 {
	return mmItem.Address + uint64(mmItem.Size)
}

func (mmItem MemoryMapItem) IsReadable() bool {
	return len(mmItem.Perms) > 0 && mmItem.Perms[0] == 'r'
}

func (mmItem MemoryMapItem) IsWritable() bool {
	return len(mmItem.Perms) > 1 && mmItem.Perms[1] == 'w'
}

// Sort orders a memory map by address, which Find requires
func Sort(memoryMap []MemoryMapItem) {
	sort.Slice(memoryMap, func(i, j int) bool {
		return memoryMap[i].Address < memoryMap[j].Address
	})
}

// Find returns the region containing addr in a sorted memory map, or nil
func Find(addr uint64, memoryMap []MemoryMapItem) *MemoryMapItem {
	i := sort.Search(len(memoryMap), func(i int) bool {
		return memoryMap[i].End() > addr
	})
	if i < len(memoryMap) && memoryMap[i].Address <= addr {
		return &memoryMap[i]
	}

	return nil
}

// Contains reports whether [addr, addr+size) lies inside a single region
func Contains(addr uint64, size uint64, memoryMap []MemoryMapItem) bool {
	item := Find(addr, memoryMap)
	return item != nil && addr+size <= item.End()
}
