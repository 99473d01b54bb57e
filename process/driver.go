package process

import "memlayout/process/memory_map"

// Request is one unit of work for a Driver: copy len(Buffer) bytes between
// Target in the remote process and Buffer in this process.
// Requests are built and consumed inside a single call and never kept.
type Request struct {
	Target Address
	Buffer []byte
}

// Size returns the number of bytes the request transfers
func (r Request) Size() Size {
	return Size(len(r.Buffer))
}

// Driver is the narrow contract the memory layer calls through.
// Implementations own the OS transport (kernel driver, debug API, dump file, ...).
type Driver interface {
	// ProcessBase returns the base address of the main module
	ProcessBase() (Address, error)

	// FindGuard locates the guard value used to remap decoy addresses
	FindGuard() (Address, error)

	// Read copies remote memory at req.Target into req.Buffer
	Read(req Request) error

	// Write copies req.Buffer into remote memory at req.Target
	Write(req Request) error

	// Close releases the attachment
	Close() error
}

// Opener attaches a Driver to the process with the given id
type Opener func(pid ProcessID) (Driver, error)

// Mapper is implemented by drivers that can list the target's mapped regions
type Mapper interface {
	MemoryMap() ([]memory_map.MemoryMapItem, error)
}
