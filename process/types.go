package process

import (
	"fmt"
)

// Address is an address inside the target process
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("0x%X", uint64(a))
}

// Size is the size of a memory region in the target process
type Size uint

func (s Size) String() string {
	return fmt.Sprintf("%d bytes", uint(s))
}

// ProcessID represents a unique identifier for a process
type ProcessID int

// ProcessInfo contains basic information about a process
type ProcessInfo struct {
	PID  ProcessID // Process ID
	Name string    // Process name (comm on linux, exe file on windows)
	Exe  string    // Path to the executable, when known
}
