//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"memlayout/process"

	"golang.org/x/sys/unix"
)

// process_vm_readv uses the process_vm_readv syscall to read memory from another process
func process_vm_readv(
	pid process.ProcessID,
	localBuf []byte,
	remoteAddr process.Address,
) (int, error) {
	if len(localBuf) == 0 {
		return 0, nil
	}

	// Create iovec for local buffer
	localIov := unix.Iovec{
		Base: &localBuf[0],
		Len:  uint64(len(localBuf)),
	}

	// Create iovec for remote buffer
	remoteIov := unix.RemoteIovec{
		Base: uintptr(remoteAddr),
		Len:  len(localBuf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(pid),                        // Remote process PID
		uintptr(unsafe.Pointer(&localIov)),  // Local iovec
		uintptr(1),                          // Number of local iovecs
		uintptr(unsafe.Pointer(&remoteIov)), // Remote iovec
		uintptr(1),                          // Number of remote iovecs
		uintptr(0),                          // Flags (reserved for future use)
	)

	if errno != 0 {
		return 0, fmt.Errorf("process_vm_readv failed: %s (errno: %d)", errno.Error(), errno)
	}

	return int(n), nil
}

// Read fills req.Buffer from the process memory at req.Target
func (d *Driver) Read(req process.Request) error {
	pid, region := d.mapping(req.Target, req.Size())

	if pid == 0 {
		return fmt.Errorf("read at %s: %w", req.Target, process.ErrProcessNotOpen)
	}
	if region == nil || !region.IsReadable() {
		return fmt.Errorf("read at %s: address not mapped: %w", req.Target, process.BadRead)
	}

	n, err := process_vm_readv(pid, req.Buffer, req.Target)
	if err != nil {
		return fmt.Errorf("read at %s: %v: %w", req.Target, err, process.BadRead)
	}
	if n != len(req.Buffer) {
		return fmt.Errorf("partial read at %s: %d of %d bytes: %w", req.Target, n, len(req.Buffer), process.BadRead)
	}

	return nil
}
