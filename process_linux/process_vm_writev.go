//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"memlayout/process"

	"golang.org/x/sys/unix"
)

// process_vm_writev uses the process_vm_writev syscall to write memory to another process
func process_vm_writev(
	pid process.ProcessID,
	localBuf []byte,
	remoteAddr process.Address,
) (int, error) {
	if len(localBuf) == 0 {
		return 0, nil
	}

	localIov := unix.Iovec{
		Base: &localBuf[0],
		Len:  uint64(len(localBuf)),
	}

	remoteIov := unix.RemoteIovec{
		Base: uintptr(remoteAddr),
		Len:  len(localBuf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_WRITEV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)

	if errno != 0 {
		return 0, fmt.Errorf("process_vm_writev failed: %s (errno: %d)", errno.Error(), errno)
	}

	return int(n), nil
}

// Write copies req.Buffer into the process memory at req.Target
func (d *Driver) Write(req process.Request) error {
	pid, region := d.mapping(req.Target, req.Size())

	if pid == 0 {
		return fmt.Errorf("write at %s: %w", req.Target, process.ErrProcessNotOpen)
	}
	if region == nil {
		return fmt.Errorf("write at %s: address not mapped: %w", req.Target, process.BadRead)
	}
	if !region.IsWritable() {
		return fmt.Errorf("write at %s: region is not writable: %w", req.Target, process.BadRead)
	}

	// the caller may reuse its buffer while the syscall runs
	dataCopy := make([]byte, len(req.Buffer))
	copy(dataCopy, req.Buffer)

	written, err := process_vm_writev(pid, dataCopy, req.Target)
	if err != nil {
		return fmt.Errorf("write at %s: %v: %w", req.Target, err, process.BadRead)
	}
	if written != len(dataCopy) {
		return fmt.Errorf("only wrote %d of %d bytes: %w", written, len(dataCopy), process.BadRead)
	}

	return nil
}
