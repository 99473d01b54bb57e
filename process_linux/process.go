//go:build linux

package process_linux

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"memlayout/process"
	"memlayout/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// GuardLocator discovers the guard value of an attached process
type GuardLocator func(d *Driver) (process.Address, error)

type Option func(d *Driver)

// WithGuard uses a known guard value
func WithGuard(guard process.Address) Option {
	return func(d *Driver) {
		d.guard = func(*Driver) (process.Address, error) {
			return guard, nil
		}
	}
}

// WithGuardPattern locates the guard as the start of the mapping that holds
// the first match of aob
func WithGuardPattern(aob process.AOB) Option {
	return func(d *Driver) {
		d.guard = func(d *Driver) (process.Address, error) {
			matches, err := d.Scan(aob, 0)
			if err != nil {
				return 0, fmt.Errorf("guard scan: %v: %w", err, process.BadGuard)
			}
			if len(matches) == 0 {
				return 0, fmt.Errorf("guard pattern not found: %w", process.BadGuard)
			}

			d.mu.Lock()
			defer d.mu.Unlock()
			region := memory_map.Find(uint64(matches[0]), d.mm)
			if region == nil {
				return 0, fmt.Errorf("guard match %s is not mapped: %w", matches[0], process.BadGuard)
			}
			return process.Address(region.Address), nil
		}
	}
}

// WithScanParallelism bounds the number of regions scanned concurrently
func WithScanParallelism(maxdop uint) Option {
	return func(d *Driver) {
		d.maxdop = maxdop
	}
}

// Driver implements process.Driver with process_vm_readv and process_vm_writev
type Driver struct {
	pid    process.ProcessID
	exe    string
	log    *logger.Logger
	mm     []memory_map.MemoryMapItem
	guard  GuardLocator
	maxdop uint
	mu     sync.Mutex
}

var (
	_ process.Driver = (*Driver)(nil)
	_ process.Mapper = (*Driver)(nil)
)

// Attach opens the process with the given PID
func Attach(pid process.ProcessID, opts ...Option) (*Driver, error) {
	procPath := fmt.Sprintf("/proc/%d", pid)
	if _, err := os.Stat(procPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("process with PID %d does not exist: %w", pid, process.ErrProcessNotFound)
	}

	exe, _ := os.Readlink(filepath.Join(procPath, "exe"))

	d := &Driver{
		pid: pid,
		exe: exe,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.UpdateMemoryMap(); err != nil {
		return nil, fmt.Errorf("failed to initialize memory map: %w", err)
	}

	d.log.Infoln("Process opened", exe)
	return d, nil
}

// Opener adapts Attach to process.Opener
func Opener(opts ...Option) process.Opener {
	return func(pid process.ProcessID) (process.Driver, error) {
		return Attach(pid, opts...)
	}
}

func (d *Driver) PID() process.ProcessID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pid
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pid = 0
	d.mm = nil
	d.log.Infoln("Process closed")
	d.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

// UpdateMemoryMap rereads /proc/<pid>/maps
func (d *Driver) UpdateMemoryMap() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pid == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := memory_map.ReadMemoryMap(int(d.pid))
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	d.mm = mm
	return nil
}

// MemoryMap returns a copy of the last read memory map
func (d *Driver) MemoryMap() ([]memory_map.MemoryMapItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pid == 0 {
		return nil, process.ErrProcessNotOpen
	}

	result := make([]memory_map.MemoryMapItem, len(d.mm))
	copy(result, d.mm)
	return result, nil
}

// ProcessBase returns the lowest mapping backed by the process executable
func (d *Driver) ProcessBase() (process.Address, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pid == 0 {
		return 0, process.ErrProcessNotOpen
	}
	if d.exe == "" {
		return 0, fmt.Errorf("executable path unknown: %w", process.BadProcessBase)
	}

	for _, item := range d.mm {
		if item.Path == d.exe {
			return process.Address(item.Address), nil
		}
	}

	return 0, fmt.Errorf("no mapping for %s: %w", d.exe, process.BadProcessBase)
}

func (d *Driver) FindGuard() (process.Address, error) {
	if d.guard == nil {
		return 0, fmt.Errorf("no guard locator configured: %w", process.BadGuard)
	}

	guard, err := d.guard(d)
	if err != nil {
		return 0, err
	}

	d.log.Infoln("Guard located at", guard)
	return guard, nil
}

// mapping returns the pid and the region holding [addr, addr+size). The
// target maps memory while attached, so a miss rereads the map once.
func (d *Driver) mapping(addr process.Address, size process.Size) (process.ProcessID, *memory_map.MemoryMapItem) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pid == 0 {
		return 0, nil
	}
	if region := d.regionFor(addr, size); region != nil {
		return d.pid, region
	}

	mm, err := memory_map.ReadMemoryMap(int(d.pid))
	if err != nil {
		d.log.Warn("Failed to refresh memory map: ", err)
		return d.pid, nil
	}
	d.mm = mm
	return d.pid, d.regionFor(addr, size)
}

// regionFor returns the mapping containing [addr, addr+size), assumes the lock is held
func (d *Driver) regionFor(addr process.Address, size process.Size) *memory_map.MemoryMapItem {
	item := memory_map.Find(uint64(addr), d.mm)
	if item == nil || uint64(addr)+uint64(size) > item.End() {
		return nil
	}
	return item
}
