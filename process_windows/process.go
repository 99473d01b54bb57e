//go:build windows

package process_windows

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"memlayout/process"
	"memlayout/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

const desiredAccess = windows.PROCESS_VM_READ |
	windows.PROCESS_VM_WRITE |
	windows.PROCESS_VM_OPERATION |
	windows.PROCESS_QUERY_INFORMATION

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

// WithGuardPattern locates the guard as the allocation holding the first match of aob
func WithGuardPattern(aob process.AOB) Option {
	return func(d *Driver) {
		d.guard = func(d *Driver) (process.Address, error) {
			matches, err := d.Scan(aob)
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

// Driver implements process.Driver with ReadProcessMemory and WriteProcessMemory
type Driver struct {
	pid    process.ProcessID
	handle windows.Handle
	log    *logger.Logger
	mm     []memory_map.MemoryMapItem
	guard  GuardLocator
	mu     sync.Mutex
}

var (
	_ process.Driver = (*Driver)(nil)
	_ process.Mapper = (*Driver)(nil)
)

// Attach opens the process with the given PID
func Attach(pid process.ProcessID, opts ...Option) (*Driver, error) {
	handle, err := windows.OpenProcess(desiredAccess, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("OpenProcess failed: %w", err)
	}

	d := &Driver{
		pid:    pid,
		handle: handle,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.UpdateMemoryMap(); err != nil {
		d.log.Warn("Failed to initialize memory map: ", err)
	}

	d.log.Infoln("Process opened")
	return d, nil
}

// Opener adapts Attach to process.Opener
func Opener(opts ...Option) process.Opener {
	return func(pid process.ProcessID) (process.Driver, error) {
		return Attach(pid, opts...)
	}
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle != 0 {
		if err := windows.CloseHandle(d.handle); err != nil {
			return fmt.Errorf("CloseHandle failed: %w", err)
		}
		d.handle = 0
	}

	d.pid = 0
	d.mm = nil
	d.log.Infoln("Process closed")
	d.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

// UpdateMemoryMap walks the address space with VirtualQueryEx
func (d *Driver) UpdateMemoryMap() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == 0 {
		return process.ErrProcessNotOpen
	}

	var mm []memory_map.MemoryMapItem
	var mbi windows.MemoryBasicInformation
	addr := uintptr(0)
	for {
		if err := windows.VirtualQueryEx(d.handle, addr, &mbi, unsafe.Sizeof(mbi)); err != nil {
			break // end of the address space
		}
		if mbi.State == windows.MEM_COMMIT {
			mm = append(mm, memory_map.MemoryMapItem{
				Address: uint64(mbi.BaseAddress),
				Size:    uint(mbi.RegionSize),
				Perms:   protectPerms(mbi.Protect),
			})
		}

		next := mbi.BaseAddress + mbi.RegionSize
		if next <= addr {
			break
		}
		addr = next
	}

	memory_map.Sort(mm)
	d.mm = mm
	return nil
}

// MemoryMap returns a copy of the last walked memory map
func (d *Driver) MemoryMap() ([]memory_map.MemoryMapItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == 0 {
		return nil, process.ErrProcessNotOpen
	}

	result := make([]memory_map.MemoryMapItem, len(d.mm))
	copy(result, d.mm)
	return result, nil
}

// protectPerms renders a PAGE_* protection as a maps style permission string
func protectPerms(protect uint32) string {
	if protect&(windows.PAGE_NOACCESS|windows.PAGE_GUARD) != 0 {
		return "---p"
	}

	var b strings.Builder
	b.WriteByte('r')
	switch protect & 0xFF {
	case windows.PAGE_READWRITE, windows.PAGE_WRITECOPY, windows.PAGE_EXECUTE_READWRITE, windows.PAGE_EXECUTE_WRITECOPY:
		b.WriteByte('w')
	default:
		b.WriteByte('-')
	}
	switch protect & 0xFF {
	case windows.PAGE_EXECUTE, windows.PAGE_EXECUTE_READ, windows.PAGE_EXECUTE_READWRITE, windows.PAGE_EXECUTE_WRITECOPY:
		b.WriteByte('x')
	default:
		b.WriteByte('-')
	}
	b.WriteByte('p')
	return b.String()
}

// ProcessBase returns the base of the first module in the process, which is the executable
func (d *Driver) ProcessBase() (process.Address, error) {
	d.mu.Lock()
	pid := d.pid
	d.mu.Unlock()

	if pid == 0 {
		return 0, process.ErrProcessNotOpen
	}

	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(pid))
	if err != nil {
		return 0, fmt.Errorf("module snapshot: %v: %w", err, process.BadProcessBase)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Module32First(snapshot, &entry); err != nil {
		return 0, fmt.Errorf("Module32First: %v: %w", err, process.BadProcessBase)
	}

	for {
		if strings.HasSuffix(strings.ToLower(windows.UTF16ToString(entry.Module[:])), ".exe") {
			return process.Address(entry.ModBaseAddr), nil
		}
		if err := windows.Module32Next(snapshot, &entry); err != nil {
			break
		}
	}

	return 0, fmt.Errorf("no executable module: %w", process.BadProcessBase)
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

func (d *Driver) Read(req process.Request) error {
	if len(req.Buffer) == 0 {
		return nil
	}

	d.mu.Lock()
	handle := d.handle
	d.mu.Unlock()

	if handle == 0 {
		return process.ErrProcessNotOpen
	}

	var bytesRead uintptr
	err := windows.ReadProcessMemory(handle, uintptr(req.Target), &req.Buffer[0], uintptr(len(req.Buffer)), &bytesRead)
	if err != nil {
		return fmt.Errorf("ReadProcessMemory at %s: %v: %w", req.Target, err, process.BadRead)
	}
	if bytesRead != uintptr(len(req.Buffer)) {
		return fmt.Errorf("read incomplete: expected %d, got %d: %w", len(req.Buffer), bytesRead, process.BadRead)
	}

	return nil
}

func (d *Driver) Write(req process.Request) error {
	if len(req.Buffer) == 0 {
		return nil
	}

	d.mu.Lock()
	handle := d.handle
	d.mu.Unlock()

	if handle == 0 {
		return process.ErrProcessNotOpen
	}

	var written uintptr
	err := windows.WriteProcessMemory(handle, uintptr(req.Target), &req.Buffer[0], uintptr(len(req.Buffer)), &written)
	if err != nil {
		return fmt.Errorf("WriteProcessMemory at %s: %v: %w", req.Target, err, process.BadRead)
	}
	if written != uintptr(len(req.Buffer)) {
		return fmt.Errorf("only wrote %d of %d bytes: %w", written, len(req.Buffer), process.BadRead)
	}

	return nil
}

// Scan searches committed readable regions for aob
func (d *Driver) Scan(aob process.AOB) ([]process.Address, error) {
	aob, err := aob.Normalize()
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	mm := make([]memory_map.MemoryMapItem, len(d.mm))
	copy(mm, d.mm)
	d.mu.Unlock()

	var results []process.Address
	for _, region := range mm {
		if !region.IsReadable() {
			continue
		}

		data := make([]byte, region.Size)
		if err := d.Read(process.Request{Target: process.Address(region.Address), Buffer: data}); err != nil {
			d.log.Debugln("Failed to read memory region at", fmt.Sprintf("%x", region.Address), err)
			continue
		}

		for _, offset := range aob.Match(data) {
			results = append(results, process.Address(region.Address+uint64(offset)))
		}
	}

	return results, nil
}
