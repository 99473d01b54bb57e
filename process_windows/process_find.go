//go:build windows

package process_windows

import (
	"fmt"
	"strings"
	"unsafe"

	"memlayout/process"

	"golang.org/x/sys/windows"
)

// Finder implements process.Finder with a toolhelp process snapshot
type Finder struct{}

var _ process.Finder = Finder{}

func NewFinder() Finder {
	return Finder{}
}

// FindProcessByName matches the executable file name, ignoring case
func (Finder) FindProcessByName(name string) ([]process.ProcessInfo, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snapshot, &entry); err != nil {
		return nil, fmt.Errorf("Process32First: %w", err)
	}

	var out []process.ProcessInfo
	for {
		exe := windows.UTF16ToString(entry.ExeFile[:])
		if strings.EqualFold(exe, name) {
			out = append(out, process.ProcessInfo{PID: process.ProcessID(entry.ProcessID), Name: exe})
		}
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}

	return out, nil
}
