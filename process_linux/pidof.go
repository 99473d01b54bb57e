//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"memlayout/process"
)

// Finder implements process.Finder over /proc
type Finder struct {
	// Root is the procfs mount, "/proc" when empty
	Root string
}

var _ process.Finder = Finder{}

func NewFinder() Finder {
	return Finder{Root: "/proc"}
}

// FindProcessByName returns all processes whose comm or exe basename equals name.
// The match is case-sensitive, like pidof.
func (f Finder) FindProcessByName(name string) ([]process.ProcessInfo, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}

	root := f.Root
	if root == "" {
		root = "/proc"
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	selfPID := os.Getpid()
	var out []process.ProcessInfo

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		if pid == selfPID {
			continue
		}

		// may fail if zombie or permission
		exe, _ := os.Readlink(filepath.Join(root, e.Name(), "exe"))

		comm, _ := os.ReadFile(filepath.Join(root, e.Name(), "comm"))
		comm = bytesTrimNL(comm)
		if string(comm) == name {
			out = append(out, process.ProcessInfo{PID: process.ProcessID(pid), Name: string(comm), Exe: exe})
			continue
		}

		if exe != "" && filepath.Base(exe) == name {
			out = append(out, process.ProcessInfo{PID: process.ProcessID(pid), Name: filepath.Base(exe), Exe: exe})
		}
	}

	return out, nil
}

func bytesTrimNL(b []byte) []byte {
	// comm has a trailing newline
	for len(b) > 0 {
		switch b[len(b)-1] {
		case '\n', '\r', ' ', '\t':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}
