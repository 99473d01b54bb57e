// Package attach picks the process backend for a run: the live driver of the
// current platform, or a dump directory written by Save.
package attach

import (
	"fmt"

	"memlayout/process"
	"memlayout/process/memory_map"
	"memlayout/process_blob"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

type Options struct {
	// From is a saved dump directory. Empty means the live process.
	From string

	// Guard is a known guard address. It wins over GuardPattern.
	Guard process.Address

	// GuardPattern locates the guard as the start of the region holding its first match
	GuardPattern *process.AOB

	// Parallelism bounds concurrent region scans, 0 for one per CPU
	Parallelism uint
}

var log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "attach"))

// Backend returns where processes are found and how they are attached
func Backend(o Options) (process.Finder, process.Opener, error) {
	if o.From == "" {
		return live(o)
	}

	dump := process_blob.NewDump()
	if err := dump.Load(o.From); err != nil {
		return nil, nil, fmt.Errorf("load dump %s: %w", o.From, err)
	}

	switch {
	case o.Guard != 0:
		dump.Guard = o.Guard
	case o.GuardPattern != nil:
		guard, err := GuardFromPattern(dump, *o.GuardPattern)
		if err != nil {
			return nil, nil, err
		}
		dump.Guard = guard
	}

	log.Infoln("Loaded dump of", dump.Name, "pid", dump.PID, "from", o.From)
	return dump, dump.Opener(), nil
}

// GuardFromPattern is the start of the dump region holding the first match
func GuardFromPattern(dump *process_blob.Dump, aob process.AOB) (process.Address, error) {
	matches, err := dump.Scan(aob)
	if err != nil {
		return 0, fmt.Errorf("guard scan: %v: %w", err, process.BadGuard)
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("guard pattern %s not found: %w", aob, process.BadGuard)
	}

	mm, err := dump.MemoryMap()
	if err != nil {
		return 0, err
	}
	region := memory_map.Find(uint64(matches[0]), mm)
	if region == nil {
		return 0, fmt.Errorf("guard match %s is not mapped: %w", matches[0], process.BadGuard)
	}
	return process.Address(region.Address), nil
}

type scanner interface {
	Scan(aob process.AOB) ([]process.Address, error)
}

// Scan searches the readable memory behind d for aob
func Scan(d process.Driver, aob process.AOB, parallelism uint) ([]process.Address, error) {
	if matches, ok, err := scanLive(d, aob, parallelism); ok {
		return matches, err
	}

	s, ok := d.(scanner)
	if !ok {
		return nil, fmt.Errorf("driver %T cannot scan: %w", d, process.InvalidArgument)
	}
	return s.Scan(aob)
}

// Save writes the readable memory of the live process pid as a dump directory
func Save(pid process.ProcessID, dir string) error {
	return save(pid, dir)
}
