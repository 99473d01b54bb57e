//go:build !linux && !windows

package attach

import (
	"fmt"

	"memlayout/process"
)

func live(o Options) (process.Finder, process.Opener, error) {
	return nil, nil, fmt.Errorf("no live process driver on this platform, use a dump: %w", process.InvalidArgument)
}

func save(pid process.ProcessID, dir string) error {
	return fmt.Errorf("saving a dump is only supported on linux: %w", process.InvalidArgument)
}

func scanLive(d process.Driver, aob process.AOB, parallelism uint) ([]process.Address, bool, error) {
	return nil, false, nil
}
