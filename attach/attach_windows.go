//go:build windows

package attach

import (
	"fmt"

	"memlayout/process"
	"memlayout/process_windows"
)

func live(o Options) (process.Finder, process.Opener, error) {
	var opts []process_windows.Option
	if o.GuardPattern != nil {
		opts = append(opts, process_windows.WithGuardPattern(*o.GuardPattern))
	}
	if o.Guard != 0 {
		opts = append(opts, process_windows.WithGuard(o.Guard))
	}
	return process_windows.NewFinder(), process_windows.Opener(opts...), nil
}

func save(pid process.ProcessID, dir string) error {
	return fmt.Errorf("saving a dump is only supported on linux: %w", process.InvalidArgument)
}

// the windows driver satisfies scanner
func scanLive(d process.Driver, aob process.AOB, parallelism uint) ([]process.Address, bool, error) {
	return nil, false, nil
}
