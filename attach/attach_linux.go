//go:build linux

package attach

import (
	"fmt"

	"memlayout/process"
	"memlayout/process_linux"
)

func live(o Options) (process.Finder, process.Opener, error) {
	var opts []process_linux.Option
	if o.Parallelism > 0 {
		opts = append(opts, process_linux.WithScanParallelism(o.Parallelism))
	}
	if o.GuardPattern != nil {
		opts = append(opts, process_linux.WithGuardPattern(*o.GuardPattern))
	}
	if o.Guard != 0 {
		opts = append(opts, process_linux.WithGuard(o.Guard))
	}
	return process_linux.NewFinder(), process_linux.Opener(opts...), nil
}

func save(pid process.ProcessID, dir string) error {
	d, err := process_linux.Attach(pid)
	if err != nil {
		return fmt.Errorf("attach %d: %w", pid, err)
	}
	defer d.Close()

	return d.SaveDump(dir)
}

func scanLive(d process.Driver, aob process.AOB, parallelism uint) ([]process.Address, bool, error) {
	ld, ok := d.(*process_linux.Driver)
	if !ok {
		return nil, false, nil
	}
	matches, err := ld.Scan(aob, parallelism)
	return matches, true, err
}
