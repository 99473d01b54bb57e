//go:build linux

package process_linux

import (
	"fmt"
	"path/filepath"

	"memlayout/process"
	"memlayout/process_blob"
)

// SaveDump writes every readable region to dirname in the format process_blob.Dump loads
func (d *Driver) SaveDump(dirname string) error {
	mm, err := d.MemoryMap()
	if err != nil {
		return err
	}

	metadata := process_blob.Metadata{
		PID:  d.PID(),
		Name: filepath.Base(d.exe),
	}
	if base, err := d.ProcessBase(); err == nil {
		metadata.Base = base
	}
	if d.guard != nil {
		if guard, err := d.FindGuard(); err == nil {
			metadata.Guard = guard
		}
	}

	blobs := make(map[uint64][]byte)
	saved := 0
	for _, region := range mm {
		if !region.IsReadable() {
			continue
		}

		data := make([]byte, region.Size)
		if err := d.Read(process.Request{Target: process.Address(region.Address), Buffer: data}); err != nil {
			d.log.Debugln("Skipping region", fmt.Sprintf("%x", region.Address), err)
			continue
		}
		blobs[region.Address] = data
		saved++
	}

	if err := process_blob.Save(dirname, metadata, mm, blobs); err != nil {
		return err
	}

	d.log.Infoln("Saved", saved, "of", len(mm), "regions to", dirname)
	return nil
}
