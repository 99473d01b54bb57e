//go:build linux

package process_linux

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"memlayout/process"
	"memlayout/process/memory_map"
)

// regions above this are vsyscall/vdso style mappings and never hold the guard
const scanUpperLimit = uint64(0x7d0000000000)

// Scan searches readable regions for aob and returns the sorted match addresses.
// maxdop bounds concurrency, 0 uses the driver default.
func (d *Driver) Scan(aob process.AOB, maxdop uint) ([]process.Address, error) {
	aob, err := aob.Normalize()
	if err != nil {
		return nil, err
	}

	memMap, err := d.MemoryMap()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory map: %w", err)
	}

	if maxdop == 0 {
		maxdop = d.maxdop
	}
	numCPU := uint(runtime.NumCPU())
	if maxdop == 0 || maxdop > numCPU {
		maxdop = numCPU
	}

	d.log.Infoln("Starting memory scan for pattern of length", len(aob.Pattern), "maxdop", maxdop)

	var readable []memory_map.MemoryMapItem
	for _, region := range memMap {
		if region.Address > scanUpperLimit || !region.IsReadable() {
			continue
		}
		readable = append(readable, region)
	}

	sem := make(chan struct{}, maxdop)
	var wg sync.WaitGroup
	var resultsMutex sync.Mutex
	var results []process.Address

	for _, region := range readable {
		wg.Add(1)
		sem <- struct{}{}

		go func(region memory_map.MemoryMapItem) {
			defer func() {
				<-sem
				wg.Done()
			}()

			data := make([]byte, region.Size)
			err := d.Read(process.Request{Target: process.Address(region.Address), Buffer: data})
			if err != nil {
				// guard pages and unreadable device mappings are expected here
				d.log.Debugln("Failed to read memory region at", fmt.Sprintf("%x", region.Address), err)
				return
			}

			matches := aob.Match(data)
			if len(matches) == 0 {
				return
			}

			resultsMutex.Lock()
			for _, offset := range matches {
				results = append(results, process.Address(region.Address+uint64(offset)))
			}
			resultsMutex.Unlock()
		}(region)
	}

	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })

	d.log.Infoln("Scan complete, found", len(results), "matches")
	return results, nil
}
