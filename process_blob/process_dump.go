package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"memlayout/process"
	"memlayout/process/memory_map"
)

const (
	metadataFile  = "metadata.json"
	memoryMapFile = "process_memory_map.json"
)

// Metadata is the dump header written next to the region blobs
type Metadata struct {
	PID   process.ProcessID `json:"pid"`
	Name  string            `json:"name"`
	Base  process.Address   `json:"base,omitempty"`
	Guard process.Address   `json:"guard,omitempty"`
}

// Dump implements process.Driver over captured memory regions.
// It backs offline runs from a saved dump and doubles as the mock driver in tests.
type Dump struct {
	Metadata

	mu      sync.Mutex
	regions []*Region // sorted by address
	reads   int
	writes  int
}

var (
	_ process.Driver = (*Dump)(nil)
	_ process.Mapper = (*Dump)(nil)
	_ process.Finder = (*Dump)(nil)
)

// NewDump creates an empty dump
func NewDump() *Dump {
	return &Dump{}
}

// NewBlob creates a dump with a single region at baseAddress
func NewBlob(baseAddress process.Address, data []byte) *Dump {
	d := NewDump()
	d.AddRegion(baseAddress, data)
	return d
}

// AddRegion maps a copy of data at baseAddress
func (p *Dump) AddRegion(baseAddress process.Address, data []byte) *Region {
	r := NewRegion(baseAddress, data)

	p.mu.Lock()
	defer p.mu.Unlock()

	i := 0
	for i < len(p.regions) && p.regions[i].Address < r.Address {
		i++
	}
	p.regions = append(p.regions, nil)
	copy(p.regions[i+1:], p.regions[i:])
	p.regions[i] = r
	return r
}

// MemoryMap returns a copy of the region list
func (p *Dump) MemoryMap() ([]memory_map.MemoryMapItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]memory_map.MemoryMapItem, len(p.regions))
	for i, r := range p.regions {
		result[i] = r.MemoryMapItem
	}
	return result, nil
}

// Stats reports how many read and write requests reached the dump
func (p *Dump) Stats() (reads, writes int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads, p.writes
}

func (p *Dump) find(addr process.Address) *Region {
	for _, r := range p.regions {
		if uint64(addr) >= r.Address && uint64(addr) < r.End() {
			return r
		}
	}
	return nil
}

func (p *Dump) ProcessBase() (process.Address, error) {
	if p.Base == 0 {
		return 0, fmt.Errorf("dump has no process base: %w", process.BadProcessBase)
	}
	return p.Base, nil
}

func (p *Dump) FindGuard() (process.Address, error) {
	if p.Guard == 0 {
		return 0, fmt.Errorf("dump has no guard: %w", process.BadGuard)
	}
	return p.Guard, nil
}

func (p *Dump) Read(req process.Request) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reads++
	region := p.find(req.Target)
	if region == nil {
		return fmt.Errorf("read at %s: address not mapped: %w", req.Target, process.BadRead)
	}
	return region.ReadInto(req.Target, req.Buffer)
}

func (p *Dump) Write(req process.Request) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writes++
	region := p.find(req.Target)
	if region == nil {
		return fmt.Errorf("write at %s: address not mapped: %w", req.Target, process.BadRead)
	}
	return region.WriteFrom(req.Target, req.Buffer)
}

func (p *Dump) Close() error {
	return nil
}

// Scan returns the sorted addresses where aob matches inside a region.
// Matches never span two regions.
func (p *Dump) Scan(aob process.AOB) ([]process.Address, error) {
	aob, err := aob.Normalize()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var results []process.Address
	for _, r := range p.regions {
		for _, offset := range aob.Match(r.data) {
			results = append(results, process.Address(r.Address+uint64(offset)))
		}
	}
	return results, nil
}

// FindProcessByName matches the dump's recorded process name
func (p *Dump) FindProcessByName(name string) ([]process.ProcessInfo, error) {
	if p.Name != name {
		return nil, nil
	}
	return []process.ProcessInfo{{PID: p.PID, Name: p.Name}}, nil
}

// Opener attaches to the dump regardless of the requested pid
func (p *Dump) Opener() process.Opener {
	return func(pid process.ProcessID) (process.Driver, error) {
		return p, nil
	}
}

func blobName(region memory_map.MemoryMapItem) string {
	return fmt.Sprintf("blob_0x%x_%d.bin", region.Address, region.Size)
}

// Load reads a dump written by Save
func (p *Dump) Load(dirname string) error {
	metadataBytes, err := os.ReadFile(filepath.Join(dirname, metadataFile))
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, memoryMapFile))
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	var mm []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &mm); err != nil {
		return fmt.Errorf("failed to unmarshal memory map: %w", err)
	}
	memory_map.Sort(mm)

	p.mu.Lock()
	p.Metadata = metadata
	p.regions = nil
	p.mu.Unlock()

	for _, item := range mm {
		filename := filepath.Join(dirname, blobName(item))
		data, err := os.ReadFile(filename)
		if os.IsNotExist(err) {
			continue // region was skipped when saving
		}
		if err != nil {
			return fmt.Errorf("failed to read blob %s: %w", filename, err)
		}

		r := p.AddRegion(process.Address(item.Address), data)
		r.Perms = item.Perms
		r.Path = item.Path
	}

	return nil
}

// Save writes the dump in the directory format Load understands
func (p *Dump) Save(dirname string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	regions := make([]memory_map.MemoryMapItem, len(p.regions))
	blobs := make(map[uint64][]byte, len(p.regions))
	for i, r := range p.regions {
		regions[i] = r.MemoryMapItem
		blobs[r.Address] = r.data
	}

	return Save(dirname, p.Metadata, regions, blobs)
}

// Save writes metadata, the memory map and one file per captured region
func Save(dirname string, metadata Metadata, regions []memory_map.MemoryMapItem, blobs map[uint64][]byte) error {
	if err := os.MkdirAll(dirname, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, metadataFile), metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	memoryMapJSON, err := json.MarshalIndent(regions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, memoryMapFile), memoryMapJSON, 0644); err != nil {
		return fmt.Errorf("failed to write memory map file: %w", err)
	}

	for _, region := range regions {
		data, ok := blobs[region.Address]
		if !ok {
			continue
		}
		if err := os.WriteFile(filepath.Join(dirname, blobName(region)), data, 0644); err != nil {
			return fmt.Errorf("failed to write memory file for region at %x: %w", region.Address, err)
		}
	}

	return nil
}
