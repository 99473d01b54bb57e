package memory

import (
	"fmt"

	"memlayout/process"
)

// Address is an address inside the target process
type Address = process.Address

const (
	// decoyAddress is the fill pattern of uninitialized pointers in the target
	decoyAddress Address = 0xCCCCCCCCCCCCCCCC
	minAddress   Address = 0x10000
	maxAddress   Address = 0xFFFFFFFFFF000000

	guardedMask   = 0xFFFFFFF000000000
	guardedLow    = 0x8000000000
	guardedHigh   = 0x10000000000
	guardedOffset = 0xFFFFFF
)

// IsValid reports whether addr may be dereferenced at all.
// It is a coarse range check, not a guarantee the address is mapped.
func IsValid(addr Address) bool {
	return addr != decoyAddress && addr > minAddress && addr <= maxAddress
}

// IsGuarded reports whether addr points into the guarded window
func IsGuarded(addr Address) bool {
	high := uint64(addr) & guardedMask
	return high == guardedLow || high == guardedHigh
}

type Option func(m *Memory)

// WithIdentity installs the resolver used by IsA and TryCast
func WithIdentity(id Identity) Option {
	return func(m *Memory) {
		m.identity = id
	}
}

// Memory is the context every typed read and write goes through.
// It is immutable after New and safe for concurrent use if the driver is.
type Memory struct {
	driver   process.Driver
	guard    Address
	base     Address
	identity Identity
}

func New(d process.Driver, guard, base Address, opts ...Option) *Memory {
	m := &Memory{
		driver: d,
		guard:  guard,
		base:   base,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Driver() process.Driver {
	return m.driver
}

func (m *Memory) Guard() Address {
	return m.guard
}

// Base is the process base address discovered at init
func (m *Memory) Base() Address {
	return m.base
}

// Identity returns the installed identity resolver, or nil
func (m *Memory) Identity() Identity {
	return m.identity
}

// Unguard remaps an address in the guarded window onto the guard region
func (m *Memory) Unguard(addr Address) Address {
	if IsGuarded(addr) {
		return m.guard + Address(uint64(addr)&guardedOffset)
	}
	return addr
}

// ReadBytes fills buf from addr after validation and unguarding
func (m *Memory) ReadBytes(addr Address, buf []byte) error {
	if !IsValid(addr) {
		return fmt.Errorf("read at %s: %w", addr, process.InvalidAddress)
	}
	if len(buf) == 0 {
		return nil
	}
	return m.driver.Read(process.Request{Target: m.Unguard(addr), Buffer: buf})
}

// WriteBytes copies buf to addr after validation and unguarding
func (m *Memory) WriteBytes(addr Address, buf []byte) error {
	if !IsValid(addr) {
		return fmt.Errorf("write at %s: %w", addr, process.InvalidAddress)
	}
	if len(buf) == 0 {
		return nil
	}
	return m.driver.Write(process.Request{Target: m.Unguard(addr), Buffer: buf})
}
