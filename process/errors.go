package process

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the memory layer and its drivers report.
// Kinds are comparable values, so errors.Is(err, process.BadRead) works through
// any amount of %w wrapping.
type ErrorKind uint8

const (
	// InvalidArgument is bad caller input, e.g. an out-of-range index
	InvalidArgument ErrorKind = iota + 1

	// InvalidAddress is an address that failed validation before any remote call
	InvalidAddress

	// BadRead is a driver level read or write failure
	BadRead

	// BadData is a value that was read but failed a semantic check
	BadData

	// BadGuard is a failure to discover the guard value
	BadGuard

	// BadProcessBase is a failure to discover the process base address
	BadProcessBase
)

var kindNames = map[ErrorKind]string{
	InvalidArgument: "invalid argument",
	InvalidAddress:  "invalid address",
	BadRead:         "bad read",
	BadData:         "bad data",
	BadGuard:        "bad guard",
	BadProcessBase:  "bad process base",
}

func (k ErrorKind) Error() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown error kind"
}

// KindOf returns the ErrorKind carried by err, or 0 when err carries none.
func KindOf(err error) ErrorKind {
	var kind ErrorKind
	if errors.As(err, &kind) {
		return kind
	}
	return 0
}

var (
	// ErrProcessNotOpen is returned when a driver is used before Attach or after Close.
	ErrProcessNotOpen = fmt.Errorf("process not open: %w", BadRead)

	// ErrProcessNotFound is returned by finders when no process matches.
	ErrProcessNotFound = errors.New("process not found")
)
