package process

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// AOB (Array of Bytes) represents a pattern to search for in memory
type AOB struct {
	Pattern []byte // The byte pattern to search for
	Mask    []byte // Optional mask where 0xFF means exact match and 0x00 means wildcard
}

// IsValid checks if the AOB pattern is valid
func (aob AOB) IsValid() bool {
	return len(aob.Pattern) > 0 && len(aob.Pattern) == len(aob.Mask)
}

func NewAOB(pattern, mask []byte) (AOB, error) {
	if len(pattern) != len(mask) {
		return AOB{}, fmt.Errorf("pattern and mask must be of the same length")
	}
	return AOB{Pattern: pattern, Mask: mask}, nil
}

// ParseAOB reads a pattern such as "48 8b ?? 05" or "48,8b,??,05".
// "?" and "??" are wildcards, every other part is one hex byte.
func ParseAOB(text string) (AOB, error) {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(parts) == 0 {
		return AOB{}, fmt.Errorf("empty pattern: %w", InvalidArgument)
	}

	aob := AOB{Pattern: make([]byte, len(parts)), Mask: make([]byte, len(parts))}
	for i, part := range parts {
		if part == "??" || part == "?" {
			continue
		}
		val, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return AOB{}, fmt.Errorf("invalid hex byte %q: %w", part, InvalidArgument)
		}
		aob.Pattern[i] = byte(val)
		aob.Mask[i] = 0xFF
	}
	return aob, nil
}

// String renders the pattern in the form ParseAOB reads
func (aob AOB) String() string {
	parts := make([]string, len(aob.Pattern))
	for i, b := range aob.Pattern {
		if i < len(aob.Mask) && aob.Mask[i] == 0 {
			parts[i] = "??"
			continue
		}
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, " ")
}

// Normalize fills in an exact-match mask when none was given
func (aob AOB) Normalize() (AOB, error) {
	if len(aob.Pattern) == 0 {
		return aob, fmt.Errorf("empty pattern")
	}
	if len(aob.Mask) == 0 {
		aob.Mask = bytes.Repeat([]byte{0xFF}, len(aob.Pattern))
	} else if len(aob.Mask) != len(aob.Pattern) {
		return aob, fmt.Errorf("mask length (%d) doesn't match pattern length (%d)",
			len(aob.Mask), len(aob.Pattern))
	}
	return aob, nil
}

// Match finds all occurrences of the pattern in data and returns their offsets
func (aob AOB) Match(data []byte) []uint {
	if len(data) < len(aob.Pattern) {
		return nil
	}

	var matches []uint
	for i := 0; i <= len(data)-len(aob.Pattern); i++ {
		matched := true
		for j := 0; j < len(aob.Pattern); j++ {
			// wildcard
			if aob.Mask[j] == 0 {
				continue
			}
			if data[i+j]&aob.Mask[j] != aob.Pattern[j]&aob.Mask[j] {
				matched = false
				break
			}
		}
		if matched {
			matches = append(matches, uint(i))
		}
	}
	return matches
}
