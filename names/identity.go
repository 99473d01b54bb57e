package names

import (
	"fmt"

	"memlayout/memory"
	"memlayout/process"
)

// Default object layout offsets
const (
	DefaultClassOffset = 0x10
	DefaultNameOffset  = 0x18
	DefaultSuperOffset = 0x48

	maxClassDepth = 64
)

// ClassIdentity answers IsA by walking an object's class and its super
// classes, comparing each class name with the requested type hash.
type ClassIdentity struct {
	Pool *Pool

	ClassOffset uint64 // object -> class pointer
	NameOffset  uint64 // object or class -> FName
	SuperOffset uint64 // class -> super class pointer
}

var _ memory.Identity = (*ClassIdentity)(nil)

func NewClassIdentity(pool *Pool) *ClassIdentity {
	return &ClassIdentity{
		Pool:        pool,
		ClassOffset: DefaultClassOffset,
		NameOffset:  DefaultNameOffset,
		SuperOffset: DefaultSuperOffset,
	}
}

func (c *ClassIdentity) IsA(m *memory.Memory, object memory.Address, typeHash uint64) (bool, error) {
	class, err := memory.Read[memory.Address](m, object+memory.Address(c.ClassOffset))
	if err != nil {
		return false, fmt.Errorf("class of %s: %w", object, err)
	}

	for depth := 0; memory.IsValid(class); depth++ {
		if depth == maxClassDepth {
			return false, fmt.Errorf("class chain of %s deeper than %d: %w", object, maxClassDepth, process.BadData)
		}

		hash, err := c.nameHash(m, class)
		if err != nil {
			return false, err
		}
		if hash == typeHash {
			return true, nil
		}

		super, err := memory.Read[memory.Address](m, class+memory.Address(c.SuperOffset))
		if err != nil {
			return false, fmt.Errorf("super of %s: %w", class, err)
		}
		class = super
	}

	return false, nil
}

// Name returns the name of an object or class
func (c *ClassIdentity) Name(m *memory.Memory, object memory.Address) (string, error) {
	name, err := memory.Read[FName](m, object+memory.Address(c.NameOffset))
	if err != nil {
		return "", err
	}
	return c.Pool.Resolve(m, name)
}

// ClassName returns the name of the object's class
func (c *ClassIdentity) ClassName(m *memory.Memory, object memory.Address) (string, error) {
	class, err := memory.Read[memory.Address](m, object+memory.Address(c.ClassOffset))
	if err != nil {
		return "", err
	}
	if !memory.IsValid(class) {
		return "", fmt.Errorf("class of %s is %s: %w", object, class, process.BadData)
	}
	return c.Name(m, class)
}

func (c *ClassIdentity) nameHash(m *memory.Memory, class memory.Address) (uint64, error) {
	idx, err := memory.Read[int32](m, class+memory.Address(c.NameOffset))
	if err != nil {
		return 0, fmt.Errorf("name of class %s: %w", class, err)
	}
	return c.Pool.Hash(m, idx)
}
