package memory

import (
	"fmt"

	"memlayout/process"
)

// Identity answers runtime "is this object an instance of type X" queries
type Identity interface {
	IsA(m *Memory, object Address, typeHash uint64) (bool, error)
}

// Rooted is implemented by generated pointer types that derive from the root object type
type Rooted interface {
	Addr() Address
	TypeHash() uint64
}

// Target constrains the destination of a cast to a rooted pointer type
type Target interface {
	~uint64
	TypeHash() uint64
}

// IsA reports whether the object at p is an instance of U or a subclass of it
func IsA[U Target](m *Memory, p Rooted) (bool, error) {
	if m.identity == nil {
		return false, fmt.Errorf("no identity resolver configured: %w", process.InvalidArgument)
	}
	var u U
	return m.identity.IsA(m, p.Addr(), u.TypeHash())
}

// TryCast returns p as a U when the object is an instance of U
func TryCast[U Target](m *Memory, p Rooted) (U, error) {
	ok, err := IsA[U](m, p)
	if err != nil {
		return 0, err
	}
	if !ok {
		var u U
		return 0, fmt.Errorf("%s is not a %T: %w", p.Addr(), u, process.BadData)
	}
	return U(p.Addr()), nil
}
