package process

// Finder locates processes by name
type Finder interface {
	// FindProcessByName finds processes by their name (exact match)
	FindProcessByName(name string) ([]ProcessInfo, error)
}

// FinderFunc adapts a function to the Finder interface
type FinderFunc func(name string) ([]ProcessInfo, error)

func (f FinderFunc) FindProcessByName(name string) ([]ProcessInfo, error) {
	return f(name)
}

// FindFirst returns the lowest PID matching name, or ErrProcessNotFound.
func FindFirst(f Finder, name string) (ProcessInfo, error) {
	list, err := f.FindProcessByName(name)
	if err != nil {
		return ProcessInfo{}, err
	}
	if len(list) == 0 {
		return ProcessInfo{}, ErrProcessNotFound
	}

	// pick the lowest PID for determinism
	best := list[0]
	for _, p := range list[1:] {
		if p.PID < best.PID {
			best = p
		}
	}
	return best, nil
}
