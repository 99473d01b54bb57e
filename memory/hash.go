package memory

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// TypeHash is the identity hash of a struct name: xxh3-64 of the name without
// its one letter prefix, so "AActor" hashes the same as the runtime class "Actor".
func TypeHash(name string) uint64 {
	if len(name) == 0 {
		return xxh3.HashString("")
	}
	return xxh3.HashString(name[1:])
}

// NameHash is xxh3-64 of the full name
func NameHash(name string) uint64 {
	return xxh3.HashString(name)
}

// Memo is an unbounded memoization cache. Entries are never evicted.
type Memo[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]V
}

func NewMemo[K comparable, V any]() *Memo[K, V] {
	return &Memo[K, V]{items: make(map[K]V)}
}

func (c *Memo[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *Memo[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[K]V)
	}
	c.items[key] = value
}

// Do returns the cached value for key or computes and caches it.
// Failed computations are not cached. fn runs without the lock held,
// so concurrent misses may compute the same key more than once.
func (c *Memo[K, V]) Do(key K, fn func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.Put(key, v)
	return v, nil
}

func (c *Memo[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Memo[K, V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}
