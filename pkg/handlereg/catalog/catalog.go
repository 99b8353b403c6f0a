package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrEmptyName indicates Register was called with an empty table name.
	ErrEmptyName = errors.New("table name is required")

	// ErrNameTaken indicates a table with the same name is already registered.
	ErrNameTaken = errors.New("table name already registered")
)

// Catalog is a thread-safe collection of tables indexed by name.
// It uses sync.RWMutex for read-heavy workloads.
//
// The catalog guards only the name→table mapping. The tables it holds keep
// their own ownership rules.
type Catalog[T any] struct {
	mu     sync.RWMutex
	tables map[string]T
}

// New creates a new empty catalog.
func New[T any]() *Catalog[T] {
	return &Catalog[T]{
		tables: make(map[string]T),
	}
}

// Register adds a table under name. It fails if name is empty or taken.
func (c *Catalog[T]) Register(name string, table T) error {
	if name == "" {
		return ErrEmptyName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tables[name]; exists {
		return fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	c.tables[name] = table
	return nil
}

// Get returns the table registered under name and whether it exists.
func (c *Catalog[T]) Get(name string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	return t, ok
}

// Has returns true if a table is registered under name.
func (c *Catalog[T]) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tables[name]
	return ok
}

// Delete removes the table registered under name and reports whether it existed.
func (c *Catalog[T]) Delete(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tables[name]
	delete(c.tables, name)
	return ok
}

// Names returns all registered names in sorted order.
func (c *Catalog[T]) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	c.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Len returns the number of registered tables.
func (c *Catalog[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// Range calls fn for each table in name order. If fn returns false,
// iteration stops.
//
// Range iterates over a snapshot, so fn may Register or Delete tables
// without affecting the current iteration.
func (c *Catalog[T]) Range(fn func(name string, table T) bool) {
	c.mu.RLock()
	snapshot := make(map[string]T, len(c.tables))
	for k, v := range c.tables {
		snapshot[k] = v
	}
	c.mu.RUnlock()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if !fn(name, snapshot[name]) {
			return
		}
	}
}

// GetOrCreate returns the table registered under name, creating it with
// factory if it doesn't exist. The factory is called at most once per name,
// even under concurrent access.
func (c *Catalog[T]) GetOrCreate(name string, factory func() T) T {
	c.mu.RLock()
	t, ok := c.tables[name]
	c.mu.RUnlock()
	if ok {
		return t
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[name]; ok {
		return t
	}

	t = factory()
	c.tables[name] = t
	return t
}
