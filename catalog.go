package pgenum

import (
	"fmt"
	"sync"
)

// A Catalog collects the enum types an application maps,
// so that they can be created, registered on connections and checked as a group.
//
// A Catalog is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	defs  []Definition
	names map[string]int
}

// NewCatalog constructs a *Catalog holding defs, in order.
// NewCatalog returns ErrExists if two share a name.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{names: make(map[string]int)}
	for _, d := range defs {
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Register adds def to the Catalog.
func (c *Catalog) Register(def Definition) error {
	if def == nil {
		return fmt.Errorf("%w: nil definition", ErrMissingData)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.names[def.Name()]; ok {
		return fmt.Errorf("%w: enum type %s already registered", ErrExists, def.Name())
	}

	c.names[def.Name()] = len(c.defs)
	c.defs = append(c.defs, def)

	return nil
}

// Lookup retrieves the Definition registered under name.
func (c *Catalog) Lookup(name string) (Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: enum type %s", ErrNotExist, name)
	}

	return c.defs[i], nil
}

// All returns every Definition in registration order.
func (c *Catalog) All() []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Definition, len(c.defs))
	copy(out, c.defs)

	return out
}

// Names returns the name of every Definition in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.Name()
	}

	return out
}
