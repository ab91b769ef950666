package upgrade

import (
	"fmt"

	"github.com/conn-castle/ladder/internal/messages"
)

// Registry maps driver names to drivers. It belongs to a single engine.
type Registry struct {
	order   []string
	drivers map[string]Driver
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register adds d. A later registration under the same name replaces the
// earlier one and keeps its position.
func (r *Registry) Register(d Driver) {
	name := d.Name()
	if _, ok := r.drivers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.drivers[name] = d
}

// Get returns the driver registered under name.
func (r *Registry) Get(name string) (Driver, bool) {
	d, ok := r.drivers[name]
	return d, ok
}

// Lookup returns the driver registered under name or ErrUnknownDriver.
func (r *Registry) Lookup(name string) (Driver, error) {
	d, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: "+messages.UpgradeUnknownDriverFmt, ErrUnknownDriver, name)
	}
	return d, nil
}

// All returns the drivers in registration order.
func (r *Registry) All() []Driver {
	out := make([]Driver, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.drivers[name])
	}
	return out
}

// Len returns the number of registered drivers.
func (r *Registry) Len() int {
	return len(r.order)
}
