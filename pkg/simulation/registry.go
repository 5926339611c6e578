package simulation

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrNotFound          = errors.New("simulation not found")
	ErrAlreadyRegistered = errors.New("simulation already registered")
)

// Registry maps simulation names to factories.
type Registry struct {
	mu          sync.RWMutex
	simulations map[string]func() Simulation
}

func NewRegistry() *Registry {
	return &Registry{
		simulations: make(map[string]func() Simulation),
	}
}

// Register adds a simulation factory under name.
func (r *Registry) Register(name string, factory func() Simulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.simulations[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.simulations[name] = factory
	return nil
}

// Get returns a fresh instance of the named simulation.
func (r *Registry) Get(name string) (Simulation, error) {
	r.mu.RLock()
	factory, exists := r.simulations[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return factory(), nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.simulations))
	for name := range r.simulations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry is where simulation packages register themselves from
// init.
var DefaultRegistry = NewRegistry()
