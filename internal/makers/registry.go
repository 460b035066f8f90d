package makers

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Maker interviews the operator and plans the files for one artifact kind.
type Maker interface {
	// Name returns the maker name used on the command line
	Name() string
	// Description returns a brief description of what the maker generates
	Description() string
	// Plan asks its questions through the session's prompter and returns
	// the scaffold requests. Nothing is written.
	Plan(ctx context.Context, s *Session) (*Plan, error)
}

// Registry manages registered makers
type Registry struct {
	mu     sync.RWMutex
	makers map[string]Maker
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{makers: make(map[string]Maker)}
}

// Default returns a registry holding every built-in maker.
func Default() *Registry {
	r := NewRegistry()
	for _, m := range []Maker{
		&EntityMaker{},
		&EventSubscriberMaker{},
		&ScheduledTaskMaker{},
		&StorefrontControllerMaker{},
		&StoreAPIRouteMaker{},
		&AdminModuleMaker{},
		&AdminComponentMaker{},
		&JSPluginMaker{},
	} {
		if err := r.Register(m); err != nil {
			panic(err) // built-in names are unique
		}
	}
	return r
}

// Register adds a maker to the registry
func (r *Registry) Register(m Maker) error {
	if m == nil {
		return fmt.Errorf("cannot register nil maker")
	}

	name := m.Name()
	if name == "" {
		return fmt.Errorf("cannot register maker with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.makers[name]; exists {
		return fmt.Errorf("maker '%s' is already registered", name)
	}

	r.makers[name] = m
	return nil
}

// Get retrieves a maker by name
func (r *Registry) Get(name string) (Maker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.makers[name]
	return m, ok
}

// List returns all registered maker names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.makers))
	for name := range r.makers {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// ListWithDescriptions returns all registered makers with their descriptions
func (r *Registry) ListWithDescriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.makers))
	for name, m := range r.makers {
		result[name] = m.Description()
	}
	return result
}

// Plan runs the interview of the named maker
func (r *Registry) Plan(ctx context.Context, name string, s *Session) (*Plan, error) {
	m, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("maker '%s' not found, available: %v", name, r.List())
	}
	return m.Plan(ctx, s)
}
