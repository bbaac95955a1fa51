package config

import (
	"sort"
	"sync"

	"github.com/agilira/go-errors"
)

// ModuleFactory manufactures module instances by configured name. It is the
// port the clone service and the checkers use to instantiate checks; the
// Registry below is its in-process implementation.
type ModuleFactory interface {
	CreateModule(name string) (any, error)
}

// Registry maps module names to constructor functions. Registration
// normally happens during program start-up; lookups are safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]func() any
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]func() any)}
}

// Register binds a module name to its constructor. A later registration
// under the same name replaces the earlier one.
func (r *Registry) Register(name string, ctor func() any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// CreateModule instantiates the module registered under name.
func (r *Registry) CreateModule(name string) (any, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(ErrCodeModuleNotFound,
			"unable to instantiate module "+name).
			WithContext("module", name)
	}
	return ctor(), nil
}

// Names returns the registered module names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
