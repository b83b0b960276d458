package domain

import (
	"fmt"
	"sync"
)

// Binding ties a domain definition to the provider that reaches its native
// store.
type Binding struct {
	Definition *Definition
	Provider   Provider
}

// Registry holds the closed set of domain bindings, dispatched by name.
// Registration happens once at startup; lookups may come from any goroutine.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	bindings map[string]Binding
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]Binding)}
}

// Register adds a binding. Registering the same domain name twice is a
// programming error and fails.
func (r *Registry) Register(b Binding) error {
	if b.Definition == nil || b.Definition.Name == "" {
		return fmt.Errorf("binding requires a named definition")
	}
	if b.Provider == nil {
		return fmt.Errorf("domain %q binding requires a provider", b.Definition.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[b.Definition.Name]; exists {
		return fmt.Errorf("domain %q already registered", b.Definition.Name)
	}
	r.bindings[b.Definition.Name] = b
	r.order = append(r.order, b.Definition.Name)
	return nil
}

// Get returns the binding for a domain name.
func (r *Registry) Get(name string) (Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[name]
	if !ok {
		return Binding{}, &UnknownDomainError{Name: name}
	}
	return b, nil
}

// Names returns the registered domain names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
