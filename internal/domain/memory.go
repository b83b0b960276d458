package domain

import (
	"context"
	"fmt"
	"sync"

	"github.com/mosen/salt-osx/internal/plist"
)

// MemoryProvider is an in-memory Provider. It backs domains whose native
// store has no file or command line surface in this process, and every
// engine and domain test.
type MemoryProvider struct {
	mu       sync.Mutex
	entities map[string]map[string]plist.Node
}

var _ Provider = (*MemoryProvider)(nil)

// NewMemoryProvider returns an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{entities: make(map[string]map[string]plist.Node)}
}

// Seed creates or replaces an entity with the given options, bypassing the
// Provider contract. Intended for test setup and capturing initial state.
func (p *MemoryProvider) Seed(entityID string, options map[string]plist.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entity := make(map[string]plist.Node, len(options))
	for name, node := range options {
		entity[name] = node
	}
	p.entities[entityID] = entity
}

// ReadOption implements Provider.
func (p *MemoryProvider) ReadOption(ctx context.Context, entityID, option string) (plist.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entity, ok := p.entities[entityID]
	if !ok {
		return nil, &NotFoundError{EntityID: entityID, Option: option}
	}
	node, ok := entity[option]
	if !ok {
		return nil, &NotFoundError{EntityID: entityID, Option: option}
	}
	return node, nil
}

// WriteOption implements Provider. Writing to an unknown entity creates it,
// matching stores where setting a key materializes the backing file.
func (p *MemoryProvider) WriteOption(ctx context.Context, entityID, option string, value plist.Node) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entity, ok := p.entities[entityID]
	if !ok {
		entity = make(map[string]plist.Node)
		p.entities[entityID] = entity
	}
	entity[option] = value
	return nil
}

// EntityExists implements Provider.
func (p *MemoryProvider) EntityExists(ctx context.Context, entityID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.entities[entityID]
	return ok, nil
}

// CreateEntity implements Provider.
func (p *MemoryProvider) CreateEntity(ctx context.Context, entityID string, initial []InitialOption) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.entities[entityID]; exists {
		return fmt.Errorf("entity %q already exists", entityID)
	}
	entity := make(map[string]plist.Node, len(initial))
	for _, opt := range initial {
		entity[opt.Name] = opt.Value
	}
	p.entities[entityID] = entity
	return nil
}

// RemoveEntity implements Provider.
func (p *MemoryProvider) RemoveEntity(ctx context.Context, entityID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.entities[entityID]; !exists {
		return fmt.Errorf("entity %q does not exist", entityID)
	}
	delete(p.entities, entityID)
	return nil
}
