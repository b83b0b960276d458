// Package domain defines the capability surface shared by every managed
// settings domain: the provider contract that reads and writes native state,
// the option vocabulary with its per-option codec, and the registry used for
// dispatch.
package domain

import (
	"context"

	"github.com/mosen/salt-osx/internal/plist"
)

// InitialOption is one already-encoded option handed to CreateEntity when a
// new entity is brought into existence.
type InitialOption struct {
	Name  string
	Value plist.Node
}

// Provider reads current native state for a domain and applies single-field
// mutations. Implementations wrap platform APIs or command line tools; they
// contain no reconciliation logic. Calls are synchronous and blocking, and a
// provider is never invoked concurrently for the same entity.
type Provider interface {
	// ReadOption returns the native value for one option. An option with
	// no native value fails with NotFoundError.
	ReadOption(ctx context.Context, entityID, option string) (plist.Node, error)

	// WriteOption applies one native mutation.
	WriteOption(ctx context.Context, entityID, option string, value plist.Node) error

	// EntityExists reports whether the entity is present at all.
	EntityExists(ctx context.Context, entityID string) (bool, error)

	// CreateEntity brings the entity into existence with the given
	// initial options.
	CreateEntity(ctx context.Context, entityID string, initial []InitialOption) error

	// RemoveEntity removes the whole entity.
	RemoveEntity(ctx context.Context, entityID string) error
}
