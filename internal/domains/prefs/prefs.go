// Package prefs manages arbitrary property list files. The entity is the
// file path and every option name is a colon-separated key path into it, so
// the vocabulary is open.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/plist"
)

// Name is the registry name for this domain.
const Name = "prefs"

// Definition returns the open-vocabulary domain definition. Options carry
// whatever scalar or list the declaration infers; there is no fixed list of
// names to validate against.
func Definition() *domain.Definition {
	return &domain.Definition{
		Name:        Name,
		Open:        true,
		EntityCheck: checkEntity,
	}
}

func checkEntity(entityID string) error {
	if entityID == "" {
		return fmt.Errorf("prefs entity must be a file path")
	}
	if !filepath.IsAbs(entityID) {
		return fmt.Errorf("prefs entity %q must be an absolute path", entityID)
	}
	return nil
}

// Provider reads and writes plist files on disk.
type Provider struct{}

// NewProvider returns a filesystem-backed Provider.
func NewProvider() *Provider { return &Provider{} }

func (p *Provider) ReadOption(ctx context.Context, entityID, option string) (plist.Node, error) {
	store, err := plist.LoadStore(entityID)
	if err != nil {
		return nil, err
	}
	node, err := plist.ReadKey(store.Root(), plist.SplitKeyPath(option))
	var notFound *plist.KeyNotFoundError
	if errors.As(err, &notFound) {
		return nil, &domain.NotFoundError{EntityID: entityID, Option: option}
	}
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Provider) WriteOption(ctx context.Context, entityID, option string, value plist.Node) error {
	store, err := plist.LoadStore(entityID)
	if err != nil {
		return err
	}
	if err := plist.WriteKey(store.Root(), plist.SplitKeyPath(option), value); err != nil {
		return err
	}
	return store.Save()
}

func (p *Provider) EntityExists(ctx context.Context, entityID string) (bool, error) {
	_, err := os.Stat(entityID)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) CreateEntity(ctx context.Context, entityID string, options []domain.InitialOption) error {
	exists, err := p.EntityExists(ctx, entityID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s already exists", entityID)
	}
	store, err := plist.LoadStore(entityID)
	if err != nil {
		return err
	}
	for _, opt := range options {
		if err := plist.WriteKey(store.Root(), plist.SplitKeyPath(opt.Name), opt.Value); err != nil {
			return err
		}
	}
	return store.Save()
}

func (p *Provider) RemoveEntity(ctx context.Context, entityID string) error {
	err := os.Remove(entityID)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s does not exist", entityID)
	}
	return err
}
