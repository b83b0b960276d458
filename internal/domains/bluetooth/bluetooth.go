// Package bluetooth manages the Bluetooth controller's power and
// discoverability state through its preference file. The firmware reads
// these keys as integers, so the provider translates to and from booleans.
package bluetooth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/model"
	"github.com/mosen/salt-osx/internal/plist"
)

// Name is the registry name for this domain.
const Name = "bluetooth"

// DefaultPreferencesPath is where macOS keeps the controller state.
const DefaultPreferencesPath = "/Library/Preferences/com.apple.Bluetooth.plist"

// EntityID is the only entity this domain recognizes.
const EntityID = "system"

var optionKeys = map[string]string{
	"enabled":      "ControllerPowerState",
	"discoverable": "DiscoverableState",
}

// Definition returns the bluetooth vocabulary.
func Definition() *domain.Definition {
	return &domain.Definition{
		Name: Name,
		Options: []domain.OptionSpec{
			domain.Scalar("enabled", model.TagBool),
			domain.Scalar("discoverable", model.TagBool),
		},
		EntityCheck: checkEntity,
	}
}

func checkEntity(entityID string) error {
	if entityID != EntityID {
		return fmt.Errorf("bluetooth has a single entity %q, got %q", EntityID, entityID)
	}
	return nil
}

// Provider reads and writes the controller preference file.
type Provider struct {
	prefsPath string
}

// NewProvider builds a Provider over the given preference file.
func NewProvider(prefsPath string) *Provider {
	return &Provider{prefsPath: prefsPath}
}

func (p *Provider) ReadOption(ctx context.Context, entityID, option string) (plist.Node, error) {
	if err := checkEntity(entityID); err != nil {
		return nil, err
	}
	key, ok := optionKeys[option]
	if !ok {
		return nil, &domain.UnknownOptionError{Domain: Name, Option: option}
	}
	store, err := plist.LoadStore(p.prefsPath)
	if err != nil {
		return nil, err
	}
	node, err := plist.ReadKey(store.Root(), []string{key})
	var notFound *plist.KeyNotFoundError
	if errors.As(err, &notFound) {
		return nil, &domain.NotFoundError{EntityID: entityID, Option: option}
	}
	if err != nil {
		return nil, err
	}
	n, ok := node.(plist.Integer)
	if !ok {
		return nil, &plist.TypeMismatchError{
			Message: fmt.Sprintf("key %s holds %T, expected an integer", key, node),
		}
	}
	return plist.Bool(n != 0), nil
}

func (p *Provider) WriteOption(ctx context.Context, entityID, option string, value plist.Node) error {
	if err := checkEntity(entityID); err != nil {
		return err
	}
	key, ok := optionKeys[option]
	if !ok {
		return &domain.UnknownOptionError{Domain: Name, Option: option}
	}
	b, ok := value.(plist.Bool)
	if !ok {
		return &plist.TypeMismatchError{
			Message: fmt.Sprintf("%s takes a boolean, got %T", option, value),
		}
	}
	var n plist.Integer
	if bool(b) {
		n = 1
	}
	store, err := plist.LoadStore(p.prefsPath)
	if err != nil {
		return err
	}
	if err := plist.WriteKey(store.Root(), []string{key}, n); err != nil {
		return err
	}
	return store.Save()
}

// EntityExists always reports true: the controller is part of the machine.
func (p *Provider) EntityExists(ctx context.Context, entityID string) (bool, error) {
	if err := checkEntity(entityID); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) CreateEntity(ctx context.Context, entityID string, options []domain.InitialOption) error {
	return fmt.Errorf("the bluetooth controller cannot be created; declare it managed")
}

func (p *Provider) RemoveEntity(ctx context.Context, entityID string) error {
	return fmt.Errorf("the bluetooth controller cannot be removed; set enabled: false instead")
}
