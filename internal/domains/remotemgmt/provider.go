package remotemgmt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/plist"
)

// Default locations for the ARD preference file and the legacy VNC password.
const (
	DefaultPreferencesPath = "/Library/Preferences/com.apple.RemoteManagement.plist"
	DefaultVNCPasswordPath = "/Library/Preferences/com.apple.VNCSettings.txt"
)

// EntityID is the only entity this domain recognizes. Remote Management is a
// machine-wide service, not a collection of instances.
const EntityID = "system"

// optionKeys maps vocabulary names to the keys ARD reads from its
// preference file.
var optionKeys = map[string]string{
	"allow_all_users":     "ARD_AllLocalUsers",
	"all_users_privs":     "ARD_AllLocalUsersPrivs",
	"enable_menu_extra":   "LoadRemoteManagementMenuExtra",
	"enable_dir_logins":   "DirectoryGroupLoginsEnabled",
	"directory_groups":    "DirectoryGroupList",
	"enable_legacy_vnc":   "VNCLegacyConnectionsEnabled",
	"allow_vnc_requests":  "ScreenSharingReqPermEnabled",
	"allow_wbem_requests": "WBEMIncomingAccessEnabled",
}

// Service starts and stops the Remote Management agent.
type Service interface {
	Active(ctx context.Context) (bool, error)
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context) error
}

// Provider reads and writes ARD state: service activation through a Service,
// connection policy through the preference file, and the VNC password
// through its own ciphered file.
type Provider struct {
	prefsPath string
	vncPath   string
	service   Service
}

// NewProvider builds a Provider over the given paths and service control.
func NewProvider(prefsPath, vncPath string, service Service) *Provider {
	return &Provider{prefsPath: prefsPath, vncPath: vncPath, service: service}
}

func (p *Provider) checkEntity(entityID string) error {
	if entityID != EntityID {
		return fmt.Errorf("remote management has a single entity %q, got %q", EntityID, entityID)
	}
	return nil
}

func (p *Provider) ReadOption(ctx context.Context, entityID, option string) (plist.Node, error) {
	if err := p.checkEntity(entityID); err != nil {
		return nil, err
	}

	switch option {
	case "enabled":
		active, err := p.service.Active(ctx)
		if err != nil {
			return nil, err
		}
		return plist.Bool(active), nil

	case "vnc_password":
		data, err := os.ReadFile(p.vncPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{EntityID: entityID, Option: option}
		}
		if err != nil {
			return nil, err
		}
		return plist.String(strings.TrimSpace(string(data))), nil
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
	return node, nil
}

func (p *Provider) WriteOption(ctx context.Context, entityID, option string, value plist.Node) error {
	if err := p.checkEntity(entityID); err != nil {
		return err
	}

	switch option {
	case "enabled":
		enable, ok := value.(plist.Bool)
		if !ok {
			return &plist.TypeMismatchError{Message: "enabled takes a boolean"}
		}
		if bool(enable) {
			return p.service.Activate(ctx)
		}
		return p.service.Deactivate(ctx)

	case "vnc_password":
		hexed, ok := value.(plist.String)
		if !ok {
			return &plist.TypeMismatchError{Message: "vnc_password takes a string"}
		}
		return os.WriteFile(p.vncPath, []byte(hexed), 0o600)
	}

	key, ok := optionKeys[option]
	if !ok {
		return &domain.UnknownOptionError{Domain: Name, Option: option}
	}
	store, err := plist.LoadStore(p.prefsPath)
	if err != nil {
		return err
	}
	if err := plist.WriteKey(store.Root(), []string{key}, value); err != nil {
		return err
	}
	return store.Save()
}

// EntityExists always reports true: the service entity is part of the
// machine and cannot be created or removed.
func (p *Provider) EntityExists(ctx context.Context, entityID string) (bool, error) {
	if err := p.checkEntity(entityID); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) CreateEntity(ctx context.Context, entityID string, options []domain.InitialOption) error {
	return fmt.Errorf("remote management cannot be created; declare it managed")
}

func (p *Provider) RemoveEntity(ctx context.Context, entityID string) error {
	return fmt.Errorf("remote management cannot be removed; set enabled: false instead")
}
