package bluetooth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/plist"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	return NewProvider(filepath.Join(t.TempDir(), "com.apple.Bluetooth.plist"))
}

func TestReadUnsetOption(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	_, err := p.ReadOption(context.Background(), EntityID, "enabled")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestBooleanIntegerTranslation(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.WriteOption(ctx, EntityID, "enabled", plist.Bool(true)))
	require.NoError(t, p.WriteOption(ctx, EntityID, "discoverable", plist.Bool(false)))

	// The file carries integers, reads come back as booleans.
	store, err := plist.LoadStore(p.prefsPath)
	require.NoError(t, err)
	node, err := plist.ReadKey(store.Root(), []string{"ControllerPowerState"})
	require.NoError(t, err)
	assert.Equal(t, plist.Integer(1), node)

	node, err = p.ReadOption(ctx, EntityID, "enabled")
	require.NoError(t, err)
	assert.Equal(t, plist.Bool(true), node)

	node, err = p.ReadOption(ctx, EntityID, "discoverable")
	require.NoError(t, err)
	assert.Equal(t, plist.Bool(false), node)
}

func TestRejectsOtherEntities(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	_, err := p.ReadOption(context.Background(), "dongle", "enabled")
	require.Error(t, err)

	def := Definition()
	assert.Error(t, def.ValidateEntity("dongle"))
	assert.NoError(t, def.ValidateEntity(EntityID))
}

func TestLifecycleIsFixed(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	ctx := context.Background()

	exists, err := p.EntityExists(ctx, EntityID)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Error(t, p.CreateEntity(ctx, EntityID, nil))
	assert.Error(t, p.RemoveEntity(ctx, EntityID))
}
