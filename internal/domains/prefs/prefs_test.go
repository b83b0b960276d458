package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/plist"
)

func TestDefinitionIsOpen(t *testing.T) {
	t.Parallel()

	def := Definition()
	assert.True(t, def.Open)

	_, err := def.Resolve("AnyKey:AtAll")
	require.NoError(t, err)
}

func TestEntityCheckRequiresAbsolutePath(t *testing.T) {
	t.Parallel()

	def := Definition()
	assert.Error(t, def.ValidateEntity(""))
	assert.Error(t, def.ValidateEntity("relative/file.plist"))
	assert.NoError(t, def.ValidateEntity("/Library/Preferences/com.example.app.plist"))
}

func TestProviderReadWriteKeyPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "com.example.app.plist")
	p := NewProvider()
	ctx := context.Background()

	_, err := p.ReadOption(ctx, path, "Window:Width")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	require.NoError(t, p.WriteOption(ctx, path, "Window:Width", plist.Integer(1024)))
	require.NoError(t, p.WriteOption(ctx, path, "Window:Title", plist.String("untitled")))

	node, err := p.ReadOption(ctx, path, "Window:Width")
	require.NoError(t, err)
	assert.Equal(t, plist.Integer(1024), node)

	node, err = p.ReadOption(ctx, path, "Window")
	require.NoError(t, err)
	dict, ok := node.(*plist.Dict)
	require.True(t, ok)
	assert.Equal(t, 2, dict.Len())
}

func TestProviderLifecycle(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "com.example.app.plist")
	p := NewProvider()
	ctx := context.Background()

	exists, err := p.EntityExists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	initial := []domain.InitialOption{
		{Name: "Greeting", Value: plist.String("hello")},
		{Name: "Window:Width", Value: plist.Integer(640)},
	}
	require.NoError(t, p.CreateEntity(ctx, path, initial))

	exists, err = p.EntityExists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	node, err := p.ReadOption(ctx, path, "Window:Width")
	require.NoError(t, err)
	assert.Equal(t, plist.Integer(640), node)

	assert.Error(t, p.CreateEntity(ctx, path, nil))

	require.NoError(t, p.RemoveEntity(ctx, path))
	assert.Error(t, p.RemoveEntity(ctx, path))
}
