package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosen/salt-osx/internal/model"
	"github.com/mosen/salt-osx/internal/plist"
)

func testDefinition() *Definition {
	return &Definition{
		Name: "widget",
		Options: []OptionSpec{
			Scalar("enabled", model.TagBool),
			Scalar("timeout", model.TagInt),
			Scalar("label", model.TagString),
		},
	}
}

func TestResolveClosedVocabulary(t *testing.T) {
	t.Parallel()

	def := testDefinition()

	spec, err := def.Resolve("timeout")
	require.NoError(t, err)
	assert.Equal(t, "timeout", spec.Name)
	assert.Equal(t, model.TagInt, spec.Tag)

	_, err = def.Resolve("colour")
	var unknown *UnknownOptionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "widget", unknown.Domain)
	assert.Equal(t, "colour", unknown.Option)
}

func TestResolveOpenVocabulary(t *testing.T) {
	t.Parallel()

	def := &Definition{Name: "docs", Open: true}

	spec, err := def.Resolve("Any:Key:Path")
	require.NoError(t, err)
	assert.Equal(t, "Any:Key:Path", spec.Name)

	_, err = def.Resolve("")
	require.Error(t, err)
}

func TestScalarCodecNormalize(t *testing.T) {
	t.Parallel()

	spec, err := testDefinition().Resolve("timeout")
	require.NoError(t, err)

	// Matching tag passes through.
	v, err := spec.Codec.Normalize(model.IntValue(30))
	require.NoError(t, err)
	assert.Equal(t, model.TagInt, v.Tag)

	// An inferred float that is a whole number converts losslessly.
	v, err = spec.Codec.Normalize(model.FloatValue(30))
	require.NoError(t, err)
	assert.Equal(t, model.TagInt, v.Tag)
	assert.Equal(t, int64(30), v.Int)

	// An explicit float does not.
	explicit := model.FloatValue(30)
	explicit.Explicit = true
	_, err = spec.Codec.Normalize(explicit)
	var mismatch *plist.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)

	// Booleans never convert to integers.
	_, err = spec.Codec.Normalize(model.BoolValue(true))
	require.ErrorAs(t, err, &mismatch)
}

func TestScalarCodecEncodeDecode(t *testing.T) {
	t.Parallel()

	spec, err := testDefinition().Resolve("label")
	require.NoError(t, err)

	node, err := spec.Codec.Encode(model.StringValue("hello"))
	require.NoError(t, err)
	assert.Equal(t, plist.String("hello"), node)

	back, err := spec.Codec.Decode(node)
	require.NoError(t, err)
	assert.Equal(t, model.StringValue("hello"), back)
}

func TestValidateEntity(t *testing.T) {
	t.Parallel()

	def := testDefinition()
	assert.NoError(t, def.ValidateEntity("anything"))

	def.EntityCheck = func(entityID string) error {
		if entityID != "main" {
			return &UnknownDomainError{Name: entityID}
		}
		return nil
	}
	assert.NoError(t, def.ValidateEntity("main"))
	assert.Error(t, def.ValidateEntity("other"))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	provider := NewMemoryProvider()

	require.NoError(t, r.Register(Binding{Definition: testDefinition(), Provider: provider}))
	require.NoError(t, r.Register(Binding{Definition: &Definition{Name: "docs", Open: true}, Provider: provider}))

	b, err := r.Get("widget")
	require.NoError(t, err)
	assert.Equal(t, "widget", b.Definition.Name)

	_, err = r.Get("gadget")
	var unknown *UnknownDomainError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "gadget", unknown.Name)

	assert.Equal(t, []string{"widget", "docs"}, r.Names())
}

func TestRegistryRejectsDuplicatesAndNil(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	provider := NewMemoryProvider()

	require.NoError(t, r.Register(Binding{Definition: testDefinition(), Provider: provider}))
	assert.Error(t, r.Register(Binding{Definition: testDefinition(), Provider: provider}))
	assert.Error(t, r.Register(Binding{Definition: testDefinition()}))
	assert.Error(t, r.Register(Binding{Provider: provider}))
}

func TestMemoryProvider(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()
	ctx := context.Background()

	_, err := p.ReadOption(ctx, "a", "x")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	require.NoError(t, p.WriteOption(ctx, "a", "x", plist.Integer(1)))
	node, err := p.ReadOption(ctx, "a", "x")
	require.NoError(t, err)
	assert.Equal(t, plist.Integer(1), node)

	exists, err := p.EntityExists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, p.CreateEntity(ctx, "b", []InitialOption{{Name: "y", Value: plist.Bool(true)}}))
	assert.Error(t, p.CreateEntity(ctx, "b", nil))

	node, err = p.ReadOption(ctx, "b", "y")
	require.NoError(t, err)
	assert.Equal(t, plist.Bool(true), node)

	require.NoError(t, p.RemoveEntity(ctx, "b"))
	assert.Error(t, p.RemoveEntity(ctx, "b"))
}
