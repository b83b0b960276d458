package power

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/plist"
)

const portableOutput = `Battery Power:
 lidwake              1
 autopoweroff         1
 autopoweroffdelay    28800
 lessbright           1
 halfdim              1
 sms                  1
 disksleep            10
 sleep                1
 displaysleep         2
AC Power:
 lidwake              1
 autopoweroff         1
 autopoweroffdelay    28800
 womp                 1
 halfdim              1
 sms                  1
 disksleep            10
 sleep                10
 displaysleep         10
 ttyskeepawake        1
`

const desktopOutput = `AC Power:
 sleep                0
 displaysleep         20
 womp                 0
`

func fakeProvider(output string) (*Provider, *[][]string) {
	var calls [][]string
	p := &Provider{run: func(ctx context.Context, args ...string) ([]byte, error) {
		calls = append(calls, args)
		return []byte(output), nil
	}}
	return p, &calls
}

func TestParseCustomPortable(t *testing.T) {
	t.Parallel()

	sources, err := parseCustom(portableOutput)
	require.NoError(t, err)
	require.Contains(t, sources, "ac")
	require.Contains(t, sources, "battery")

	assert.Equal(t, plist.Integer(10), sources["ac"]["sleep"])
	assert.Equal(t, plist.Integer(1), sources["battery"]["sleep"])
	assert.Equal(t, plist.Bool(true), sources["ac"]["womp"])
	assert.Equal(t, plist.Bool(true), sources["battery"]["lidwake"])
	assert.Equal(t, plist.Integer(28800), sources["ac"]["autopoweroffdelay"])
}

func TestParseCustomDesktopHasNoBattery(t *testing.T) {
	t.Parallel()

	sources, err := parseCustom(desktopOutput)
	require.NoError(t, err)
	assert.Contains(t, sources, "ac")
	assert.NotContains(t, sources, "battery")
	assert.Equal(t, plist.Bool(false), sources["ac"]["womp"])
}

func TestReadOption(t *testing.T) {
	t.Parallel()

	p, _ := fakeProvider(portableOutput)
	ctx := context.Background()

	node, err := p.ReadOption(ctx, "battery", "displaysleep")
	require.NoError(t, err)
	assert.Equal(t, plist.Integer(2), node)

	_, err = p.ReadOption(ctx, "ac", "ring")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = p.ReadOption(ctx, "solar", "sleep")
	require.Error(t, err)
}

func TestWriteOptionArguments(t *testing.T) {
	t.Parallel()

	p, calls := fakeProvider("")
	ctx := context.Background()

	require.NoError(t, p.WriteOption(ctx, "ac", "displaysleep", plist.Integer(15)))
	require.NoError(t, p.WriteOption(ctx, "battery", "womp", plist.Bool(false)))

	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"-c", "displaysleep", "15"}, (*calls)[0])
	assert.Equal(t, []string{"-b", "womp", "0"}, (*calls)[1])
}

func TestWriteOptionRejectsStrings(t *testing.T) {
	t.Parallel()

	p, _ := fakeProvider("")
	err := p.WriteOption(context.Background(), "ac", "sleep", plist.String("never"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "booleans or integers"))
}

func TestEntityExists(t *testing.T) {
	t.Parallel()

	p, _ := fakeProvider(desktopOutput)
	ctx := context.Background()

	exists, err := p.EntityExists(ctx, "ac")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = p.EntityExists(ctx, "battery")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLifecycleIsFixed(t *testing.T) {
	t.Parallel()

	p, _ := fakeProvider(desktopOutput)
	ctx := context.Background()
	assert.Error(t, p.CreateEntity(ctx, "battery", nil))
	assert.Error(t, p.RemoveEntity(ctx, "battery"))
}
