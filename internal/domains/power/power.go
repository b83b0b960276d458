// Package power manages pmset power settings per power source. Entities are
// the two power sources, "ac" and "battery"; a desktop machine simply has no
// battery entity.
package power

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/model"
	"github.com/mosen/salt-osx/internal/plist"
)

// Name is the registry name for this domain.
const Name = "power"

const pmsetPath = "/usr/bin/pmset"

// sourceFlags maps entity identifiers to the pmset scope flag.
var sourceFlags = map[string]string{
	"ac":      "-c",
	"battery": "-b",
}

// sourceHeadings maps the section headings in `pmset -g custom` output back
// to entity identifiers.
var sourceHeadings = map[string]string{
	"AC Power:":      "ac",
	"Battery Power:": "battery",
}

// booleanSettings are reported by pmset as 0/1 but are booleans to us.
var booleanSettings = map[string]bool{
	"womp":                  true,
	"ring":                  true,
	"autorestart":           true,
	"lidwake":               true,
	"acwake":                true,
	"lessbright":            true,
	"halfdim":               true,
	"sms":                   true,
	"ttyskeepawake":         true,
	"destroyfvkeyonstandby": true,
	"autopoweroff":          true,
}

// Definition returns the power vocabulary. Sleep timers are minutes, with
// zero meaning never.
func Definition() *domain.Definition {
	return &domain.Definition{
		Name: Name,
		Options: []domain.OptionSpec{
			domain.Scalar("sleep", model.TagInt),
			domain.Scalar("displaysleep", model.TagInt),
			domain.Scalar("disksleep", model.TagInt),
			domain.Scalar("autopoweroffdelay", model.TagInt),
			domain.Scalar("womp", model.TagBool),
			domain.Scalar("ring", model.TagBool),
			domain.Scalar("autorestart", model.TagBool),
			domain.Scalar("lidwake", model.TagBool),
			domain.Scalar("acwake", model.TagBool),
			domain.Scalar("lessbright", model.TagBool),
			domain.Scalar("halfdim", model.TagBool),
			domain.Scalar("sms", model.TagBool),
			domain.Scalar("ttyskeepawake", model.TagBool),
			domain.Scalar("destroyfvkeyonstandby", model.TagBool),
			domain.Scalar("autopoweroff", model.TagBool),
		},
		EntityCheck: checkEntity,
	}
}

func checkEntity(entityID string) error {
	if _, ok := sourceFlags[entityID]; !ok {
		return fmt.Errorf("power source must be \"ac\" or \"battery\", got %q", entityID)
	}
	return nil
}

// Provider shells out to pmset. The runner indirection exists so tests can
// substitute canned output.
type Provider struct {
	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewProvider returns a pmset-backed Provider.
func NewProvider() *Provider {
	return &Provider{run: runPmset}
}

func runPmset(ctx context.Context, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, pmsetPath, args...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pmset %v: %w: %s", args, err, out)
	}
	return out, nil
}

func (p *Provider) settings(ctx context.Context) (map[string]map[string]plist.Node, error) {
	out, err := p.run(ctx, "-g", "custom")
	if err != nil {
		return nil, err
	}
	return parseCustom(string(out))
}

// parseCustom parses `pmset -g custom` output: a heading per power source
// followed by indented "name value" lines.
func parseCustom(out string) (map[string]map[string]plist.Node, error) {
	sources := make(map[string]map[string]plist.Node)
	var current map[string]plist.Node

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if source, ok := sourceHeadings[strings.TrimSpace(line)]; ok {
			current = make(map[string]plist.Node)
			sources[source] = current
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || current == nil {
			continue
		}
		name := fields[0]
		raw := fields[1]
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// Some settings report non-numeric values; keep them as
			// strings so reads do not fail on them.
			current[name] = plist.String(raw)
			continue
		}
		if booleanSettings[name] {
			current[name] = plist.Bool(n != 0)
		} else {
			current[name] = plist.Integer(n)
		}
	}
	return sources, scanner.Err()
}

func (p *Provider) ReadOption(ctx context.Context, entityID, option string) (plist.Node, error) {
	if err := checkEntity(entityID); err != nil {
		return nil, err
	}
	sources, err := p.settings(ctx)
	if err != nil {
		return nil, err
	}
	settings, ok := sources[entityID]
	if !ok {
		return nil, fmt.Errorf("power source %q is not present on this machine", entityID)
	}
	node, ok := settings[option]
	if !ok {
		return nil, &domain.NotFoundError{EntityID: entityID, Option: option}
	}
	return node, nil
}

func (p *Provider) WriteOption(ctx context.Context, entityID, option string, value plist.Node) error {
	if err := checkEntity(entityID); err != nil {
		return err
	}
	var raw string
	switch t := value.(type) {
	case plist.Bool:
		if bool(t) {
			raw = "1"
		} else {
			raw = "0"
		}
	case plist.Integer:
		raw = strconv.FormatInt(int64(t), 10)
	default:
		return &plist.TypeMismatchError{
			Message: fmt.Sprintf("pmset settings take booleans or integers, got %T", value),
		}
	}
	_, err := p.run(ctx, sourceFlags[entityID], option, raw)
	return err
}

// EntityExists reports whether pmset knows the power source. Battery
// settings only exist on portables.
func (p *Provider) EntityExists(ctx context.Context, entityID string) (bool, error) {
	if err := checkEntity(entityID); err != nil {
		return false, err
	}
	sources, err := p.settings(ctx)
	if err != nil {
		return false, err
	}
	_, ok := sources[entityID]
	return ok, nil
}

func (p *Provider) CreateEntity(ctx context.Context, entityID string, options []domain.InitialOption) error {
	return fmt.Errorf("power sources are fixed hardware; declare them managed")
}

func (p *Provider) RemoveEntity(ctx context.Context, entityID string) error {
	return fmt.Errorf("power sources are fixed hardware and cannot be removed")
}
