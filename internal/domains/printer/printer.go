// Package printer manages CUPS print queues. The entity is the queue name;
// queues support the full presence lifecycle through lpadmin.
package printer

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/model"
	"github.com/mosen/salt-osx/internal/plist"
)

// Name is the registry name for this domain.
const Name = "printer"

const (
	lpstatPath  = "/usr/bin/lpstat"
	lpadminPath = "/usr/sbin/lpadmin"
)

// adminFlags maps option names to the lpadmin flag that sets them.
var adminFlags = map[string]string{
	"description": "-D",
	"uri":         "-v",
	"location":    "-L",
	"model":       "-m",
	"ppd":         "-P",
}

// Definition returns the printer vocabulary. All options are strings. The
// driver selectors model and ppd cannot be read back from lpstat, so they
// are create-only: applied when the queue is installed, excluded from
// diffing of an existing queue.
func Definition() *domain.Definition {
	return &domain.Definition{
		Name: Name,
		Options: []domain.OptionSpec{
			domain.Scalar("description", model.TagString),
			domain.Scalar("uri", model.TagString),
			domain.Scalar("location", model.TagString),
			domain.ScalarCreateOnly("model", model.TagString),
			domain.ScalarCreateOnly("ppd", model.TagString),
		},
		EntityCheck: checkEntity,
	}
}

// checkEntity enforces the CUPS queue naming rule: printable characters
// except space, tab, slash and hash.
func checkEntity(entityID string) error {
	if entityID == "" {
		return fmt.Errorf("printer name must not be empty")
	}
	if strings.ContainsAny(entityID, " \t/#") {
		return fmt.Errorf("printer name %q may not contain spaces, tabs, %q or %q", entityID, "/", "#")
	}
	return nil
}

// queue is the state lpstat reports for one print queue.
type queue struct {
	description string
	location    string
	uri         string
}

// Provider shells out to lpstat and lpadmin. The runner indirection exists
// so tests can substitute canned output.
type Provider struct {
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewProvider returns a CUPS-backed Provider.
func NewProvider() *Provider {
	return &Provider{run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s %v: %w: %s", name, args, err, out)
	}
	return out, nil
}

func (p *Provider) queues(ctx context.Context) (map[string]queue, error) {
	long, err := p.run(ctx, lpstatPath, "-l", "-p")
	if err != nil {
		// lpstat fails with "No destinations added" when no queue exists.
		if strings.Contains(err.Error(), "No destinations") {
			return map[string]queue{}, nil
		}
		return nil, err
	}
	queues := parseLong(string(long))

	devices, err := p.run(ctx, lpstatPath, "-v")
	if err != nil {
		if strings.Contains(err.Error(), "No destinations") {
			return queues, nil
		}
		return nil, err
	}
	for name, uri := range parseDevices(string(devices)) {
		q := queues[name]
		q.uri = uri
		queues[name] = q
	}
	return queues, nil
}

// parseLong parses `lpstat -l -p`: a "printer <name> ..." line per queue
// followed by indented attribute lines.
func parseLong(out string) map[string]queue {
	queues := make(map[string]queue)
	var name string

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "printer ") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			name = fields[1]
			queues[name] = queue{}
			continue
		}
		if name == "" {
			continue
		}
		trimmed := strings.TrimSpace(line)
		q := queues[name]
		if rest, ok := strings.CutPrefix(trimmed, "Description: "); ok {
			q.description = rest
		} else if rest, ok := strings.CutPrefix(trimmed, "Location: "); ok {
			q.location = rest
		}
		queues[name] = q
	}
	return queues
}

// parseDevices parses `lpstat -v` lines of the form
// "device for <name>: <uri>".
func parseDevices(out string) map[string]string {
	devices := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		rest, ok := strings.CutPrefix(scanner.Text(), "device for ")
		if !ok {
			continue
		}
		name, uri, ok := strings.Cut(rest, ": ")
		if !ok {
			continue
		}
		devices[name] = strings.TrimSpace(uri)
	}
	return devices
}

func (p *Provider) ReadOption(ctx context.Context, entityID, option string) (plist.Node, error) {
	if err := checkEntity(entityID); err != nil {
		return nil, err
	}
	queues, err := p.queues(ctx)
	if err != nil {
		return nil, err
	}
	q, ok := queues[entityID]
	if !ok {
		return nil, &domain.NotFoundError{EntityID: entityID, Option: option}
	}

	var value string
	switch option {
	case "description":
		value = q.description
	case "location":
		value = q.location
	case "uri":
		value = q.uri
	case "model", "ppd":
		// CUPS does not report the driver back; the vocabulary marks
		// these create-only so they are never diffed.
		return nil, &domain.NotFoundError{EntityID: entityID, Option: option}
	default:
		return nil, &domain.UnknownOptionError{Domain: Name, Option: option}
	}
	if value == "" {
		return nil, &domain.NotFoundError{EntityID: entityID, Option: option}
	}
	return plist.String(value), nil
}

func (p *Provider) WriteOption(ctx context.Context, entityID, option string, value plist.Node) error {
	if err := checkEntity(entityID); err != nil {
		return err
	}
	flag, ok := adminFlags[option]
	if !ok {
		return &domain.UnknownOptionError{Domain: Name, Option: option}
	}
	str, ok := value.(plist.String)
	if !ok {
		return &plist.TypeMismatchError{
			Message: fmt.Sprintf("printer options take strings, got %T", value),
		}
	}
	_, err := p.run(ctx, lpadminPath, "-p", entityID, flag, string(str))
	return err
}

func (p *Provider) EntityExists(ctx context.Context, entityID string) (bool, error) {
	if err := checkEntity(entityID); err != nil {
		return false, err
	}
	queues, err := p.queues(ctx)
	if err != nil {
		return false, err
	}
	_, ok := queues[entityID]
	return ok, nil
}

// CreateEntity installs the queue in a single lpadmin invocation carrying
// every declared option, then enables it.
func (p *Provider) CreateEntity(ctx context.Context, entityID string, options []domain.InitialOption) error {
	if err := checkEntity(entityID); err != nil {
		return err
	}
	args := []string{"-p", entityID, "-E"}
	for _, opt := range options {
		flag, ok := adminFlags[opt.Name]
		if !ok {
			return &domain.UnknownOptionError{Domain: Name, Option: opt.Name}
		}
		str, ok := opt.Value.(plist.String)
		if !ok {
			return &plist.TypeMismatchError{
				Message: fmt.Sprintf("printer options take strings, got %T", opt.Value),
			}
		}
		args = append(args, flag, string(str))
	}
	_, err := p.run(ctx, lpadminPath, args...)
	return err
}

func (p *Provider) RemoveEntity(ctx context.Context, entityID string) error {
	if err := checkEntity(entityID); err != nil {
		return err
	}
	_, err := p.run(ctx, lpadminPath, "-x", entityID)
	return err
}
