// Package engine implements declarative-state reconciliation: given a State
// Descriptor and a domain binding, it inspects current native state, diffs it
// against the declaration, applies only the deltas, and reports exactly what
// changed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mosen/salt-osx/internal/config"
	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/logger"
	"github.com/mosen/salt-osx/internal/model"
	"github.com/mosen/salt-osx/internal/plist"
)

// Engine converges entities one at a time. It is single-threaded per entity
// and applies option mutations strictly in declaration order; callers must
// guarantee that only one run touches a given native resource at a time.
type Engine struct {
	Registry *domain.Registry
	Logger   *logger.Logger

	// DryRun computes and reports pending changes without mutating
	// anything.
	DryRun bool
}

// New returns an engine over the given domain registry.
func New(registry *domain.Registry, log *logger.Logger) *Engine {
	return &Engine{Registry: registry, Logger: log}
}

// ConvergeAll converges every entity in document order. Failures do not stop
// later entities; each Result stands alone.
func (e *Engine) ConvergeAll(ctx context.Context, doc *config.Document) []model.Result {
	results := make([]model.Result, 0, len(doc.Entities))
	for _, entity := range doc.Entities {
		results = append(results, *e.Converge(ctx, entity))
	}
	return results
}

// plannedOption is one declared option resolved against the domain
// vocabulary with its value in canonical form.
type plannedOption struct {
	spec     domain.OptionSpec
	declared model.Value
}

// Converge runs Inspecting, Diffing and Applying for a single entity and
// returns its Result. Declaration errors and inspection failures produce a
// failed Result with zero mutations; an apply failure aborts further
// mutation but the Result still lists every change applied before it.
func (e *Engine) Converge(ctx context.Context, entity config.Entity) *model.Result {
	start := time.Now()
	res := &model.Result{
		EntityID:  entity.ID,
		Domain:    entity.Domain,
		Timestamp: start,
	}
	log := e.Logger.WithFields(map[string]any{"entity": entity.ID, "domain": entity.Domain})

	fail := func(err error) *model.Result {
		res.Outcome = model.OutcomeFailed
		res.Err = err
		res.Duration = time.Since(start)
		log.Error(err, "convergence failed")
		return res
	}
	finish := func(outcome model.Outcome) *model.Result {
		res.Outcome = outcome
		res.Duration = time.Since(start)
		return res
	}

	binding, err := e.Registry.Get(entity.Domain)
	if err != nil {
		return fail(err)
	}
	if err := binding.Definition.ValidateEntity(entity.ID); err != nil {
		return fail(fmt.Errorf("entity %q: %w", entity.ID, err))
	}

	planned, err := e.plan(binding.Definition, entity)
	if err != nil {
		return fail(err)
	}

	switch entity.Presence {
	case config.PresenceAbsent:
		return e.convergeAbsent(ctx, binding, entity, res, fail, finish)
	case config.PresencePresent:
		exists, err := binding.Provider.EntityExists(ctx, entity.ID)
		if err != nil {
			return fail(&domain.ReadError{Domain: entity.Domain, EntityID: entity.ID, Err: err})
		}
		if !exists {
			return e.createEntity(ctx, binding, entity, planned, res, fail, finish)
		}
		// Exists already: converge the declared options like managed.
	case config.PresenceManaged:
	default:
		return fail(fmt.Errorf("entity %q: unknown presence %q", entity.ID, entity.Presence))
	}

	return e.convergeOptions(ctx, binding, entity, planned, res, fail, finish)
}

// plan resolves every declared option against the vocabulary and normalizes
// its value. Any error here means zero mutations are attempted.
func (e *Engine) plan(def *domain.Definition, entity config.Entity) ([]plannedOption, error) {
	seen := make(map[string]struct{}, len(entity.Options))
	planned := make([]plannedOption, 0, len(entity.Options))

	for _, opt := range entity.Options {
		if _, dup := seen[opt.Name]; dup {
			return nil, fmt.Errorf("entity %q declares option %q twice", entity.ID, opt.Name)
		}
		seen[opt.Name] = struct{}{}

		spec, err := def.Resolve(opt.Name)
		if err != nil {
			return nil, err
		}
		declared, err := spec.Codec.Normalize(opt.Value)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", opt.Name, err)
		}
		planned = append(planned, plannedOption{spec: spec, declared: declared})
	}
	return planned, nil
}

func (e *Engine) convergeAbsent(
	ctx context.Context,
	binding domain.Binding,
	entity config.Entity,
	res *model.Result,
	fail func(error) *model.Result,
	finish func(model.Outcome) *model.Result,
) *model.Result {
	exists, err := binding.Provider.EntityExists(ctx, entity.ID)
	if err != nil {
		return fail(&domain.ReadError{Domain: entity.Domain, EntityID: entity.ID, Err: err})
	}
	if !exists {
		return finish(model.OutcomeNoop)
	}

	change := model.Change{
		Option: "presence",
		Old:    valueRef(model.StringValue(string(config.PresencePresent))),
		New:    valueRef(model.StringValue(string(config.PresenceAbsent))),
	}
	if e.DryRun {
		res.Changes = []model.Change{change}
		return finish(model.OutcomeChanged)
	}

	if err := binding.Provider.RemoveEntity(ctx, entity.ID); err != nil {
		return fail(&domain.RemoveError{Domain: entity.Domain, EntityID: entity.ID, Err: err})
	}
	res.Changes = []model.Change{change}
	return finish(model.OutcomeChanged)
}

// createEntity brings a missing present-entity into existence with every
// declared option as an initial value; no per-option diff follows.
func (e *Engine) createEntity(
	ctx context.Context,
	binding domain.Binding,
	entity config.Entity,
	planned []plannedOption,
	res *model.Result,
	fail func(error) *model.Result,
	finish func(model.Outcome) *model.Result,
) *model.Result {
	initial := make([]domain.InitialOption, 0, len(planned))
	changes := make([]model.Change, 0, len(planned))
	for _, p := range planned {
		node, err := p.spec.Codec.Encode(p.declared)
		if err != nil {
			return fail(fmt.Errorf("option %q: %w", p.spec.Name, err))
		}
		initial = append(initial, domain.InitialOption{Name: p.spec.Name, Value: node})
		changes = append(changes, model.Change{Option: p.spec.Name, New: valueRef(p.declared)})
	}

	if e.DryRun {
		res.Changes = changes
		return finish(model.OutcomeChanged)
	}

	if err := binding.Provider.CreateEntity(ctx, entity.ID, initial); err != nil {
		return fail(&domain.CreateError{Domain: entity.Domain, EntityID: entity.ID, Err: err})
	}
	res.Changes = changes
	return finish(model.OutcomeChanged)
}

func (e *Engine) convergeOptions(
	ctx context.Context,
	binding domain.Binding,
	entity config.Entity,
	planned []plannedOption,
	res *model.Result,
	fail func(error) *model.Result,
	finish func(model.Outcome) *model.Result,
) *model.Result {
	log := e.Logger.WithFields(map[string]any{"entity": entity.ID, "domain": entity.Domain})

	// Create-only options cannot be read back from the native store, so
	// they have no diff against an existing entity. Skipping them here is
	// what keeps a converged declaration a no-op.
	kept := planned[:0]
	for _, p := range planned {
		if !p.spec.CreateOnly {
			kept = append(kept, p)
		}
	}
	planned = kept

	// Inspecting: read the current value of every declared option, and
	// only the declared options. Unlisted native settings are never read
	// or touched.
	currents := make([]plist.Node, len(planned))
	for i, p := range planned {
		node, err := binding.Provider.ReadOption(ctx, entity.ID, p.spec.Name)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				currents[i] = nil
				continue
			}
			return fail(&domain.ReadError{
				Domain:   entity.Domain,
				EntityID: entity.ID,
				Option:   p.spec.Name,
				Err:      err,
			})
		}
		currents[i] = node
	}

	// Diffing: compare in declaration order with value equality suited to
	// the tag. No coercion across tags unless the declared tag was
	// inferred and converts losslessly.
	type pendingChange struct {
		spec   domain.OptionSpec
		change model.Change
		node   plist.Node
	}
	var pending []pendingChange

	for i, p := range planned {
		declared := p.declared

		var old *model.Value
		if currents[i] != nil {
			current, err := p.spec.Codec.Decode(currents[i])
			if err != nil {
				return fail(fmt.Errorf("option %q: %w", p.spec.Name, err))
			}
			if declared.Tag != current.Tag {
				if declared.Explicit {
					return fail(fmt.Errorf("option %q: %w", p.spec.Name, &plist.TypeMismatchError{
						Message: "declared " + string(declared.Tag) + " but native value is " + string(current.Tag),
					}))
				}
				converted, ok := declared.ConvertTo(current.Tag)
				if !ok {
					return fail(fmt.Errorf("option %q: %w", p.spec.Name, &plist.TypeMismatchError{
						Message: "declared " + string(declared.Tag) + " but native value is " + string(current.Tag),
					}))
				}
				declared = converted
			}
			if declared.Equal(current) {
				continue
			}
			old = valueRef(current)
		}

		node, err := p.spec.Codec.Encode(declared)
		if err != nil {
			return fail(fmt.Errorf("option %q: %w", p.spec.Name, err))
		}
		pending = append(pending, pendingChange{
			spec:   p.spec,
			change: model.Change{Option: p.spec.Name, Old: old, New: valueRef(declared)},
			node:   node,
		})
	}

	if len(pending) == 0 {
		return finish(model.OutcomeNoop)
	}

	if e.DryRun {
		for _, pc := range pending {
			res.Changes = append(res.Changes, pc.change)
		}
		return finish(model.OutcomeChanged)
	}

	// Applying: strictly sequential, declaration order, no retries. A
	// failure stops further mutation but the completed changes stay in
	// the Result so partial application is visible.
	for _, pc := range pending {
		if err := binding.Provider.WriteOption(ctx, entity.ID, pc.spec.Name, pc.node); err != nil {
			res.Err = &domain.WriteError{
				Domain:   entity.Domain,
				EntityID: entity.ID,
				Option:   pc.spec.Name,
				Err:      err,
			}
			res.Outcome = model.OutcomeFailed
			res.Duration = time.Since(res.Timestamp)
			log.Error(res.Err, "apply aborted")
			return res
		}
		res.Changes = append(res.Changes, pc.change)
		log.WithFields(map[string]any{"option": pc.spec.Name}).Debug("option applied")
	}

	return finish(model.OutcomeChanged)
}

func valueRef(v model.Value) *model.Value {
	return &v
}
