package model

import "time"

// Outcome classifies a convergence run for one entity.
type Outcome string

const (
	// OutcomeNoop means the entity already matched its declaration.
	OutcomeNoop Outcome = "converged-no-op"
	// OutcomeChanged means at least one option was brought into line.
	OutcomeChanged Outcome = "converged-changed"
	// OutcomeFailed means the run aborted; Changes still lists every
	// option that was applied before the failure.
	OutcomeFailed Outcome = "failed"
)

// IsValid reports whether the outcome is one of the defined states.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeNoop, OutcomeChanged, OutcomeFailed:
		return true
	}
	return false
}

// Change records a single option transition in declaration order.
// Old is nil when the option had no native value before the run.
type Change struct {
	Option string
	Old    *Value
	New    *Value
}

// Result is the immutable outcome of one convergence run for one entity.
// It is created fresh per run and handed to the reporter.
type Result struct {
	EntityID  string
	Domain    string
	Changes   []Change
	Outcome   Outcome
	Err       error
	Duration  time.Duration
	Timestamp time.Time
}

// Failed reports whether the run ended in failure.
func (r *Result) Failed() bool {
	return r.Outcome == OutcomeFailed
}
