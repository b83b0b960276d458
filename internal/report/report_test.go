package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mosen/salt-osx/internal/model"
)

func changedResult() model.Result {
	oldV := model.BoolValue(false)
	newV := model.BoolValue(true)
	return model.Result{
		EntityID: "system",
		Domain:   "remotemgmt",
		Outcome:  model.OutcomeChanged,
		Changes:  []model.Change{{Option: "enabled", Old: &oldV, New: &newV}},
	}
}

func TestResultOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(&buf, true)

	res := changedResult()
	r.Result(&res)

	out := buf.String()
	assert.Contains(t, out, "system")
	assert.Contains(t, out, "converged-changed")
	assert.Contains(t, out, "enabled: false -> true")
}

func TestResultOutputUnsetOld(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(&buf, true)

	newV := model.IntValue(60)
	res := model.Result{
		EntityID: "ac",
		Domain:   "power",
		Outcome:  model.OutcomeChanged,
		Changes:  []model.Change{{Option: "sleep", New: &newV}},
	}
	r.Result(&res)

	assert.Contains(t, buf.String(), "sleep: unset -> 60")
}

func TestFailedResultIncludesError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := New(&buf, true)

	res := model.Result{
		EntityID: "lab_printer",
		Domain:   "printer",
		Outcome:  model.OutcomeFailed,
		Err:      errors.New("lpadmin unavailable"),
	}
	r.Result(&res)

	assert.Contains(t, buf.String(), "lpadmin unavailable")
}

func TestSummaryAndExitCode(t *testing.T) {
	t.Parallel()

	results := []model.Result{
		changedResult(),
		{EntityID: "a", Outcome: model.OutcomeNoop},
		{EntityID: "b", Outcome: model.OutcomeFailed},
	}

	var buf bytes.Buffer
	New(&buf, true).Summary(results)
	assert.Contains(t, buf.String(), "1 changed, 1 unchanged, 1 failed")
	assert.Equal(t, 1, ExitCode(results))

	assert.Equal(t, 0, ExitCode(results[:2]))
}
