// Package report renders convergence results for the terminal and
// aggregates them into a process exit status.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/mosen/salt-osx/internal/model"
)

var (
	styleNoop    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleChanged = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleEntity  = lipgloss.NewStyle().Bold(true)
	styleChange  = lipgloss.NewStyle().PaddingLeft(4)
	styleError   = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("196"))
	styleSummary = lipgloss.NewStyle().MarginTop(1)
)

// Reporter writes human-readable result output. Plain mode strips styling
// for non-terminal output.
type Reporter struct {
	out   io.Writer
	plain bool
}

// New creates a Reporter. Set plain when stdout is not a terminal.
func New(out io.Writer, plain bool) *Reporter {
	return &Reporter{out: out, plain: plain}
}

func (r *Reporter) render(style lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return style.Render(text)
}

// Result writes one convergence result, listing every recorded change in
// declaration order.
func (r *Reporter) Result(res *model.Result) {
	marker := r.render(styleNoop, "·")
	outcome := r.render(styleNoop, string(res.Outcome))
	switch res.Outcome {
	case model.OutcomeChanged:
		marker = r.render(styleChanged, "✓")
		outcome = r.render(styleChanged, string(res.Outcome))
	case model.OutcomeFailed:
		marker = r.render(styleFailed, "✗")
		outcome = r.render(styleFailed, string(res.Outcome))
	}

	fmt.Fprintf(r.out, "%s %s (%s) %s\n", marker, r.render(styleEntity, res.EntityID), res.Domain, outcome)

	for _, change := range res.Changes {
		old := "unset"
		if change.Old != nil {
			old = change.Old.String()
		}
		line := fmt.Sprintf("%s: %s -> %s", change.Option, old, change.New.String())
		fmt.Fprintln(r.out, r.render(styleChange, line))
	}

	if res.Err != nil {
		fmt.Fprintln(r.out, r.render(styleError, "error: "+res.Err.Error()))
	}
}

// Summary writes the aggregate line for a run.
func (r *Reporter) Summary(results []model.Result) {
	var changed, noop, failed int
	for i := range results {
		switch results[i].Outcome {
		case model.OutcomeChanged:
			changed++
		case model.OutcomeNoop:
			noop++
		case model.OutcomeFailed:
			failed++
		}
	}

	line := fmt.Sprintf("%d changed, %d unchanged, %d failed", changed, noop, failed)
	style := styleSummary
	if failed > 0 && !r.plain {
		style = styleSummary.Foreground(lipgloss.Color("196"))
	}
	fmt.Fprintln(r.out, r.render(style, line))
}

// ExitCode returns 0 when no result failed, 1 otherwise.
func ExitCode(results []model.Result) int {
	for i := range results {
		if results[i].Failed() {
			return 1
		}
	}
	return 0
}
