package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/muesli/termenv"
)

// Printer writes traces and verdicts, coloured according to its profile.
type Printer struct {
	out *termenv.Output
}

// NewPrinter creates a printer for w. Use termenv.Ascii to disable colour.
func NewPrinter(w io.Writer, profile termenv.Profile) *Printer {
	return &Printer{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// TraceLine renders one step the way the evaluator narrates it.
func TraceLine(step domain.Step) string {
	head := fmt.Sprintf("Read %q at %s, ", step.Symbol.String(), step.From)
	switch step.Outcome {
	case domain.OutcomeMoved:
		return head + "goto " + step.To.String()
	case domain.OutcomeNoRow:
		return head + "reject (no transition row)"
	case domain.OutcomeUnknownSymbol:
		return head + "reject (not in alphabet)"
	default:
		return head + "reject"
	}
}

// VerdictLine renders the final line of a run.
func VerdictLine(res domain.Result) string {
	if res.Accepted() {
		return fmt.Sprintf("[Pass] accepted in %s", res.Final)
	}
	return fmt.Sprintf("[Fail] rejected in %s after %d symbol(s)", res.Final, res.Consumed)
}

// FormatTrace renders a run as plain text, one line per step and a final
// verdict line.
func FormatTrace(res domain.Result) string {
	var sb strings.Builder
	for _, step := range res.Trace {
		sb.WriteString(TraceLine(step))
		sb.WriteByte('\n')
	}
	sb.WriteString(VerdictLine(res))
	sb.WriteByte('\n')
	return sb.String()
}

// PrintResult writes every trace line followed by the verdict.
func (p *Printer) PrintResult(res domain.Result) error {
	for _, step := range res.Trace {
		line := p.out.String(TraceLine(step))
		if step.Outcome.Rejects() {
			line = line.Foreground(p.out.Color("#fb7185"))
		} else {
			line = line.Faint()
		}
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
	}

	verdict := p.out.String(VerdictLine(res)).Bold()
	if res.Accepted() {
		verdict = verdict.Foreground(p.out.Color("#4ade80"))
	} else {
		verdict = verdict.Foreground(p.out.Color("#f87171"))
	}
	_, err := fmt.Fprintln(p.out, verdict)
	return err
}
