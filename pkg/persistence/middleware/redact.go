package middleware

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/ports"
)

// Mask replaces every redacted symbol.
const Mask = '*'

type redactMiddleware struct {
	next    ports.RunStore
	pattern *regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks, before saving, every
// input symbol matching pattern, both in the run input and in its trace.
// Verdicts, states and outcomes are kept so the run stays diagnosable.
func NewRedactMiddleware(pattern string) (Middleware, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid redact pattern: %w", err)
	}
	return func(next ports.RunStore) ports.RunStore {
		return &redactMiddleware{next: next, pattern: re}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, run *domain.Run) error {
	// Clone so the caller's run keeps its real input.
	cloned := *run
	cloned.Input = m.maskString(run.Input)
	cloned.Result.Trace = make([]domain.Step, len(run.Result.Trace))
	for i, step := range run.Result.Trace {
		step.Symbol = m.maskSymbol(step.Symbol)
		cloned.Result.Trace[i] = step
	}

	return m.next.Save(ctx, &cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, runID string) (*domain.Run, error) {
	return m.next.Load(ctx, runID)
}

func (m *redactMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) maskSymbol(s domain.Symbol) domain.Symbol {
	if m.pattern.MatchString(string(s)) {
		return Mask
	}
	return s
}

func (m *redactMiddleware) maskString(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		b.WriteRune(rune(m.maskSymbol(domain.Symbol(r))))
	}
	return b.String()
}
