package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/delta/pkg/domain"
)

// LoggingHooks logs every step at Debug and every verdict at Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"position", e.Step.Position,
				"symbol", e.Step.Symbol.String(),
				"from", e.Step.From.String(),
				"to", e.Step.To.String(),
				"outcome", e.Step.Outcome,
			)
		},
		OnVerdict: func(ctx context.Context, e *domain.VerdictEvent) {
			logger.InfoContext(ctx, "verdict",
				"input", e.Input,
				"verdict", e.Result.Verdict.String(),
				"consumed", e.Result.Consumed,
				"final", e.Result.Final.String(),
			)
		},
	}
}

// Chain merges hooks so each callback runs in the order given.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var steps []func(context.Context, *domain.StepEvent)
	var verdicts []func(context.Context, *domain.VerdictEvent)
	for _, h := range hooks {
		if h.OnStep != nil {
			steps = append(steps, h.OnStep)
		}
		if h.OnVerdict != nil {
			verdicts = append(verdicts, h.OnVerdict)
		}
	}

	var out domain.LifecycleHooks
	if len(steps) > 0 {
		out.OnStep = func(ctx context.Context, e *domain.StepEvent) {
			for _, fn := range steps {
				fn(ctx, e)
			}
		}
	}
	if len(verdicts) > 0 {
		out.OnVerdict = func(ctx context.Context, e *domain.VerdictEvent) {
			for _, fn := range verdicts {
				fn(ctx, e)
			}
		}
	}
	return out
}
