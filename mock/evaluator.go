package mock

import (
	"context"

	"github.com/fwojciec/pagegrade"
)

var (
	_ pagegrade.Evaluator = (*Evaluator)(nil)
	_ pagegrade.Linter    = (*Linter)(nil)
)

// Evaluator is a mock implementation of pagegrade.Evaluator.
type Evaluator struct {
	EvaluateFn func(ctx context.Context, content string) (*pagegrade.Evaluation, error)
}

func (e *Evaluator) Evaluate(ctx context.Context, content string) (*pagegrade.Evaluation, error) {
	return e.EvaluateFn(ctx, content)
}

// Linter is a mock implementation of pagegrade.Linter.
type Linter struct {
	LintFn func(src string) []pagegrade.LintIssue
}

func (l *Linter) Lint(src string) []pagegrade.LintIssue {
	return l.LintFn(src)
}
