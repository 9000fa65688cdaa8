package pagegrade

import "context"

// Check is the outcome of one weighted rule.
type Check struct {
	Name    string `json:"name"`
	Weight  int    `json:"weight"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Evaluation is the scored result of checking one kind of content.
type Evaluation struct {
	// Score ranges from 0 to 100.
	Score  int     `json:"score"`
	Checks []Check `json:"checks"`
}

// Feedback returns the messages of failed checks in rule order.
func (e *Evaluation) Feedback() []string {
	if e == nil {
		return nil
	}
	var out []string
	for _, c := range e.Checks {
		if !c.Passed {
			out = append(out, c.Message)
		}
	}
	return out
}

// Evaluator scores one kind of content (HTML, CSS or JavaScript).
type Evaluator interface {
	Evaluate(ctx context.Context, content string) (*Evaluation, error)
}

// LintIssue is a syntax problem found in a stylesheet or script.
type LintIssue struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Linter reports syntax problems in CSS or JavaScript source.
type Linter interface {
	Lint(src string) []LintIssue
}
