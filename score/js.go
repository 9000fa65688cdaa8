package score

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/pagegrade"
)

var _ pagegrade.Evaluator = (*JSEvaluator)(nil)

// MaxConsoleLogs is the most console.log calls a script may carry.
const MaxConsoleLogs = 5

var (
	jsEval          = regexp.MustCompile(`\beval\s*\(`)
	jsDocumentWrite = regexp.MustCompile(`\bdocument\.write(?:ln)?\s*\(`)
	jsLetConst      = regexp.MustCompile(`\b(?:let|const)\s+[\w$\[{]`)
	jsVar           = regexp.MustCompile(`\bvar\s+[\w$\[{]`)
	jsStrict        = regexp.MustCompile(`["']use strict["']`)
	jsModule        = regexp.MustCompile(`(?m)^\s*(?:import|export)\b`)
	jsConsoleLog    = regexp.MustCompile(`\bconsole\.log\s*\(`)
	jsOnAssign      = regexp.MustCompile(`\.on[a-z]+\s*=[^=]`)
)

// JSEvaluator scores script content. Linter is optional; without it the
// syntax rule is left out.
type JSEvaluator struct {
	Linter pagegrade.Linter
}

// NewJSEvaluator returns a JSEvaluator using linter for syntax checks.
func NewJSEvaluator(linter pagegrade.Linter) *JSEvaluator {
	return &JSEvaluator{Linter: linter}
}

type script struct {
	src    string
	issues []pagegrade.LintIssue
}

// Evaluate scores content. Empty content scores zero.
func (e *JSEvaluator) Evaluate(ctx context.Context, content string) (*pagegrade.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return Missing("js-present", "No JavaScript found"), nil
	}

	s := &script{src: content}
	rules := jsRules
	if e.Linter != nil {
		s.issues = e.Linter.Lint(content)
		rules = append([]Rule[*script]{jsSyntaxRule}, jsRules...)
	}
	return Evaluate(s, rules), nil
}

var jsSyntaxRule = Rule[*script]{
	Name:   "js-syntax",
	Weight: 25,
	Check:  func(s *script) bool { return len(s.issues) == 0 },
	Pass:   "JavaScript parses cleanly",
	Explain: func(s *script) string {
		return issueMessage("JavaScript", s.issues)
	},
}

var jsRules = []Rule[*script]{
	{
		Name:   "js-no-eval",
		Weight: 15,
		Check:  func(s *script) bool { return !jsEval.MatchString(s.src) },
		Pass:   "No eval()",
		Fail:   "Avoid eval()",
	},
	{
		Name:   "js-no-document-write",
		Weight: 10,
		Check:  func(s *script) bool { return !jsDocumentWrite.MatchString(s.src) },
		Pass:   "No document.write()",
		Fail:   "Avoid document.write()",
	},
	{
		Name:   "js-block-scope",
		Weight: 10,
		Check: func(s *script) bool {
			return jsLetConst.MatchString(s.src) || !jsVar.MatchString(s.src)
		},
		Pass: "Uses let/const",
		Fail: "Use let and const instead of var",
	},
	{
		Name:   "js-strict",
		Weight: 15,
		Check: func(s *script) bool {
			return jsStrict.MatchString(s.src) || jsModule.MatchString(s.src)
		},
		Pass: "Uses strict mode or modules",
		Fail: "Enable strict mode or use ES modules",
	},
	{
		Name:   "js-console",
		Weight: 10,
		Check:  func(s *script) bool { return len(jsConsoleLog.FindAllString(s.src, -1)) <= MaxConsoleLogs },
		Pass:   "Little console logging",
		Fail:   fmt.Sprintf("Remove debug console.log calls (more than %d)", MaxConsoleLogs),
	},
	{
		Name:   "js-event-listeners",
		Weight: 15,
		Check: func(s *script) bool {
			return strings.Contains(s.src, "addEventListener") || !jsOnAssign.MatchString(s.src)
		},
		Pass: "Uses addEventListener",
		Fail: "Attach events with addEventListener instead of on* properties",
	},
}
