// Package tdewolff lints stylesheets and scripts with the
// github.com/tdewolff/parse tokenizers and parsers.
package tdewolff

import (
	"errors"
	"io"

	"github.com/fwojciec/pagegrade"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/tdewolff/parse/v2/js"
)

// MaxIssues caps the issues reported for one source.
const MaxIssues = 50

var (
	_ pagegrade.Linter = (*StyleLinter)(nil)
	_ pagegrade.Linter = (*ScriptLinter)(nil)
)

// StyleLinter reports CSS syntax errors. The CSS parser recovers from bad
// declarations, so one source can yield several issues.
type StyleLinter struct{}

// NewStyleLinter creates a StyleLinter.
func NewStyleLinter() *StyleLinter {
	return &StyleLinter{}
}

// Lint parses src as a stylesheet.
func (l *StyleLinter) Lint(src string) []pagegrade.LintIssue {
	var issues []pagegrade.LintIssue
	p := css.NewParser(parse.NewInputString(src), false)
	for len(issues) < MaxIssues {
		gt, _, _ := p.Next()
		if gt != css.ErrorGrammar {
			continue
		}
		err := p.Err()
		if err == nil || errors.Is(err, io.EOF) {
			break
		}
		var perr *parse.Error
		if !errors.As(err, &perr) {
			issues = append(issues, pagegrade.LintIssue{Message: err.Error()})
			break
		}
		issue := issueFrom(perr)
		if n := len(issues); n > 0 && issues[n-1] == issue {
			// A sticky error repeats at end of input.
			break
		}
		issues = append(issues, issue)
	}
	return issues
}

// ScriptLinter reports JavaScript syntax errors. The parser stops at the
// first error, so at most one issue is returned.
type ScriptLinter struct{}

// NewScriptLinter creates a ScriptLinter.
func NewScriptLinter() *ScriptLinter {
	return &ScriptLinter{}
}

// Lint parses src as an ES module or script.
func (l *ScriptLinter) Lint(src string) []pagegrade.LintIssue {
	_, err := js.Parse(parse.NewInputString(src), js.Options{})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var perr *parse.Error
	if errors.As(err, &perr) {
		return []pagegrade.LintIssue{issueFrom(perr)}
	}
	return []pagegrade.LintIssue{{Message: err.Error()}}
}

func issueFrom(err *parse.Error) pagegrade.LintIssue {
	return pagegrade.LintIssue{
		Line:    err.Line,
		Column:  err.Column,
		Message: err.Message,
	}
}
