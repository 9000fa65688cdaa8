package score

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/pagegrade"
)

var _ pagegrade.Evaluator = (*CSSEvaluator)(nil)

// Limits used by the CSS rules.
const (
	MaxImportant      = 5
	MaxIDSelectors    = 10
	MaxVendorPrefixes = 20
)

var (
	cssComment      = regexp.MustCompile(`(?s)/\*.*?\*/`)
	cssFlexGrid     = regexp.MustCompile(`(?i)display\s*:\s*(?:inline-)?(?:flex|grid)\b`)
	cssCustomProp   = regexp.MustCompile(`(?:^|[{;\s])--[\w-]+\s*:|var\(\s*--`)
	cssIDSelector   = regexp.MustCompile(`#-?[A-Za-z_][\w-]*`)
	cssVendorPrefix = regexp.MustCompile(`(?i)-(?:webkit|moz|ms|o)-`)
)

// CSSEvaluator scores stylesheet content. Linter is optional; without it
// the syntax rule is left out.
type CSSEvaluator struct {
	Linter pagegrade.Linter
}

// NewCSSEvaluator returns a CSSEvaluator using linter for syntax checks.
func NewCSSEvaluator(linter pagegrade.Linter) *CSSEvaluator {
	return &CSSEvaluator{Linter: linter}
}

type stylesheet struct {
	src       string // comments stripped
	selectors []string
	issues    []pagegrade.LintIssue
}

// Evaluate scores content. Empty content scores zero.
func (e *CSSEvaluator) Evaluate(ctx context.Context, content string) (*pagegrade.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return Missing("css-present", "No CSS found"), nil
	}

	s := &stylesheet{src: cssComment.ReplaceAllString(content, "")}
	s.selectors = selectorPreludes(s.src)

	rules := cssRules
	if e.Linter != nil {
		s.issues = e.Linter.Lint(content)
		rules = append([]Rule[*stylesheet]{cssSyntaxRule}, cssRules...)
	}
	return Evaluate(s, rules), nil
}

var cssSyntaxRule = Rule[*stylesheet]{
	Name:   "css-syntax",
	Weight: 25,
	Check:  func(s *stylesheet) bool { return len(s.issues) == 0 },
	Pass:   "CSS parses cleanly",
	Explain: func(s *stylesheet) string {
		return issueMessage("CSS", s.issues)
	},
}

var cssRules = []Rule[*stylesheet]{
	{
		Name:   "css-important",
		Weight: 10,
		Check:  func(s *stylesheet) bool { return strings.Count(strings.ToLower(s.src), "!important") <= MaxImportant },
		Pass:   "!important used sparingly",
		Fail:   fmt.Sprintf("Avoid overusing !important (more than %d uses)", MaxImportant),
	},
	{
		Name:   "css-media-queries",
		Weight: 15,
		Check:  func(s *stylesheet) bool { return strings.Contains(strings.ToLower(s.src), "@media") },
		Pass:   "Uses media queries",
		Fail:   "Add media queries for responsive layouts",
	},
	{
		Name:   "css-modern-layout",
		Weight: 15,
		Check:  func(s *stylesheet) bool { return cssFlexGrid.MatchString(s.src) },
		Pass:   "Uses flexbox or grid",
		Fail:   "Use flexbox or grid for layout",
	},
	{
		Name:   "css-custom-properties",
		Weight: 15,
		Check:  func(s *stylesheet) bool { return cssCustomProp.MatchString(s.src) },
		Pass:   "Uses custom properties",
		Fail:   "Use CSS custom properties for shared values",
	},
	{
		Name:   "css-id-selectors",
		Weight: 10,
		Check: func(s *stylesheet) bool {
			n := 0
			for _, sel := range s.selectors {
				n += len(cssIDSelector.FindAllString(sel, -1))
			}
			return n <= MaxIDSelectors
		},
		Pass: "ID selectors used sparingly",
		Fail: fmt.Sprintf("Prefer classes over ID selectors (more than %d found)", MaxIDSelectors),
	},
	{
		Name:   "css-vendor-prefixes",
		Weight: 10,
		Check:  func(s *stylesheet) bool { return len(cssVendorPrefix.FindAllString(s.src, -1)) <= MaxVendorPrefixes },
		Pass:   "Few vendor prefixes",
		Fail:   "Reduce vendor-prefixed properties; rely on autoprefixing",
	},
}

// selectorPreludes returns the text before each '{' that starts a rule,
// skipping at-rule preludes such as @media.
func selectorPreludes(src string) []string {
	var out []string
	start := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '{':
			prelude := strings.TrimSpace(src[start:i])
			if prelude != "" && !strings.HasPrefix(prelude, "@") {
				out = append(out, prelude)
			}
			start = i + 1
		case '}', ';':
			start = i + 1
		}
	}
	return out
}

func issueMessage(kind string, issues []pagegrade.LintIssue) string {
	first := issues[0]
	return fmt.Sprintf("%s has %d syntax error(s); first at line %d: %s", kind, len(issues), first.Line, first.Message)
}
