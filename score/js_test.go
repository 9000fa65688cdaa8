package score_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/mock"
	"github.com/fwojciec/pagegrade/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modernJS = `'use strict';
const button = document.querySelector('#go');
let count = 0;
button.addEventListener('click', () => { count += 1; });`

func TestJSEvaluator_Evaluate(t *testing.T) {
	t.Parallel()

	t.Run("modern script scores full marks", func(t *testing.T) {
		t.Parallel()

		ev, err := score.NewJSEvaluator(nil).Evaluate(context.Background(), modernJS)

		require.NoError(t, err)
		assert.Equal(t, 100, ev.Score)
	})

	t.Run("modules count as strict", func(t *testing.T) {
		t.Parallel()

		ev, err := score.NewJSEvaluator(nil).Evaluate(context.Background(), "import { a } from './a.js';\nconst b = a;\n")

		require.NoError(t, err)
		assert.True(t, checkByName(ev, "js-strict").Passed)
	})

	t.Run("empty content scores zero", func(t *testing.T) {
		t.Parallel()

		ev, err := score.NewJSEvaluator(nil).Evaluate(context.Background(), "")

		require.NoError(t, err)
		assert.Zero(t, ev.Score)
		assert.Equal(t, []string{"No JavaScript found"}, ev.Feedback())
	})

	t.Run("flags legacy patterns", func(t *testing.T) {
		t.Parallel()

		src := `var x = eval("1+1");
document.write("<p>" + x + "</p>");
window.onload = function () {};
` + strings.Repeat("console.log(x);\n", 6)

		ev, err := score.NewJSEvaluator(nil).Evaluate(context.Background(), src)

		require.NoError(t, err)
		assert.Zero(t, ev.Score)
		assert.Equal(t, []string{
			"Avoid eval()",
			"Avoid document.write()",
			"Use let and const instead of var",
			"Enable strict mode or use ES modules",
			"Remove debug console.log calls (more than 5)",
			"Attach events with addEventListener instead of on* properties",
		}, ev.Feedback())
	})

	t.Run("comparison is not a handler assignment", func(t *testing.T) {
		t.Parallel()

		ev, err := score.NewJSEvaluator(nil).Evaluate(context.Background(), "'use strict';\nif (a.one === 1) {}\n")

		require.NoError(t, err)
		assert.True(t, checkByName(ev, "js-event-listeners").Passed)
	})

	t.Run("includes syntax issues from the linter", func(t *testing.T) {
		t.Parallel()

		linter := &mock.Linter{
			LintFn: func(string) []pagegrade.LintIssue {
				return []pagegrade.LintIssue{{Line: 2, Message: "unexpected ;"}}
			},
		}

		ev, err := score.NewJSEvaluator(linter).Evaluate(context.Background(), modernJS)

		require.NoError(t, err)
		assert.Equal(t, 75, ev.Score)
		assert.False(t, checkByName(ev, "js-syntax").Passed)
	})
}
