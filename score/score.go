// Package score turns weighted rule tables into evaluations and combines
// per-type scores into an overall page score.
package score

import (
	"math"

	"github.com/fwojciec/pagegrade"
)

// Rule is one weighted check against a subject of type T.
type Rule[T any] struct {
	Name   string
	Weight int
	Check  func(T) bool
	Pass   string
	Fail   string

	// Explain, when set, replaces Fail with a message built from the subject.
	Explain func(T) string
}

// Evaluate runs every rule against subject. The score is the passing
// weight as a percentage of the total weight, rounded.
func Evaluate[T any](subject T, rules []Rule[T]) *pagegrade.Evaluation {
	ev := &pagegrade.Evaluation{Checks: make([]pagegrade.Check, 0, len(rules))}
	var total, passed int
	for _, r := range rules {
		ok := r.Check(subject)
		msg := r.Pass
		if !ok {
			msg = r.Fail
			if r.Explain != nil {
				msg = r.Explain(subject)
			}
		}
		ev.Checks = append(ev.Checks, pagegrade.Check{
			Name:    r.Name,
			Weight:  r.Weight,
			Passed:  ok,
			Message: msg,
		})
		total += r.Weight
		if ok {
			passed += r.Weight
		}
	}
	if total > 0 {
		ev.Score = int(math.Round(float64(passed) * 100 / float64(total)))
	}
	return ev
}

// Missing is the evaluation of a type with no content at all.
func Missing(name, message string) *pagegrade.Evaluation {
	return &pagegrade.Evaluation{
		Score:  0,
		Checks: []pagegrade.Check{{Name: name, Weight: 1, Message: message}},
	}
}

// Weights of each type in the overall score.
const (
	HTMLWeight = 0.4
	CSSWeight  = 0.3
	JSWeight   = 0.3
)

// Combine returns the overall page score.
func Combine(html, css, js int) int {
	return int(math.Round(HTMLWeight*float64(html) + CSSWeight*float64(css) + JSWeight*float64(js)))
}

// Of returns the score of ev, or zero when ev is nil.
func Of(ev *pagegrade.Evaluation) int {
	if ev == nil {
		return 0
	}
	return ev.Score
}
