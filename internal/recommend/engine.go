// Package recommend implements a small forward-chaining rule system that maps
// observed symptoms to a candidate herb set and an explanatory trace.
package recommend

import (
	"fmt"
	"strings"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/herb"
)

// Recommendation is one herb together with the rule that first contributed it.
type Recommendation struct {
	Herb string `json:"herb"`
	Rule string `json:"rule"`
}

// Result is the outcome of one inference. Justifications and Fired are
// parallel and follow firing order.
type Result struct {
	Herbs          []Recommendation `json:"herbs"`
	Justifications []string         `json:"justifications"`
	Fired          []string         `json:"fired"`
	Formula        string           `json:"formula"`
	Confidence     float64          `json:"confidence"`
	Advice         []string         `json:"advice,omitempty"`
}

// HerbNames returns the recommended herbs in contribution order.
func (r Result) HerbNames() []string {
	out := make([]string, len(r.Herbs))
	for i, h := range r.Herbs {
		out[i] = h.Herb
	}
	return out
}

// Diagnosis is the compact formula/composition/confidence view.
type Diagnosis struct {
	Formula     string   `json:"formula"`
	Composition []string `json:"composition"`
	Confidence  float64  `json:"confidence"`
}

// Diagnosis collapses the result into its compact view.
func (r Result) Diagnosis() Diagnosis {
	return Diagnosis{Formula: r.Formula, Composition: r.HerbNames(), Confidence: r.Confidence}
}

// Engine evaluates an ordered rule table.
type Engine struct {
	rules []Rule
}

// New returns an Engine over rules, or over DefaultRules when rules is empty.
// A table without a fallback rule that contributes herbs gets FallbackRule
// appended, so Infer never returns an empty herb set.
func New(rules ...Rule) *Engine {
	if len(rules) == 0 {
		return &Engine{rules: DefaultRules()}
	}
	table := make([]Rule, len(rules), len(rules)+1)
	copy(table, rules)
	if !hasFallback(table) {
		table = append(table, FallbackRule())
	}
	return &Engine{rules: table}
}

// Rules returns the table the engine evaluates.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Infer fires every rule whose triggers intersect symptoms, in table order,
// then the fallback rules if nothing fired. An empty symptom set is valid.
func (e *Engine) Infer(symptoms []Symptom) Result {
	set := make(map[Symptom]struct{}, len(symptoms))
	for _, s := range symptoms {
		set[s] = struct{}{}
	}

	var res Result
	seen := make(map[string]struct{})
	var formulas []string
	fire := func(r Rule, hits []Symptom) {
		for _, h := range r.Herbs {
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			res.Herbs = append(res.Herbs, Recommendation{Herb: h, Rule: r.ID})
		}
		res.Fired = append(res.Fired, r.ID)
		res.Justifications = append(res.Justifications, justify(r, hits))
		res.Advice = append(res.Advice, r.Advice...)
		formulas = append(formulas, r.Formula)
		res.Confidence = max(res.Confidence, r.Confidence)
	}

	for _, r := range e.rules {
		if r.Fallback {
			continue
		}
		if hits := r.matched(set); len(hits) > 0 {
			fire(r, hits)
		}
	}
	if len(res.Fired) == 0 {
		for _, r := range e.rules {
			if r.Fallback {
				fire(r, nil)
			}
		}
	}
	res.Formula = strings.Join(formulas, " + ")
	return res
}

// Recommend runs Infer and checks that every recommended herb exists in cat.
func (e *Engine) Recommend(cat herb.Catalog, symptoms []Symptom) (Result, error) {
	res := e.Infer(symptoms)
	for _, h := range res.Herbs {
		if _, ok := cat.Lookup(h.Herb); !ok {
			return Result{}, fmt.Errorf("%w: rule %s recommends %q", apperr.ErrUnknownHerb, h.Rule, h.Herb)
		}
	}
	return res, nil
}

func justify(r Rule, hits []Symptom) string {
	if len(hits) == 0 {
		return fmt.Sprintf("%s: %s.", r.Pattern, r.Justification)
	}
	tags := make([]string, len(hits))
	for i, h := range hits {
		tags[i] = string(h)
	}
	return fmt.Sprintf("%s (%s): %s.", r.Pattern, strings.Join(tags, ", "), r.Justification)
}
