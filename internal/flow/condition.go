// Package flow holds the pure navigation logic of a survey: evaluating jump
// conditions against recorded answers and resolving the next question id.
// Nothing in this package mutates state; the stateful session in
// internal/engine drives it.
package flow

import (
	"fmt"
	"strings"

	"github.com/petrijr/formflow/pkg/api"
)

// Evaluate reports whether the condition holds against the recorded answers.
// A condition referencing an unanswered question evaluates to false; it never
// errors. Identical inputs always yield identical results.
func Evaluate(cond api.Condition, answers map[string]api.Answer) bool {
	ans, ok := answers[cond.ElementID]
	if !ok {
		return false
	}

	switch cond.Operator {
	case api.OpEquals:
		return equalsMatch(ans.Value, cond.Value)
	case api.OpNotEquals:
		return !equalsMatch(ans.Value, cond.Value)
	case api.OpContains:
		return containsMatch(ans.Value, cond.Value)
	case api.OpNotContains:
		return !containsMatch(ans.Value, cond.Value)
	default:
		return false
	}
}

// equalsMatch: list answers test membership of the single condition value;
// scalar answers compare directly.
func equalsMatch(answer, cond any) bool {
	if list, ok := stringList(answer); ok {
		s, isStr := cond.(string)
		if !isStr {
			return false
		}
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	}

	as, aOK := answer.(string)
	cs, cOK := cond.(string)
	if aOK && cOK {
		return as == cs
	}
	return false
}

// containsMatch: list answers test whether any element contains the condition
// value's string form; scalar answers do a substring test on their string
// form. A list-valued condition is joined with commas before comparison.
func containsMatch(answer, cond any) bool {
	needle := conditionString(cond)
	if list, ok := stringList(answer); ok {
		for _, v := range list {
			if strings.Contains(v, needle) {
				return true
			}
		}
		return false
	}
	return strings.Contains(stringify(answer), needle)
}

// stringList normalizes []string and []any answers to []string.
func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, len(list))
		for i, e := range list {
			out[i] = stringify(e)
		}
		return out, true
	}
	return nil, false
}

func conditionString(v any) string {
	if list, ok := stringList(v); ok {
		return strings.Join(list, ",")
	}
	return stringify(v)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
