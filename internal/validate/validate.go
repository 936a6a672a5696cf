// Package validate holds the pure per-type answer validation rules.
// Each validator returns nil for a valid candidate or a *api.ValidationError
// describing why it was rejected. Validators never mutate anything; the
// session in internal/engine composes them and short-circuits on the first
// failure.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/petrijr/formflow/pkg/api"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Candidate runs the full validation chain for a question: the required
// check first, then the type-specific rules. An unknown question type is a
// configuration problem and yields a *api.ConfigError, not a validation
// error.
func Candidate(q api.Question, ans *api.Answer) error {
	if err := Required(q, ans); err != nil {
		return err
	}
	if ans == nil {
		return nil
	}

	switch q.Type {
	case api.QuestionText:
		return Text(q, *ans)
	case api.QuestionFeedback:
		return Feedback(q, *ans)
	case api.QuestionChoice, api.QuestionInfo, api.QuestionSocial:
		return nil
	default:
		return api.NewConfigError("", fmt.Sprintf("question %q has unknown type %q", q.ID, q.Type))
	}
}

// Required rejects an absent or empty answer when the question demands one.
func Required(q api.Question, ans *api.Answer) error {
	if !q.Required {
		return nil
	}

	if ans == nil || ans.Value == nil || ans.Value == "" {
		return api.NewValidationError(q.ID, api.ValidationRequired, requiredMessage(q.Type))
	}

	switch v := ans.Value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return api.NewValidationError(q.ID, api.ValidationRequired, "Please enter an answer")
		}
	case []string:
		if len(v) == 0 {
			return api.NewValidationError(q.ID, api.ValidationRequired, "Please select at least one option")
		}
	case []any:
		if len(v) == 0 {
			return api.NewValidationError(q.ID, api.ValidationRequired, "Please select at least one option")
		}
	}

	return nil
}

func requiredMessage(t api.QuestionType) string {
	switch t {
	case api.QuestionChoice:
		return "Please select one of the options"
	case api.QuestionFeedback:
		return "Please fill in the required fields"
	default:
		return "Please enter an answer"
	}
}

// Text applies the question's validation block to a string answer. It only
// looks at non-empty trimmed strings; emptiness is the required check's job.
func Text(q api.Question, ans api.Answer) error {
	value, ok := ans.Value.(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if q.Text == nil {
		return nil
	}

	if max := q.Text.MaxLength; max > 0 && len([]rune(trimmed)) > max {
		return api.NewValidationError(q.ID, api.ValidationRange,
			fmt.Sprintf("Answer must be at most %d characters", max))
	}

	v := q.Text.Validation
	if v == nil {
		return nil
	}

	switch v.Type {
	case "number":
		return validateNumber(q.ID, trimmed, v)
	case "email":
		if !emailPattern.MatchString(trimmed) {
			return api.NewValidationError(q.ID, api.ValidationPattern,
				messageOr(v, "Please enter a valid email address"))
		}
	}

	if v.Pattern != "" {
		re, err := regexp.Compile(v.Pattern)
		if err != nil {
			return api.NewConfigError("", fmt.Sprintf("question %q has invalid validation pattern: %v", q.ID, err))
		}
		if !re.MatchString(trimmed) {
			return api.NewValidationError(q.ID, api.ValidationPattern,
				messageOr(v, "Answer does not match the expected format"))
		}
	}

	return nil
}

func validateNumber(questionID, value string, v *api.TextValidation) error {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return api.NewValidationError(questionID, api.ValidationTypeMismatch,
			messageOr(v, "Please enter a valid number"))
	}

	if v.Min != nil && n < *v.Min {
		return api.NewValidationError(questionID, api.ValidationRange,
			messageOr(v, fmt.Sprintf("Value must be at least %s", formatBound(*v.Min))))
	}
	if v.Max != nil && n > *v.Max {
		return api.NewValidationError(questionID, api.ValidationRange,
			messageOr(v, fmt.Sprintf("Value must be at most %s", formatBound(*v.Max))))
	}
	return nil
}

func messageOr(v *api.TextValidation, fallback string) string {
	if v.ErrorMessage != "" {
		return v.ErrorMessage
	}
	return fallback
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
