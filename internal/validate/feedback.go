package validate

import (
	"strings"

	"github.com/petrijr/formflow/pkg/api"
)

// feedbackFieldOrder fixes the four contact-form fields and the order their
// display names appear in error messages.
var feedbackFieldOrder = []string{"firstName", "lastName", "email", "company"}

// Feedback checks a feedback-form answer: every enabled+required field must
// carry a non-blank value, and an enabled email field with any value must
// look like an email address. Missing required fields are reported together;
// the email-format check only runs once the required check has passed.
func Feedback(q api.Question, ans api.Answer) error {
	form, ok := formData(ans.Value)
	if !ok {
		return nil
	}
	if q.Feedback == nil {
		return nil
	}

	var missing []string
	for _, name := range feedbackFieldOrder {
		field := feedbackField(q.Feedback, name)
		if !field.Enabled || !field.Required {
			continue
		}
		if strings.TrimSpace(form[name]) == "" {
			missing = append(missing, displayName(name))
		}
	}
	if len(missing) > 0 {
		return api.NewValidationError(q.ID, api.ValidationRequired,
			"Please fill in the required fields: "+strings.Join(missing, ", "))
	}

	email := strings.TrimSpace(form["email"])
	if feedbackField(q.Feedback, "email").Enabled && email != "" {
		if !emailPattern.MatchString(email) {
			return api.NewValidationError(q.ID, api.ValidationPattern,
				"Please enter a valid email address")
		}
	}

	return nil
}

func feedbackField(opts *api.FeedbackOptions, name string) api.FeedbackField {
	switch name {
	case "firstName":
		return opts.FirstName
	case "lastName":
		return opts.LastName
	case "email":
		return opts.Email
	case "company":
		return opts.Company
	}
	return api.FeedbackField{}
}

func formData(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, e := range m {
			if s, ok := e.(string); ok {
				out[k] = s
			}
		}
		return out, true
	}
	return nil, false
}

// displayName turns a camelCase field name into its human form:
// "firstName" becomes "First Name".
func displayName(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
