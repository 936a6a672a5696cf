package validate

import (
	"testing"

	"github.com/petrijr/formflow/pkg/api"
)

func feedbackQuestion(opts api.FeedbackOptions) api.Question {
	return api.Question{ID: "contact", Type: api.QuestionFeedback, Feedback: &opts}
}

func TestFeedbackMissingRequiredFields(t *testing.T) {
	q := feedbackQuestion(api.FeedbackOptions{
		FirstName: api.FeedbackField{Enabled: true, Required: true},
		LastName:  api.FeedbackField{Enabled: true, Required: true},
		Email:     api.FeedbackField{Enabled: true, Required: false},
	})

	err := Feedback(q, *answer(map[string]string{"email": "dev@example.com"}))
	assertValidation(t, err, "Please fill in the required fields: First Name, Last Name")
}

func TestFeedbackBlankRequiredFieldCounts(t *testing.T) {
	q := feedbackQuestion(api.FeedbackOptions{
		FirstName: api.FeedbackField{Enabled: true, Required: true},
	})

	err := Feedback(q, *answer(map[string]string{"firstName": "   "}))
	assertValidation(t, err, "Please fill in the required fields: First Name")
}

func TestFeedbackDisabledRequiredFieldIgnored(t *testing.T) {
	// required without enabled must not gate the form.
	q := feedbackQuestion(api.FeedbackOptions{
		Company: api.FeedbackField{Enabled: false, Required: true},
	})

	if err := Feedback(q, *answer(map[string]string{})); err != nil {
		t.Fatalf("disabled field enforced: %v", err)
	}
}

func TestFeedbackEmailFormat(t *testing.T) {
	q := feedbackQuestion(api.FeedbackOptions{
		Email: api.FeedbackField{Enabled: true, Required: true},
	})

	err := Feedback(q, *answer(map[string]string{"email": "nope"}))
	assertValidation(t, err, "Please enter a valid email address")

	if err := Feedback(q, *answer(map[string]string{"email": "dev@example.com"})); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
}

func TestFeedbackRequiredCheckBeforeEmailFormat(t *testing.T) {
	q := feedbackQuestion(api.FeedbackOptions{
		FirstName: api.FeedbackField{Enabled: true, Required: true},
		Email:     api.FeedbackField{Enabled: true, Required: false},
	})

	// Both problems present: the missing-fields message wins.
	err := Feedback(q, *answer(map[string]string{"email": "nope"}))
	assertValidation(t, err, "Please fill in the required fields: First Name")
}

func TestFeedbackOptionalEmptyEmailAccepted(t *testing.T) {
	q := feedbackQuestion(api.FeedbackOptions{
		Email: api.FeedbackField{Enabled: true, Required: false},
	})

	if err := Feedback(q, *answer(map[string]string{"email": ""})); err != nil {
		t.Fatalf("empty optional email rejected: %v", err)
	}
}

func TestFeedbackAcceptsAnyKeyedMap(t *testing.T) {
	q := feedbackQuestion(api.FeedbackOptions{
		Email: api.FeedbackField{Enabled: true, Required: true},
	})

	// Decoded YAML/JSON produces map[string]any.
	if err := Feedback(q, *answer(map[string]any{"email": "dev@example.com"})); err != nil {
		t.Fatalf("map[string]any form rejected: %v", err)
	}
}
