package api

import (
	"errors"
	"fmt"
)

// ErrSessionEnded is returned by Session.Next and Session.Back after the
// session has reached a terminal state.
var ErrSessionEnded = errors.New("session has ended")

// ValidationKind classifies a recoverable validation failure.
type ValidationKind string

const (
	ValidationRequired     ValidationKind = "required-missing"
	ValidationTypeMismatch ValidationKind = "type-mismatch"
	ValidationRange        ValidationKind = "range-violation"
	ValidationPattern      ValidationKind = "pattern-mismatch"
)

// ValidationError reports a rejected candidate answer. It is recoverable:
// the session stays on the same question and the message is meant to be
// shown to the respondent.
type ValidationError struct {
	QuestionID string
	Kind       ValidationKind
	Message    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for the given question.
func NewValidationError(questionID string, kind ValidationKind, message string) error {
	return &ValidationError{QuestionID: questionID, Kind: kind, Message: message}
}

// IsValidationError returns the typed error if err is (or wraps) a
// ValidationError.
func IsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// ConfigError reports a fatal configuration problem: an unknown question
// type, a broken reference, or a structurally invalid survey. Unlike
// validation errors it is not recoverable within a session.
type ConfigError struct {
	SurveyID string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.SurveyID == "" {
		return "invalid survey config: " + e.Reason
	}
	return fmt.Sprintf("invalid survey config %q: %s", e.SurveyID, e.Reason)
}

// NewConfigError builds a ConfigError for the given survey.
func NewConfigError(surveyID, reason string) error {
	return &ConfigError{SurveyID: surveyID, Reason: reason}
}

// IsConfigError returns the typed error if err is (or wraps) a ConfigError.
func IsConfigError(err error) (*ConfigError, bool) {
	var c *ConfigError
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}
