package api

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// QuestionType discriminates the Question union.
type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionChoice   QuestionType = "choice"
	QuestionFeedback QuestionType = "feedback"
	QuestionInfo     QuestionType = "info"
	QuestionSocial   QuestionType = "social"
)

// KnownQuestionType reports whether t is one of the supported question types.
func KnownQuestionType(t QuestionType) bool {
	switch t {
	case QuestionText, QuestionChoice, QuestionFeedback, QuestionInfo, QuestionSocial:
		return true
	}
	return false
}

// Operator is a jump-condition comparison operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
)

// ConditionAction describes what happens when a condition is satisfied.
// The only supported action type is "jump".
type ConditionAction struct {
	Type      string `yaml:"type" json:"type"`
	ElementID string `yaml:"elementId" json:"elementId"`
}

// Condition is a jump condition attached to a question's next control.
// Value may be a single string or a list of strings.
//
// The referenced ElementID must name a question that has been answered by
// evaluation time; an unanswered reference evaluates to false rather than
// erroring.
type Condition struct {
	ElementID string          `yaml:"elementId" json:"elementId"`
	Operator  Operator        `yaml:"operator" json:"operator"`
	Value     any             `yaml:"value" json:"value"`
	Action    ConditionAction `yaml:"action" json:"action"`
}

// NextButton configures the "next" control of a question: display text and
// style for the renderer, an optional external redirect URL, and an optional
// jump condition.
type NextButton struct {
	Text      string     `yaml:"text,omitempty" json:"text,omitempty"`
	Style     string     `yaml:"style,omitempty" json:"style,omitempty"`
	Icon      string     `yaml:"icon,omitempty" json:"icon,omitempty"`
	URL       string     `yaml:"url,omitempty" json:"url,omitempty"`
	Condition *Condition `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// TextValidation constrains the value of a text question.
// Min and Max are pointers so that zero bounds are distinguishable from
// unset bounds.
type TextValidation struct {
	Type         string   `yaml:"type,omitempty" json:"type,omitempty"` // "number", "email" or "text"
	Min          *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max          *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Pattern      string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	ErrorMessage string   `yaml:"errorMessage,omitempty" json:"errorMessage,omitempty"`
}

// TextOptions holds the text-variant fields of a Question.
type TextOptions struct {
	Placeholder string          `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Multiline   bool            `yaml:"multiline,omitempty" json:"multiline,omitempty"`
	MaxLength   int             `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Validation  *TextValidation `yaml:"validation,omitempty" json:"validation,omitempty"`
}

// ChoiceOption is one selectable option of a choice question.
type ChoiceOption struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// ChoiceOptions holds the choice-variant fields of a Question.
type ChoiceOptions struct {
	Options    []ChoiceOption `yaml:"options" json:"options"`
	Multiple   bool           `yaml:"multiple,omitempty" json:"multiple,omitempty"`
	AllowOther bool           `yaml:"allowOther,omitempty" json:"allowOther,omitempty"`
}

// FeedbackField configures one field of a feedback form. In config it may be
// written either as a bare boolean (enabled, not required) or as an object
// with explicit enabled/required flags.
type FeedbackField struct {
	Enabled  bool
	Required bool
}

// UnmarshalYAML accepts both the boolean shorthand and the object form.
func (f *FeedbackField) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if err := node.Decode(&b); err == nil {
		f.Enabled = b
		f.Required = false
		return nil
	}

	var obj struct {
		Enabled  bool `yaml:"enabled"`
		Required bool `yaml:"required"`
	}
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("feedback field: expected bool or {enabled, required}: %w", err)
	}
	f.Enabled = obj.Enabled
	f.Required = obj.Required
	return nil
}

// UnmarshalJSON accepts the same two forms as UnmarshalYAML.
func (f *FeedbackField) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		f.Enabled = b
		f.Required = false
		return nil
	}

	var obj struct {
		Enabled  bool `json:"enabled"`
		Required bool `json:"required"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("feedback field: expected bool or {enabled, required}: %w", err)
	}
	f.Enabled = obj.Enabled
	f.Required = obj.Required
	return nil
}

// FeedbackOptions holds the feedback-variant fields of a Question:
// the four contact-form fields.
type FeedbackOptions struct {
	FirstName FeedbackField `yaml:"firstName" json:"firstName"`
	LastName  FeedbackField `yaml:"lastName" json:"lastName"`
	Email     FeedbackField `yaml:"email" json:"email"`
	Company   FeedbackField `yaml:"company" json:"company"`
}

// InfoOptions holds the info-variant fields of a Question.
// Info questions are display-only and carry no answerable value.
type InfoOptions struct {
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// SocialLink is one share target of a social question.
type SocialLink struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// SocialOptions holds the social-variant fields of a Question.
// Social questions are display-only.
type SocialOptions struct {
	Socials []SocialLink `yaml:"socials" json:"socials"`
}

// Question is a tagged union discriminated by Type. Exactly one of the
// variant option structs (Text, Choice, Feedback, Info, Social) is non-nil
// for a well-formed question; consumers dispatch on Type.
type Question struct {
	ID          string       `yaml:"id"`
	Type        QuestionType `yaml:"type"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description,omitempty"`

	// Required gates forward navigation on a non-empty answer.
	Required bool `yaml:"required,omitempty"`
	// Hidden excludes the question from default forward traversal.
	// It stays reachable as the explicit target of a jump condition.
	Hidden bool `yaml:"hidden,omitempty"`
	// Final marks a terminal node: reaching it completes the survey.
	Final bool `yaml:"final,omitempty"`
	// Submit marks a checkpoint that flushes the answers collected so far
	// without ending the survey.
	Submit bool `yaml:"submit,omitempty"`

	NextButton *NextButton `yaml:"nextButton,omitempty"`

	Text     *TextOptions     `yaml:"-"`
	Choice   *ChoiceOptions   `yaml:"-"`
	Feedback *FeedbackOptions `yaml:"-"`
	Info     *InfoOptions     `yaml:"-"`
	Social   *SocialOptions   `yaml:"-"`
}

// questionHead mirrors Question's shared fields for two-phase decoding.
type questionHead struct {
	ID          string       `yaml:"id"`
	Type        QuestionType `yaml:"type"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Required    bool         `yaml:"required"`
	Hidden      bool         `yaml:"hidden"`
	Final       bool         `yaml:"final"`
	Submit      bool         `yaml:"submit"`
	NextButton  *NextButton  `yaml:"nextButton"`
}

// UnmarshalYAML decodes the flat on-disk form: shared fields plus the
// variant fields of the declared type, all at the same level.
func (q *Question) UnmarshalYAML(node *yaml.Node) error {
	var head questionHead
	if err := node.Decode(&head); err != nil {
		return err
	}

	q.ID = head.ID
	q.Type = head.Type
	q.Title = head.Title
	q.Description = head.Description
	q.Required = head.Required
	q.Hidden = head.Hidden
	q.Final = head.Final
	q.Submit = head.Submit
	q.NextButton = head.NextButton

	switch head.Type {
	case QuestionText:
		var opts TextOptions
		if err := node.Decode(&opts); err != nil {
			return fmt.Errorf("question %q: %w", head.ID, err)
		}
		q.Text = &opts
	case QuestionChoice:
		var opts ChoiceOptions
		if err := node.Decode(&opts); err != nil {
			return fmt.Errorf("question %q: %w", head.ID, err)
		}
		q.Choice = &opts
	case QuestionFeedback:
		var wrapper struct {
			Fields FeedbackOptions `yaml:"fields"`
		}
		if err := node.Decode(&wrapper); err != nil {
			return fmt.Errorf("question %q: %w", head.ID, err)
		}
		q.Feedback = &wrapper.Fields
	case QuestionInfo:
		var opts InfoOptions
		if err := node.Decode(&opts); err != nil {
			return fmt.Errorf("question %q: %w", head.ID, err)
		}
		q.Info = &opts
	case QuestionSocial:
		var opts SocialOptions
		if err := node.Decode(&opts); err != nil {
			return fmt.Errorf("question %q: %w", head.ID, err)
		}
		q.Social = &opts
	default:
		// Leave the variant unset; RegisterSurvey rejects unknown types
		// with a ConfigError so that bad configs fail loudly, once.
	}

	return nil
}

// DisplayOnly reports whether the question carries no answerable value.
// Info and social questions are display-only.
func (q Question) DisplayOnly() bool {
	return q.Type == QuestionInfo || q.Type == QuestionSocial
}

// JumpCondition returns the question's jump condition, if any.
func (q Question) JumpCondition() *Condition {
	if q.NextButton == nil {
		return nil
	}
	return q.NextButton.Condition
}

// RedirectURL returns the literal redirect URL of the next control, if any.
func (q Question) RedirectURL() string {
	if q.NextButton == nil {
		return ""
	}
	return q.NextButton.URL
}
