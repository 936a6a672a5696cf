package formflow

import (
	"fmt"

	"github.com/petrijr/formflow/pkg/api"
)

// SurveyBuilder provides a fluent API for defining surveys in code:
//
//	survey := formflow.New("churn-exit", "Before you go").
//	    Choice("reason", "Why are you leaving?", []formflow.ChoiceOption{
//	        {ID: "price", Label: "Too expensive", Value: "price"},
//	        {ID: "missing", Label: "Missing features", Value: "missing"},
//	    }, formflow.Required()).
//	    Text("details", "Anything you want to add?").
//	    Info("thanks", "Thanks for your feedback!", formflow.Final())
//
//	if err := survey.Register(engine); err != nil {
//	    log.Fatal(err)
//	}
type SurveyBuilder struct {
	cfg api.SurveyConfig
}

// ChoiceOption re-exported for builder callers.
type ChoiceOption = api.ChoiceOption

// FeedbackFields re-exported for builder callers.
type FeedbackFields = api.FeedbackOptions

// SocialLink re-exported for builder callers.
type SocialLink = api.SocialLink

// TextValidation re-exported for builder callers.
type TextValidation = api.TextValidation

// QuestionOption customizes a question added through the builder.
type QuestionOption func(*api.Question)

// Required marks the question as requiring a non-empty answer.
func Required() QuestionOption {
	return func(q *api.Question) { q.Required = true }
}

// Hidden excludes the question from default forward traversal; it stays
// reachable via an explicit jump.
func Hidden() QuestionOption {
	return func(q *api.Question) { q.Hidden = true }
}

// Final marks the question as a terminal node.
func Final() QuestionOption {
	return func(q *api.Question) { q.Final = true }
}

// Submit marks the question as a submission checkpoint.
func Submit() QuestionOption {
	return func(q *api.Question) { q.Submit = true }
}

// Description sets the question's secondary text.
func Description(text string) QuestionOption {
	return func(q *api.Question) { q.Description = text }
}

// WithNextButton sets the question's next-control descriptor.
func WithNextButton(nb api.NextButton) QuestionOption {
	return func(q *api.Question) { q.NextButton = &nb }
}

// JumpWhen attaches a jump condition to the question's next control: when
// the answer to elementID satisfies op/value, navigation jumps to targetID.
func JumpWhen(elementID string, op Operator, value any, targetID string) QuestionOption {
	return func(q *api.Question) {
		if q.NextButton == nil {
			q.NextButton = &api.NextButton{}
		}
		q.NextButton.Condition = &api.Condition{
			ElementID: elementID,
			Operator:  op,
			Value:     value,
			Action:    api.ConditionAction{Type: "jump", ElementID: targetID},
		}
	}
}

// RedirectTo sets a literal redirect URL on the question's next control.
func RedirectTo(url string) QuestionOption {
	return func(q *api.Question) {
		if q.NextButton == nil {
			q.NextButton = &api.NextButton{}
		}
		q.NextButton.URL = url
	}
}

// Validation attaches a text validation block; only meaningful on text
// questions.
func Validation(v TextValidation) QuestionOption {
	return func(q *api.Question) {
		if q.Text == nil {
			q.Text = &api.TextOptions{}
		}
		q.Text.Validation = &v
	}
}

// New creates a new survey builder with the given id and title.
// The first question added becomes the start question unless Start is
// called explicitly.
func New(id, title string) *SurveyBuilder {
	return &SurveyBuilder{
		cfg: api.SurveyConfig{
			ID:        id,
			Title:     title,
			Questions: make([]api.Question, 0),
		},
	}
}

// ID returns the survey id.
func (b *SurveyBuilder) ID() string {
	return b.cfg.ID
}

// Config returns the underlying SurveyConfig.
// Typically used when interacting with lower-level APIs.
func (b *SurveyBuilder) Config() SurveyConfig {
	return b.cfg
}

// Start overrides the start question. Without it, the survey starts at the
// first question added.
func (b *SurveyBuilder) Start(questionID string) *SurveyBuilder {
	b.cfg.StartQuestionID = questionID
	return b
}

// Theme sets the display theme carried in the config.
func (b *SurveyBuilder) Theme(t Theme) *SurveyBuilder {
	theme := t
	b.cfg.Theme = &theme
	return b
}

// Metadata sets free-form metadata propagated into every response.
func (b *SurveyBuilder) Metadata(meta map[string]any) *SurveyBuilder {
	b.cfg.Metadata = meta
	return b
}

// Text appends a free-text question.
func (b *SurveyBuilder) Text(id, title string, opts ...QuestionOption) *SurveyBuilder {
	q := api.Question{ID: id, Type: api.QuestionText, Title: title, Text: &api.TextOptions{}}
	return b.add(q, opts)
}

// Choice appends a single- or multi-choice question.
func (b *SurveyBuilder) Choice(id, title string, options []ChoiceOption, opts ...QuestionOption) *SurveyBuilder {
	q := api.Question{
		ID: id, Type: api.QuestionChoice, Title: title,
		Choice: &api.ChoiceOptions{Options: options},
	}
	return b.add(q, opts)
}

// MultiChoice appends a choice question allowing several selections.
func (b *SurveyBuilder) MultiChoice(id, title string, options []ChoiceOption, opts ...QuestionOption) *SurveyBuilder {
	q := api.Question{
		ID: id, Type: api.QuestionChoice, Title: title,
		Choice: &api.ChoiceOptions{Options: options, Multiple: true},
	}
	return b.add(q, opts)
}

// Feedback appends a contact-form question.
func (b *SurveyBuilder) Feedback(id, title string, fields FeedbackFields, opts ...QuestionOption) *SurveyBuilder {
	q := api.Question{
		ID: id, Type: api.QuestionFeedback, Title: title,
		Feedback: &fields,
	}
	return b.add(q, opts)
}

// Info appends a display-only informational question.
func (b *SurveyBuilder) Info(id, title string, opts ...QuestionOption) *SurveyBuilder {
	q := api.Question{ID: id, Type: api.QuestionInfo, Title: title, Info: &api.InfoOptions{}}
	return b.add(q, opts)
}

// Social appends a display-only social-share question.
func (b *SurveyBuilder) Social(id, title string, links []SocialLink, opts ...QuestionOption) *SurveyBuilder {
	q := api.Question{
		ID: id, Type: api.QuestionSocial, Title: title,
		Social: &api.SocialOptions{Socials: links},
	}
	return b.add(q, opts)
}

func (b *SurveyBuilder) add(q api.Question, opts []QuestionOption) *SurveyBuilder {
	if q.ID == "" {
		panic("formflow: question id must not be empty")
	}
	for _, opt := range opts {
		opt(&q)
	}
	b.cfg.Questions = append(b.cfg.Questions, q)
	if b.cfg.StartQuestionID == "" {
		b.cfg.StartQuestionID = q.ID
	}
	return b
}

// Register registers the built survey with the given engine.
func (b *SurveyBuilder) Register(eng Engine) error {
	return eng.RegisterSurvey(b.cfg)
}

// MustRegister is like Register but panics on error.
// Useful for initialization in main().
func (b *SurveyBuilder) MustRegister(eng Engine) {
	if err := b.Register(eng); err != nil {
		panic(fmt.Sprintf("formflow: %v", err))
	}
}
