package api

import "time"

// Theme holds the display colors a renderer should use. The engine never
// interprets it; it is carried so that a single config file can describe
// the whole survey.
type Theme struct {
	BackgroundColor string `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	TextColor       string `yaml:"textColor,omitempty" json:"textColor,omitempty"`
	AccentColor     string `yaml:"accentColor,omitempty" json:"accentColor,omitempty"`
}

// DefaultTheme returns the theme used when a config does not set one.
func DefaultTheme() Theme {
	return Theme{
		BackgroundColor: "#1d1d1d",
		TextColor:       "#ffffff",
		AccentColor:     "#4A9EFF",
	}
}

// MergeThemes overlays non-empty fields of override onto base.
func MergeThemes(base, override Theme) Theme {
	out := base
	if override.BackgroundColor != "" {
		out.BackgroundColor = override.BackgroundColor
	}
	if override.TextColor != "" {
		out.TextColor = override.TextColor
	}
	if override.AccentColor != "" {
		out.AccentColor = override.AccentColor
	}
	return out
}

// SurveyConfig is the static, declarative description of a survey. It is
// loaded once and treated as immutable for the lifetime of every session.
type SurveyConfig struct {
	ID              string         `yaml:"id"`
	Title           string         `yaml:"title"`
	Description     string         `yaml:"description,omitempty"`
	Theme           *Theme         `yaml:"theme,omitempty"`
	Questions       []Question     `yaml:"questions"`
	StartQuestionID string         `yaml:"startQuestionId"`
	Metadata        map[string]any `yaml:"metadata,omitempty"`
}

// QuestionByID returns the question with the given id, if present.
func (c SurveyConfig) QuestionByID(id string) (Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Answer is one recorded answer. Value is a trimmed string, an ordered list
// of strings (multi-choice / choice+other), or a string-keyed map (feedback
// form fields). A question holds at most one live answer per session;
// re-answering replaces it.
type Answer struct {
	QuestionID string    `json:"questionId"`
	Value      any       `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// FlowState is a read-only snapshot of a session's navigation state.
type FlowState struct {
	CurrentQuestionID string
	VisitedQuestions  []string
	Answers           map[string]Answer
	CanGoBack         bool
	CanGoNext         bool
}

// SurveyResponse is the final ordered record of a session. It is produced
// once per submission/completion event and is immutable from the engine's
// point of view.
type SurveyResponse struct {
	SurveyID  string         `json:"surveyId"`
	SessionID string         `json:"sessionId"`
	Answers   []Answer       `json:"answers"`
	Completed bool           `json:"completed"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
