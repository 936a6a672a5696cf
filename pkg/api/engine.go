package api

import "context"

// NextOutcome describes what a successful Session.Next call did.
type NextOutcome string

const (
	// OutcomeAdvanced means the session moved to another question.
	OutcomeAdvanced NextOutcome = "ADVANCED"
	// OutcomeEnded means the question list was exhausted and the final
	// response has been produced.
	OutcomeEnded NextOutcome = "ENDED"
	// OutcomeRedirect means the current question's next control carries a
	// literal URL; the caller must perform the external redirect. The
	// session state is untouched.
	OutcomeRedirect NextOutcome = "REDIRECT"
)

// NextResult is the outcome of a Session.Next call.
type NextResult struct {
	Outcome NextOutcome

	// QuestionID is the current question after the call (OutcomeAdvanced).
	QuestionID string

	// RedirectURL is set for OutcomeRedirect.
	RedirectURL string

	// Response is the survey response produced by this call, set when the
	// session ended or when a completion fired while advancing onto a
	// final question.
	Response *SurveyResponse
}

// Session walks one respondent through a survey. It is driven synchronously
// by discrete calls; there is no background work. A Session must not be
// shared between goroutines.
type Session interface {
	// SurveyID returns the id of the survey being answered.
	SurveyID() string

	// SessionID returns the unique id of this respondent session.
	SessionID() string

	// Current returns the question currently shown. ok is false once the
	// session has ended.
	Current() (Question, bool)

	// State returns a read-only snapshot of the navigation state. Calling
	// it repeatedly without intervening mutations yields equal snapshots.
	State() FlowState

	// Answers returns the recorded answers in the order the questions were
	// first answered. Re-answering a question keeps its original position.
	Answers() []Answer

	// CanGoBack reports whether Back would move to a previous question.
	CanGoBack() bool

	// SetAnswer records the candidate answer for the current question.
	// It is not validated until Next is called.
	SetAnswer(value any)

	// Next validates the pending candidate and advances the flow.
	// On a validation failure it returns a *ValidationError and leaves all
	// state untouched. A *ConfigError indicates a fatal config problem
	// (for example an unknown question type) and is not recoverable.
	Next(ctx context.Context) (*NextResult, error)

	// Answer is SetAnswer followed by Next.
	Answer(ctx context.Context, value any) (*NextResult, error)

	// Back returns to the most recently visited question, restoring its
	// recorded answer as the pending candidate. Answers already recorded
	// are kept. It reports whether a move happened, firing the question
	// leave/enter notifications when it did.
	Back(ctx context.Context) bool

	// Abandon finalizes the session with completed=false and notifies the
	// observer. Subsequent Next/Back calls return ErrSessionEnded.
	Abandon(ctx context.Context) *SurveyResponse
}

// ResponseListOptions controls how stored responses are listed.
// Zero values mean "no filter" for that field.
type ResponseListOptions struct {
	// SurveyID, if non-empty, limits results to responses of that survey.
	SurveyID string

	// CompletedOnly, if true, excludes abandoned / partial responses.
	CompletedOnly bool
}

// Engine registers survey configs, creates sessions and stores completed
// responses. Engines are safe for concurrent use; individual Sessions are
// not.
type Engine interface {
	// RegisterSurvey validates and registers a config by its id.
	// Structural problems (duplicate ids, unknown question types, broken
	// jump targets, missing start question) fail fast with a *ConfigError.
	RegisterSurvey(cfg SurveyConfig) error

	// StartSession creates a live session at the survey's start question.
	StartSession(ctx context.Context, surveyID string) (Session, error)

	// GetResponse looks up a stored response by session id.
	GetResponse(ctx context.Context, sessionID string) (*SurveyResponse, error)

	// ListResponses returns stored responses matching the given options.
	ListResponses(ctx context.Context, opts ResponseListOptions) ([]*SurveyResponse, error)
}
