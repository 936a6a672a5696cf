package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from survey sessions for logging and metrics.
//
// Implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay the respondent. Observer callbacks are
// strictly informational: nothing an observer does affects flow decisions.
type Observer interface {
	// OnSessionStart is called once when a session is created, before the
	// first question is entered.
	OnSessionStart(ctx context.Context, surveyID, sessionID string)

	// OnQuestionEnter is called whenever a question becomes current,
	// including the start question and re-entries via Back.
	OnQuestionEnter(ctx context.Context, sessionID string, q Question)

	// OnQuestionLeave is called when the session moves away from a
	// question, with the time it was current.
	OnQuestionLeave(ctx context.Context, sessionID string, q Question, d time.Duration)

	// OnAnswerRecorded is called after a candidate answer passed
	// validation and was recorded.
	OnAnswerRecorded(ctx context.Context, sessionID string, a Answer)

	// OnValidationError is called when a candidate answer is rejected.
	// The session stays on the same question.
	OnValidationError(ctx context.Context, sessionID string, q Question, verr *ValidationError)

	// OnSubmit is called at a submit checkpoint with a snapshot response.
	// Mid-flow checkpoints carry Completed=false; a submit-flagged question
	// that ends the survey also fires a terminal call with Completed=true.
	OnSubmit(ctx context.Context, resp *SurveyResponse)

	// OnComplete is called when the survey completes, either because a
	// final question was reached or because the question list ran out.
	OnComplete(ctx context.Context, resp *SurveyResponse)

	// OnAbandon is called when a session is abandoned before completion.
	OnAbandon(ctx context.Context, resp *SurveyResponse)

	// OnFatalError is called when the flow hits a fatal configuration
	// problem, such as a question with an unknown type. The session cannot
	// proceed past it.
	OnFatalError(ctx context.Context, sessionID string, err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnSessionStart(ctx context.Context, surveyID, sessionID string)       {}
func (NoopObserver) OnQuestionEnter(ctx context.Context, sessionID string, q Question)    {}
func (NoopObserver) OnAnswerRecorded(ctx context.Context, sessionID string, a Answer)     {}
func (NoopObserver) OnSubmit(ctx context.Context, resp *SurveyResponse)                   {}
func (NoopObserver) OnComplete(ctx context.Context, resp *SurveyResponse)                 {}
func (NoopObserver) OnAbandon(ctx context.Context, resp *SurveyResponse)                  {}
func (NoopObserver) OnQuestionLeave(ctx context.Context, sessionID string, q Question, d time.Duration) {
}
func (NoopObserver) OnValidationError(ctx context.Context, sessionID string, q Question, verr *ValidationError) {
}
func (NoopObserver) OnFatalError(ctx context.Context, sessionID string, err error) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnSessionStart(ctx context.Context, surveyID, sessionID string) {
	for _, o := range c.observers {
		o.OnSessionStart(ctx, surveyID, sessionID)
	}
}

func (c *CompositeObserver) OnQuestionEnter(ctx context.Context, sessionID string, q Question) {
	for _, o := range c.observers {
		o.OnQuestionEnter(ctx, sessionID, q)
	}
}

func (c *CompositeObserver) OnQuestionLeave(ctx context.Context, sessionID string, q Question, d time.Duration) {
	for _, o := range c.observers {
		o.OnQuestionLeave(ctx, sessionID, q, d)
	}
}

func (c *CompositeObserver) OnAnswerRecorded(ctx context.Context, sessionID string, a Answer) {
	for _, o := range c.observers {
		o.OnAnswerRecorded(ctx, sessionID, a)
	}
}

func (c *CompositeObserver) OnValidationError(ctx context.Context, sessionID string, q Question, verr *ValidationError) {
	for _, o := range c.observers {
		o.OnValidationError(ctx, sessionID, q, verr)
	}
}

func (c *CompositeObserver) OnSubmit(ctx context.Context, resp *SurveyResponse) {
	for _, o := range c.observers {
		o.OnSubmit(ctx, resp)
	}
}

func (c *CompositeObserver) OnComplete(ctx context.Context, resp *SurveyResponse) {
	for _, o := range c.observers {
		o.OnComplete(ctx, resp)
	}
}

func (c *CompositeObserver) OnAbandon(ctx context.Context, resp *SurveyResponse) {
	for _, o := range c.observers {
		o.OnAbandon(ctx, resp)
	}
}

func (c *CompositeObserver) OnFatalError(ctx context.Context, sessionID string, err error) {
	for _, o := range c.observers {
		o.OnFatalError(ctx, sessionID, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs session lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnSessionStart(ctx context.Context, surveyID, sessionID string) {
	o.Logger.InfoContext(ctx, "session_start",
		slog.String("survey", surveyID),
		slog.String("session_id", sessionID),
	)
}

func (o *LoggingObserver) OnQuestionEnter(ctx context.Context, sessionID string, q Question) {
	o.Logger.DebugContext(ctx, "question_enter",
		slog.String("session_id", sessionID),
		slog.String("question", q.ID),
		slog.String("type", string(q.Type)),
	)
}

func (o *LoggingObserver) OnQuestionLeave(ctx context.Context, sessionID string, q Question, d time.Duration) {
	o.Logger.DebugContext(ctx, "question_leave",
		slog.String("session_id", sessionID),
		slog.String("question", q.ID),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnAnswerRecorded(ctx context.Context, sessionID string, a Answer) {
	o.Logger.DebugContext(ctx, "answer_recorded",
		slog.String("session_id", sessionID),
		slog.String("question", a.QuestionID),
	)
}

func (o *LoggingObserver) OnValidationError(ctx context.Context, sessionID string, q Question, verr *ValidationError) {
	o.Logger.WarnContext(ctx, "validation_error",
		slog.String("session_id", sessionID),
		slog.String("question", q.ID),
		slog.String("kind", string(verr.Kind)),
		slog.String("message", verr.Message),
	)
}

func (o *LoggingObserver) OnSubmit(ctx context.Context, resp *SurveyResponse) {
	o.Logger.InfoContext(ctx, "survey_submit",
		slog.String("survey", resp.SurveyID),
		slog.String("session_id", resp.SessionID),
		slog.Bool("completed", resp.Completed),
		slog.Int("answers", len(resp.Answers)),
	)
}

func (o *LoggingObserver) OnComplete(ctx context.Context, resp *SurveyResponse) {
	o.Logger.InfoContext(ctx, "survey_complete",
		slog.String("survey", resp.SurveyID),
		slog.String("session_id", resp.SessionID),
		slog.Int("answers", len(resp.Answers)),
	)
}

func (o *LoggingObserver) OnAbandon(ctx context.Context, resp *SurveyResponse) {
	o.Logger.InfoContext(ctx, "survey_abandon",
		slog.String("survey", resp.SurveyID),
		slog.String("session_id", resp.SessionID),
		slog.Int("answers", len(resp.Answers)),
	)
}

func (o *LoggingObserver) OnFatalError(ctx context.Context, sessionID string, err error) {
	o.Logger.ErrorContext(ctx, "fatal_error",
		slog.String("session_id", sessionID),
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple counters and aggregate question durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	sessionsStarted   atomic.Int64
	sessionsCompleted atomic.Int64
	sessionsAbandoned atomic.Int64
	answersRecorded   atomic.Int64
	validationErrors  atomic.Int64
	submissions       atomic.Int64

	questionsLeft       atomic.Int64
	totalQuestionTimeNs atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	SessionsStarted   int64
	SessionsCompleted int64
	SessionsAbandoned int64
	SessionsInFlight  int64

	AnswersRecorded  int64
	ValidationErrors int64
	Submissions      int64

	AvgQuestionTime time.Duration
}

func (m *BasicMetrics) OnSessionStart(ctx context.Context, surveyID, sessionID string) {
	m.sessionsStarted.Add(1)
}

func (m *BasicMetrics) OnQuestionLeave(ctx context.Context, sessionID string, q Question, d time.Duration) {
	m.questionsLeft.Add(1)
	m.totalQuestionTimeNs.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnAnswerRecorded(ctx context.Context, sessionID string, a Answer) {
	m.answersRecorded.Add(1)
}

func (m *BasicMetrics) OnValidationError(ctx context.Context, sessionID string, q Question, verr *ValidationError) {
	m.validationErrors.Add(1)
}

func (m *BasicMetrics) OnSubmit(ctx context.Context, resp *SurveyResponse) {
	m.submissions.Add(1)
}

func (m *BasicMetrics) OnComplete(ctx context.Context, resp *SurveyResponse) {
	m.sessionsCompleted.Add(1)
}

func (m *BasicMetrics) OnAbandon(ctx context.Context, resp *SurveyResponse) {
	m.sessionsAbandoned.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.sessionsStarted.Load()
	completed := m.sessionsCompleted.Load()
	abandoned := m.sessionsAbandoned.Load()
	left := m.questionsLeft.Load()
	totalNs := m.totalQuestionTimeNs.Load()

	var avg time.Duration
	if left > 0 {
		avg = time.Duration(totalNs / left)
	}

	return BasicMetricsSnapshot{
		SessionsStarted:   started,
		SessionsCompleted: completed,
		SessionsAbandoned: abandoned,
		SessionsInFlight:  started - completed - abandoned,
		AnswersRecorded:   m.answersRecorded.Load(),
		ValidationErrors:  m.validationErrors.Load(),
		Submissions:       m.submissions.Load(),
		AvgQuestionTime:   avg,
	}
}
