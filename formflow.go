package formflow

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/formflow/internal/engine"
	"github.com/petrijr/formflow/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Engine               = api.Engine
	Session              = api.Session
	SurveyConfig         = api.SurveyConfig
	Question             = api.Question
	QuestionType         = api.QuestionType
	Answer               = api.Answer
	SurveyResponse       = api.SurveyResponse
	FlowState            = api.FlowState
	NextResult           = api.NextResult
	NextOutcome          = api.NextOutcome
	NextButton           = api.NextButton
	Condition            = api.Condition
	Operator             = api.Operator
	Theme                = api.Theme
	ValidationError      = api.ValidationError
	ConfigError          = api.ConfigError
	ResponseListOptions  = api.ResponseListOptions
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Re-export question type and outcome values for convenience.

const (
	QuestionText     = api.QuestionText
	QuestionChoice   = api.QuestionChoice
	QuestionFeedback = api.QuestionFeedback
	QuestionInfo     = api.QuestionInfo
	QuestionSocial   = api.QuestionSocial

	OutcomeAdvanced = api.OutcomeAdvanced
	OutcomeEnded    = api.OutcomeEnded
	OutcomeRedirect = api.OutcomeRedirect

	OpEquals      = api.OpEquals
	OpNotEquals   = api.OpNotEquals
	OpContains    = api.OpContains
	OpNotContains = api.OpNotContains
)

// Engine constructors
// These wrap the internal/engine package so external callers
// never need to import internal packages.

// NewInMemoryEngine returns an Engine backed entirely by in-memory stores.
func NewInMemoryEngine() Engine {
	return engine.NewInMemoryEngine()
}

// NewInMemoryEngineWithObserver returns an in-memory Engine with the given Observer.
func NewInMemoryEngineWithObserver(obs Observer) Engine {
	return engine.NewInMemoryEngineWithObserver(obs)
}

// NewSQLiteEngine returns an Engine that persists survey responses in a
// SQLite database. Survey configs are kept in-memory.
func NewSQLiteEngine(db *sql.DB) (Engine, error) {
	return engine.NewSQLiteEngine(db)
}

// NewSQLiteEngineWithObserver returns a SQLite-backed Engine with the given Observer.
func NewSQLiteEngineWithObserver(db *sql.DB, obs Observer) (Engine, error) {
	return engine.NewSQLiteEngineWithObserver(db, obs)
}

// NewPostgresEngine returns an Engine that persists responses in PostgreSQL.
func NewPostgresEngine(db *sql.DB) (Engine, error) {
	return engine.NewPostgresEngine(db)
}

// NewPostgresEngineWithObserver returns a Postgres-backed Engine with the given Observer.
func NewPostgresEngineWithObserver(db *sql.DB, obs Observer) (Engine, error) {
	return engine.NewPostgresEngineWithObserver(db, obs)
}

// NewRedisEngine returns an Engine that persists responses in Redis.
func NewRedisEngine(client *redis.Client) Engine {
	return engine.NewRedisEngine(client)
}

// NewRedisEngineWithObserver returns a Redis-backed Engine with the given Observer.
func NewRedisEngineWithObserver(client *redis.Client, obs Observer) Engine {
	return engine.NewRedisEngineWithObserver(client, obs)
}

// Convenience helpers that just forward to the underlying Engine.

// StartSession starts a session for a registered survey.
func StartSession(ctx context.Context, eng Engine, surveyID string) (Session, error) {
	return eng.StartSession(ctx, surveyID)
}

// GetResponse fetches a stored response by session ID.
func GetResponse(ctx context.Context, eng Engine, sessionID string) (*SurveyResponse, error) {
	return eng.GetResponse(ctx, sessionID)
}

// ListResponses lists stored responses according to the given options.
func ListResponses(ctx context.Context, eng Engine, opts ResponseListOptions) ([]*SurveyResponse, error) {
	return eng.ListResponses(ctx, opts)
}

// IsValidationError reports whether err is a recoverable answer-validation
// failure and returns the typed error for message display.
func IsValidationError(err error) (*ValidationError, bool) {
	return api.IsValidationError(err)
}

// IsConfigError reports whether err is a fatal configuration error.
func IsConfigError(err error) (*ConfigError, bool) {
	return api.IsConfigError(err)
}
