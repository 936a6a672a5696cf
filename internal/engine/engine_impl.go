package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/petrijr/formflow/internal/persistence"
	"github.com/petrijr/formflow/pkg/api"
)

// engineImpl is a simple, synchronous, in-process engine implementation.
// It is safe for concurrent use; the sessions it hands out are not.
type engineImpl struct {
	surveys   persistence.SurveyStore
	responses persistence.ResponseStore
	observer  api.Observer
}

// Config describes how to construct an engineImpl.
// Only used inside this package; external callers use the helper functions.
type Config struct {
	Persistence persistence.Persistence
	Observer    api.Observer
}

func NewInMemoryEngine() api.Engine {
	mem := persistence.NewInMemoryStore()
	return NewEngine(persistence.Persistence{
		Surveys:   mem,
		Responses: mem,
	})
}

func NewInMemoryEngineWithObserver(obs api.Observer) api.Engine {
	mem := persistence.NewInMemoryStore()
	return NewEngineWithConfig(Config{
		Persistence: persistence.Persistence{Surveys: mem, Responses: mem},
		Observer:    obs,
	})
}

func NewSQLiteEngine(db *sql.DB) (api.Engine, error) {
	return NewSQLiteEngineWithObserver(db, nil)
}

func NewSQLiteEngineWithObserver(db *sql.DB, obs api.Observer) (api.Engine, error) {
	resp, err := persistence.NewSQLiteResponseStore(db)
	if err != nil {
		return nil, err
	}
	// Survey configs remain in-memory; they are static per process.
	memSurveys := persistence.NewInMemoryStore()

	return NewEngineWithConfig(Config{
		Persistence: persistence.Persistence{Surveys: memSurveys, Responses: resp},
		Observer:    obs,
	}), nil
}

func NewPostgresEngine(db *sql.DB) (api.Engine, error) {
	return NewPostgresEngineWithObserver(db, nil)
}

func NewPostgresEngineWithObserver(db *sql.DB, obs api.Observer) (api.Engine, error) {
	resp, err := persistence.NewPostgresResponseStore(db)
	if err != nil {
		return nil, err
	}
	memSurveys := persistence.NewInMemoryStore()

	return NewEngineWithConfig(Config{
		Persistence: persistence.Persistence{Surveys: memSurveys, Responses: resp},
		Observer:    obs,
	}), nil
}

func NewRedisEngine(client *redis.Client) api.Engine {
	return NewRedisEngineWithObserver(client, nil)
}

func NewRedisEngineWithObserver(client *redis.Client, obs api.Observer) api.Engine {
	respStore := persistence.NewRedisResponseStore(client, "formflow:")
	memSurveys := persistence.NewInMemoryStore()

	return NewEngineWithConfig(Config{
		Persistence: persistence.Persistence{Surveys: memSurveys, Responses: respStore},
		Observer:    obs,
	})
}

// NewEngineWithConfig creates a new Engine using the given configuration.
func NewEngineWithConfig(cfg Config) api.Engine {
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	return &engineImpl{
		surveys:   cfg.Persistence.Surveys,
		responses: cfg.Persistence.Responses,
		observer:  obs,
	}
}

// NewEngine returns an Engine backed by the given stores and no observer.
func NewEngine(p persistence.Persistence) api.Engine {
	return NewEngineWithConfig(Config{Persistence: p})
}

func (e *engineImpl) RegisterSurvey(cfg api.SurveyConfig) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	// Check for duplicates via the store.
	if existing, err := e.surveys.GetSurvey(cfg.ID); err == nil && existing.ID != "" {
		return fmt.Errorf("survey already registered: %s", cfg.ID)
	} else if err != nil && !errors.Is(err, persistence.ErrSurveyNotFound) {
		// Unexpected store error.
		return err
	}

	if cfg.Theme == nil {
		theme := api.DefaultTheme()
		cfg.Theme = &theme
	} else {
		merged := api.MergeThemes(api.DefaultTheme(), *cfg.Theme)
		cfg.Theme = &merged
	}

	return e.surveys.SaveSurvey(cfg)
}

func (e *engineImpl) StartSession(ctx context.Context, surveyID string) (api.Session, error) {
	cfg, err := e.surveys.GetSurvey(surveyID)
	if err != nil {
		if errors.Is(err, persistence.ErrSurveyNotFound) {
			return nil, fmt.Errorf("unknown survey: %s", surveyID)
		}
		return nil, err
	}

	s := newSession(e, cfg, uuid.NewString())
	s.start(ctx)
	return s, nil
}

func (e *engineImpl) GetResponse(ctx context.Context, sessionID string) (*api.SurveyResponse, error) {
	resp, err := e.responses.GetResponse(sessionID)
	if err != nil {
		if errors.Is(err, persistence.ErrResponseNotFound) {
			return nil, fmt.Errorf("response not found: %s", sessionID)
		}
		return nil, err
	}
	return resp, nil
}

func (e *engineImpl) ListResponses(ctx context.Context, opts api.ResponseListOptions) ([]*api.SurveyResponse, error) {
	filter := persistence.ResponseFilter{
		SurveyID:      opts.SurveyID,
		CompletedOnly: opts.CompletedOnly,
	}
	return e.responses.ListResponses(filter)
}

// persistResponse writes a response snapshot. Store failures are isolated
// from the flow transition that produced the snapshot: the session result
// is already decided by the time we get here, so the failure is reported to
// the observer instead of the caller.
func (e *engineImpl) persistResponse(ctx context.Context, resp *api.SurveyResponse) {
	if err := e.responses.SaveResponse(resp); err != nil {
		e.observer.OnFatalError(ctx, resp.SessionID, err)
	}
}
