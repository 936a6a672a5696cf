package persistence

import (
	"errors"

	"github.com/petrijr/formflow/pkg/api"
)

var (
	// ErrSurveyNotFound is returned when a survey config is not found.
	ErrSurveyNotFound = errors.New("survey not found")

	// ErrResponseNotFound is returned when a survey response is not found.
	ErrResponseNotFound = errors.New("response not found")
)

// SurveyStore handles storage of survey configs.
type SurveyStore interface {
	SaveSurvey(cfg api.SurveyConfig) error
	GetSurvey(id string) (api.SurveyConfig, error)
	ListSurveys() ([]api.SurveyConfig, error)
}

// ResponseFilter is used to select responses from the store.
// Zero values mean "no filter" for that field.
type ResponseFilter struct {
	SurveyID      string
	CompletedOnly bool
}

// ResponseStore handles storage of survey responses.
//
// SaveResponse is an upsert keyed by session id: a submit checkpoint, a
// completion and a later re-completion of the same session all land on the
// same row, each overwriting the previous snapshot.
type ResponseStore interface {
	SaveResponse(resp *api.SurveyResponse) error
	GetResponse(sessionID string) (*api.SurveyResponse, error)
	ListResponses(filter ResponseFilter) ([]*api.SurveyResponse, error)
}

// Persistence groups the stores an engine needs.
type Persistence struct {
	Surveys   SurveyStore
	Responses ResponseStore
}
