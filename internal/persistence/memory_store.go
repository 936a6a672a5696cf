package persistence

import (
	"sort"
	"sync"

	"github.com/petrijr/formflow/pkg/api"
)

// InMemoryStore is a simple, goroutine-safe implementation of SurveyStore
// and ResponseStore backed by maps.
type InMemoryStore struct {
	mu        sync.RWMutex
	surveys   map[string]api.SurveyConfig
	responses map[string]*api.SurveyResponse
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		surveys:   make(map[string]api.SurveyConfig),
		responses: make(map[string]*api.SurveyResponse),
	}
}

// Ensure InMemoryStore implements the interfaces.
var _ SurveyStore = (*InMemoryStore)(nil)

var _ ResponseStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveSurvey(cfg api.SurveyConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.surveys[cfg.ID] = cfg
	return nil
}

func (s *InMemoryStore) GetSurvey(id string) (api.SurveyConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.surveys[id]
	if !ok {
		return api.SurveyConfig{}, ErrSurveyNotFound
	}

	return cfg, nil
}

func (s *InMemoryStore) ListSurveys() ([]api.SurveyConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.SurveyConfig, 0, len(s.surveys))
	for _, cfg := range s.surveys {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *InMemoryStore) SaveResponse(resp *api.SurveyResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.responses[resp.SessionID] = resp
	return nil
}

func (s *InMemoryStore) GetResponse(sessionID string) (*api.SurveyResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp, ok := s.responses[sessionID]
	if !ok {
		return nil, ErrResponseNotFound
	}

	return resp, nil
}

func (s *InMemoryStore) ListResponses(filter ResponseFilter) ([]*api.SurveyResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*api.SurveyResponse

	for _, resp := range s.responses {
		if filter.SurveyID != "" && resp.SurveyID != filter.SurveyID {
			continue
		}
		if filter.CompletedOnly && !resp.Completed {
			continue
		}
		result = append(result, resp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})

	return result, nil
}
