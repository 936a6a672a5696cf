package persistence

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/formflow/pkg/api"
)

// RedisResponseStore is a ResponseStore backed by Redis.
// It uses a simple key structure:
//
//	<prefix>resp:<sessionID>        => JSON-encoded SurveyResponse
//	<prefix>idx:all                 => SET of all session IDs
//	<prefix>idx:survey:<surveyID>   => SET of session IDs for a survey
//	<prefix>idx:completed           => SET of completed session IDs
//
// The indexes are always updated on SaveResponse, and ListResponses uses
// set operations for filtering.
type RedisResponseStore struct {
	client *redis.Client
	prefix string
}

var _ ResponseStore = (*RedisResponseStore)(nil)

// NewRedisResponseStore creates a RedisResponseStore.
// prefix is optional but recommended (e.g. "formflow:").
func NewRedisResponseStore(client *redis.Client, prefix string) *RedisResponseStore {
	if prefix == "" {
		prefix = "formflow:"
	}
	return &RedisResponseStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisResponseStore) keyResponse(sessionID string) string {
	return s.prefix + "resp:" + sessionID
}

func (s *RedisResponseStore) keyAll() string {
	return s.prefix + "idx:all"
}

func (s *RedisResponseStore) keySurvey(surveyID string) string {
	return s.prefix + "idx:survey:" + surveyID
}

func (s *RedisResponseStore) keyCompleted() string {
	return s.prefix + "idx:completed"
}

func (s *RedisResponseStore) SaveResponse(resp *api.SurveyResponse) error {
	ctx := context.Background()

	data, err := EncodeResponse(resp)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keyResponse(resp.SessionID), data, 0)
	pipe.SAdd(ctx, s.keyAll(), resp.SessionID)
	pipe.SAdd(ctx, s.keySurvey(resp.SurveyID), resp.SessionID)
	if resp.Completed {
		pipe.SAdd(ctx, s.keyCompleted(), resp.SessionID)
	} else {
		// A checkpoint snapshot may overwrite a completed response only in
		// theory; keep the index consistent anyway.
		pipe.SRem(ctx, s.keyCompleted(), resp.SessionID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisResponseStore) GetResponse(sessionID string) (*api.SurveyResponse, error) {
	ctx := context.Background()

	data, err := s.client.Get(ctx, s.keyResponse(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeResponse(data)
}

func (s *RedisResponseStore) ListResponses(filter ResponseFilter) ([]*api.SurveyResponse, error) {
	ctx := context.Background()

	ids, err := s.candidateIDs(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	result := make([]*api.SurveyResponse, 0, len(ids))
	for _, id := range ids {
		resp, err := s.GetResponse(id)
		if errors.Is(err, ErrResponseNotFound) {
			// Index entry without a value; skip rather than fail the list.
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})

	return result, nil
}

func (s *RedisResponseStore) candidateIDs(ctx context.Context, filter ResponseFilter) ([]string, error) {
	keys := []string{s.keyAll()}
	if filter.SurveyID != "" {
		keys = append(keys, s.keySurvey(filter.SurveyID))
	}
	if filter.CompletedOnly {
		keys = append(keys, s.keyCompleted())
	}

	if len(keys) == 1 {
		return s.client.SMembers(ctx, keys[0]).Result()
	}
	return s.client.SInter(ctx, keys...).Result()
}
