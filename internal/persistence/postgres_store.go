package persistence

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/petrijr/formflow/pkg/api"
)

// PostgresResponseStore is a ResponseStore backed by PostgreSQL.
//
// It expects an *sql.DB opened with a Postgres driver (pgx stdlib or
// lib/pq); as with the SQLite store, the embedding application imports the
// driver it prefers.
type PostgresResponseStore struct {
	db *sql.DB
}

// Ensure PostgresResponseStore implements ResponseStore.
var _ ResponseStore = (*PostgresResponseStore)(nil)

// NewPostgresResponseStore initializes the required schema in the given
// database and returns a new PostgresResponseStore.
func NewPostgresResponseStore(db *sql.DB) (*PostgresResponseStore, error) {
	s := &PostgresResponseStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresResponseStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS responses (
			session_id TEXT PRIMARY KEY,
			survey_id TEXT NOT NULL,
			completed BOOLEAN NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			answers BYTEA,
			metadata BYTEA
		);`,
	)
	return err
}

func (s *PostgresResponseStore) SaveResponse(resp *api.SurveyResponse) error {
	answers, err := EncodeAnswers(resp.Answers)
	if err != nil {
		return err
	}

	metadata, err := EncodeMetadata(resp.Metadata)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO responses (session_id, survey_id, completed, start_time, end_time, answers, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO UPDATE SET
			survey_id = EXCLUDED.survey_id,
			completed = EXCLUDED.completed,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			answers = EXCLUDED.answers,
			metadata = EXCLUDED.metadata`,
		resp.SessionID,
		resp.SurveyID,
		resp.Completed,
		resp.StartTime.UTC(),
		resp.EndTime.UTC(),
		answers,
		metadata,
	)
	return err
}

func (s *PostgresResponseStore) GetResponse(sessionID string) (*api.SurveyResponse, error) {
	row := s.db.QueryRow(`
		SELECT session_id, survey_id, completed, start_time, end_time, answers, metadata
		FROM responses WHERE session_id = $1`, sessionID)
	return s.scan(row)
}

func (s *PostgresResponseStore) ListResponses(filter ResponseFilter) ([]*api.SurveyResponse, error) {
	query := `
		SELECT session_id, survey_id, completed, start_time, end_time, answers, metadata
		FROM responses`
	var (
		clauses []string
		args    []any
	)
	if filter.SurveyID != "" {
		args = append(args, filter.SurveyID)
		clauses = append(clauses, "survey_id = $"+strconv.Itoa(len(args)))
	}
	if filter.CompletedOnly {
		clauses = append(clauses, "completed")
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY start_time"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*api.SurveyResponse
	for rows.Next() {
		resp, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, rows.Err()
}

func (s *PostgresResponseStore) scan(row rowScanner) (*api.SurveyResponse, error) {
	var (
		resp     api.SurveyResponse
		answers  []byte
		metadata []byte
	)

	err := row.Scan(&resp.SessionID, &resp.SurveyID, &resp.Completed,
		&resp.StartTime, &resp.EndTime, &answers, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}

	if resp.Answers, err = DecodeAnswers(answers); err != nil {
		return nil, err
	}
	if resp.Metadata, err = DecodeMetadata(metadata); err != nil {
		return nil, err
	}

	return &resp, nil
}
