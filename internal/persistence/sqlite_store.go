package persistence

import (
	"database/sql"
	"errors"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

// SQLiteResponseStore is a ResponseStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteResponseStore struct {
	db *sql.DB
}

// Ensure SQLiteResponseStore implements ResponseStore.
var _ ResponseStore = (*SQLiteResponseStore)(nil)

// NewSQLiteResponseStore initializes the required schema in the given
// database and returns a new SQLiteResponseStore.
func NewSQLiteResponseStore(db *sql.DB) (*SQLiteResponseStore, error) {
	s := &SQLiteResponseStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteResponseStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS responses (
			session_id TEXT PRIMARY KEY,
			survey_id TEXT NOT NULL,
			completed INTEGER NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			answers BLOB,
			metadata BLOB
		);`,
	)
	return err
}

func (s *SQLiteResponseStore) SaveResponse(resp *api.SurveyResponse) error {
	answers, err := EncodeAnswers(resp.Answers)
	if err != nil {
		return err
	}

	metadata, err := EncodeMetadata(resp.Metadata)
	if err != nil {
		return err
	}

	completed := 0
	if resp.Completed {
		completed = 1
	}

	// Upsert: a submit checkpoint and the later completion of the same
	// session overwrite the same row.
	_, err = s.db.Exec(`
		INSERT INTO responses (session_id, survey_id, completed, start_time, end_time, answers, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			survey_id = excluded.survey_id,
			completed = excluded.completed,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			answers = excluded.answers,
			metadata = excluded.metadata`,
		resp.SessionID,
		resp.SurveyID,
		completed,
		resp.StartTime.UTC().Format(time.RFC3339Nano),
		resp.EndTime.UTC().Format(time.RFC3339Nano),
		answers,
		metadata,
	)
	return err
}

func (s *SQLiteResponseStore) GetResponse(sessionID string) (*api.SurveyResponse, error) {
	row := s.db.QueryRow(`
		SELECT session_id, survey_id, completed, start_time, end_time, answers, metadata
		FROM responses WHERE session_id = ?`, sessionID)
	return scanResponse(row)
}

func (s *SQLiteResponseStore) ListResponses(filter ResponseFilter) ([]*api.SurveyResponse, error) {
	query := `
		SELECT session_id, survey_id, completed, start_time, end_time, answers, metadata
		FROM responses`
	var (
		clauses []string
		args    []any
	)
	if filter.SurveyID != "" {
		clauses = append(clauses, "survey_id = ?")
		args = append(args, filter.SurveyID)
	}
	if filter.CompletedOnly {
		clauses = append(clauses, "completed = 1")
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
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanResponse(row rowScanner) (*api.SurveyResponse, error) {
	var (
		resp      api.SurveyResponse
		completed int
		startTime string
		endTime   string
		answers   []byte
		metadata  []byte
	)

	err := row.Scan(&resp.SessionID, &resp.SurveyID, &completed, &startTime, &endTime, &answers, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}

	resp.Completed = completed != 0

	if resp.StartTime, err = time.Parse(time.RFC3339Nano, startTime); err != nil {
		return nil, err
	}
	if resp.EndTime, err = time.Parse(time.RFC3339Nano, endTime); err != nil {
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
