package persistence

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/petrijr/formflow/pkg/api"
)

func newTestSQLiteStore(t *testing.T) *SQLiteResponseStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	store, err := NewSQLiteResponseStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteResponseStore failed: %v", err)
	}

	return store
}

func TestSQLiteResponseStoreSaveGet(t *testing.T) {
	store := newTestSQLiteStore(t)
	start := time.Now().UTC().Truncate(time.Millisecond)

	resp := &api.SurveyResponse{
		SurveyID:  "exit",
		SessionID: "sess-1",
		Completed: true,
		StartTime: start,
		EndTime:   start.Add(90 * time.Second),
		Answers: []api.Answer{
			{QuestionID: "reason", Value: "price", Timestamp: start},
			{QuestionID: "tags", Value: []string{"a", "b"}, Timestamp: start.Add(time.Second)},
			{QuestionID: "contact", Value: map[string]string{"email": "dev@example.com"}, Timestamp: start.Add(2 * time.Second)},
		},
		Metadata: map[string]any{"channel": "web"},
	}

	if err := store.SaveResponse(resp); err != nil {
		t.Fatalf("SaveResponse failed: %v", err)
	}

	got, err := store.GetResponse("sess-1")
	if err != nil {
		t.Fatalf("GetResponse failed: %v", err)
	}

	if got.SurveyID != "exit" || !got.Completed {
		t.Fatalf("header fields wrong: %+v", got)
	}
	if !got.StartTime.Equal(start) || !got.EndTime.Equal(resp.EndTime) {
		t.Fatalf("times wrong: start=%v end=%v", got.StartTime, got.EndTime)
	}
	if len(got.Answers) != 3 {
		t.Fatalf("answers = %+v", got.Answers)
	}
	if got.Answers[0].Value != "price" {
		t.Fatalf("string answer = %v", got.Answers[0].Value)
	}
	tags, ok := got.Answers[1].Value.([]string)
	if !ok || len(tags) != 2 || tags[1] != "b" {
		t.Fatalf("list answer = %#v", got.Answers[1].Value)
	}
	form, ok := got.Answers[2].Value.(map[string]string)
	if !ok || form["email"] != "dev@example.com" {
		t.Fatalf("map answer = %#v", got.Answers[2].Value)
	}
	if got.Metadata["channel"] != "web" {
		t.Fatalf("metadata = %+v", got.Metadata)
	}
}

func TestSQLiteResponseStoreNotFound(t *testing.T) {
	store := newTestSQLiteStore(t)

	if _, err := store.GetResponse("missing"); !errors.Is(err, ErrResponseNotFound) {
		t.Fatalf("GetResponse missing = %v, want ErrResponseNotFound", err)
	}
}

func TestSQLiteResponseStoreUpsert(t *testing.T) {
	store := newTestSQLiteStore(t)
	start := time.Now().UTC()

	checkpoint := sampleResponse("sess-1", "exit", false, start)
	if err := store.SaveResponse(checkpoint); err != nil {
		t.Fatalf("SaveResponse checkpoint failed: %v", err)
	}

	final := sampleResponse("sess-1", "exit", true, start)
	final.Answers = append(final.Answers, api.Answer{QuestionID: "q2", Value: "more", Timestamp: start})
	if err := store.SaveResponse(final); err != nil {
		t.Fatalf("SaveResponse final failed: %v", err)
	}

	got, err := store.GetResponse("sess-1")
	if err != nil {
		t.Fatalf("GetResponse failed: %v", err)
	}
	if !got.Completed || len(got.Answers) != 2 {
		t.Fatalf("upsert did not replace: %+v", got)
	}

	all, err := store.ListResponses(ResponseFilter{})
	if err != nil || len(all) != 1 {
		t.Fatalf("upsert produced duplicate rows: %+v, %v", all, err)
	}
}

func TestSQLiteResponseStoreListFilters(t *testing.T) {
	store := newTestSQLiteStore(t)
	base := time.Now().UTC()

	seed := []*api.SurveyResponse{
		sampleResponse("s1", "exit", false, base),
		sampleResponse("s2", "exit", true, base.Add(time.Second)),
		sampleResponse("s3", "nps", true, base.Add(2*time.Second)),
	}
	for _, r := range seed {
		if err := store.SaveResponse(r); err != nil {
			t.Fatalf("SaveResponse failed: %v", err)
		}
	}

	all, err := store.ListResponses(ResponseFilter{})
	if err != nil {
		t.Fatalf("ListResponses failed: %v", err)
	}
	if len(all) != 3 || all[0].SessionID != "s1" {
		t.Fatalf("unfiltered list wrong: %+v", all)
	}

	completedExit, err := store.ListResponses(ResponseFilter{SurveyID: "exit", CompletedOnly: true})
	if err != nil {
		t.Fatalf("ListResponses failed: %v", err)
	}
	if len(completedExit) != 1 || completedExit[0].SessionID != "s2" {
		t.Fatalf("filtered list wrong: %+v", completedExit)
	}
}
