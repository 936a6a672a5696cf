package persistence

import (
	"errors"
	"testing"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

func sampleResponse(sessionID, surveyID string, completed bool, start time.Time) *api.SurveyResponse {
	return &api.SurveyResponse{
		SurveyID:  surveyID,
		SessionID: sessionID,
		Completed: completed,
		StartTime: start,
		EndTime:   start.Add(time.Minute),
		Answers: []api.Answer{
			{QuestionID: "q1", Value: "yes", Timestamp: start},
		},
	}
}

func TestInMemoryStoreSurveys(t *testing.T) {
	store := NewInMemoryStore()

	if _, err := store.GetSurvey("missing"); !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("GetSurvey missing = %v, want ErrSurveyNotFound", err)
	}

	for _, id := range []string{"b", "a"} {
		if err := store.SaveSurvey(api.SurveyConfig{ID: id, Title: id}); err != nil {
			t.Fatalf("SaveSurvey failed: %v", err)
		}
	}

	got, err := store.GetSurvey("a")
	if err != nil || got.ID != "a" {
		t.Fatalf("GetSurvey(a) = %+v, %v", got, err)
	}

	list, err := store.ListSurveys()
	if err != nil {
		t.Fatalf("ListSurveys failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("ListSurveys not sorted: %+v", list)
	}
}

func TestInMemoryStoreResponses(t *testing.T) {
	store := NewInMemoryStore()
	base := time.Now()

	if _, err := store.GetResponse("missing"); !errors.Is(err, ErrResponseNotFound) {
		t.Fatalf("GetResponse missing = %v, want ErrResponseNotFound", err)
	}

	responses := []*api.SurveyResponse{
		sampleResponse("s2", "exit", true, base.Add(time.Second)),
		sampleResponse("s1", "exit", false, base),
		sampleResponse("s3", "nps", true, base.Add(2*time.Second)),
	}
	for _, r := range responses {
		if err := store.SaveResponse(r); err != nil {
			t.Fatalf("SaveResponse failed: %v", err)
		}
	}

	all, err := store.ListResponses(ResponseFilter{})
	if err != nil {
		t.Fatalf("ListResponses failed: %v", err)
	}
	if len(all) != 3 || all[0].SessionID != "s1" || all[2].SessionID != "s3" {
		t.Fatalf("ListResponses order wrong: %+v", all)
	}

	exitOnly, err := store.ListResponses(ResponseFilter{SurveyID: "exit"})
	if err != nil || len(exitOnly) != 2 {
		t.Fatalf("survey filter = %+v, %v", exitOnly, err)
	}

	completed, err := store.ListResponses(ResponseFilter{CompletedOnly: true})
	if err != nil || len(completed) != 2 {
		t.Fatalf("completed filter = %+v, %v", completed, err)
	}

	both, err := store.ListResponses(ResponseFilter{SurveyID: "exit", CompletedOnly: true})
	if err != nil || len(both) != 1 || both[0].SessionID != "s2" {
		t.Fatalf("combined filter = %+v, %v", both, err)
	}
}

func TestInMemoryStoreUpsertBySession(t *testing.T) {
	store := NewInMemoryStore()
	base := time.Now()

	checkpoint := sampleResponse("s1", "exit", false, base)
	if err := store.SaveResponse(checkpoint); err != nil {
		t.Fatalf("SaveResponse failed: %v", err)
	}

	final := sampleResponse("s1", "exit", true, base)
	final.Answers = append(final.Answers, api.Answer{QuestionID: "q2", Value: "also", Timestamp: base})
	if err := store.SaveResponse(final); err != nil {
		t.Fatalf("SaveResponse failed: %v", err)
	}

	got, err := store.GetResponse("s1")
	if err != nil {
		t.Fatalf("GetResponse failed: %v", err)
	}
	if !got.Completed || len(got.Answers) != 2 {
		t.Fatalf("upsert did not replace: %+v", got)
	}

	all, err := store.ListResponses(ResponseFilter{})
	if err != nil || len(all) != 1 {
		t.Fatalf("upsert produced duplicates: %+v, %v", all, err)
	}
}
