package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

// eventLog records observer callbacks in order; sessions are synchronous so
// no locking is needed.
type eventLog struct {
	api.NoopObserver
	events []string
}

func (l *eventLog) OnSessionStart(ctx context.Context, surveyID, sessionID string) {
	l.events = append(l.events, "session_start")
}

func (l *eventLog) OnQuestionEnter(ctx context.Context, sessionID string, q api.Question) {
	l.events = append(l.events, "enter:"+q.ID)
}

func (l *eventLog) OnQuestionLeave(ctx context.Context, sessionID string, q api.Question, d time.Duration) {
	l.events = append(l.events, "leave:"+q.ID)
}

func (l *eventLog) OnAnswerRecorded(ctx context.Context, sessionID string, a api.Answer) {
	l.events = append(l.events, "answer:"+a.QuestionID)
}

func (l *eventLog) OnValidationError(ctx context.Context, sessionID string, q api.Question, verr *api.ValidationError) {
	l.events = append(l.events, "invalid:"+q.ID)
}

func (l *eventLog) OnSubmit(ctx context.Context, resp *api.SurveyResponse) {
	l.events = append(l.events, fmt.Sprintf("submit:%v", resp.Completed))
}

func (l *eventLog) OnComplete(ctx context.Context, resp *api.SurveyResponse) {
	l.events = append(l.events, "complete")
}

func (l *eventLog) OnAbandon(ctx context.Context, resp *api.SurveyResponse) {
	l.events = append(l.events, "abandon")
}

func (l *eventLog) assertEvents(t *testing.T, want []string) {
	t.Helper()
	if len(l.events) != len(want) {
		t.Fatalf("events = %v\nwant %v", l.events, want)
	}
	for i := range want {
		if l.events[i] != want[i] {
			t.Fatalf("event[%d] = %q, want %q\nfull: %v", i, l.events[i], want[i], l.events)
		}
	}
}

func startObservedSession(t *testing.T, cfg api.SurveyConfig) (api.Session, *eventLog) {
	t.Helper()

	log := &eventLog{}
	eng := NewInMemoryEngineWithObserver(log)
	if err := eng.RegisterSurvey(cfg); err != nil {
		t.Fatalf("RegisterSurvey failed: %v", err)
	}
	s, err := eng.StartSession(context.Background(), cfg.ID)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	return s, log
}

func TestObserverEventOrderFullWalk(t *testing.T) {
	ctx := context.Background()
	cfg := api.SurveyConfig{
		ID:              "walk",
		StartQuestionID: "q1",
		Questions: []api.Question{
			{ID: "q1", Type: api.QuestionText, Title: "One"},
			{ID: "q2", Type: api.QuestionText, Title: "Two"},
		},
	}
	s, log := startObservedSession(t, cfg)

	if _, err := s.Answer(ctx, "a"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if _, err := s.Answer(ctx, "b"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	log.assertEvents(t, []string{
		"session_start",
		"enter:q1",
		"answer:q1",
		"leave:q1",
		"enter:q2",
		"answer:q2",
		"complete",
	})
}

func TestObserverValidationErrorEvent(t *testing.T) {
	ctx := context.Background()
	cfg := api.SurveyConfig{
		ID:              "strict",
		StartQuestionID: "q1",
		Questions: []api.Question{
			{ID: "q1", Type: api.QuestionText, Title: "One", Required: true},
		},
	}
	s, log := startObservedSession(t, cfg)

	if _, err := s.Next(ctx); err == nil {
		t.Fatal("expected validation error")
	}

	log.assertEvents(t, []string{"session_start", "enter:q1", "invalid:q1"})
}

func TestObserverSubmitCheckpointEvents(t *testing.T) {
	ctx := context.Background()
	cfg := api.SurveyConfig{
		ID:              "checkpointed",
		StartQuestionID: "q1",
		Questions: []api.Question{
			{ID: "q1", Type: api.QuestionText, Title: "One", Submit: true},
			{ID: "q2", Type: api.QuestionText, Title: "Two"},
		},
	}
	s, log := startObservedSession(t, cfg)

	if _, err := s.Answer(ctx, "a"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if _, err := s.Answer(ctx, "b"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	log.assertEvents(t, []string{
		"session_start",
		"enter:q1",
		"answer:q1",
		"submit:false", // mid-flow checkpoint
		"leave:q1",
		"enter:q2",
		"answer:q2",
		"complete",
	})
}

func TestObserverSubmitEndingQuestionFiresTwice(t *testing.T) {
	ctx := context.Background()
	cfg := api.SurveyConfig{
		ID:              "submit-last",
		StartQuestionID: "q1",
		Questions: []api.Question{
			{ID: "q1", Type: api.QuestionText, Title: "Only", Submit: true},
		},
	}
	s, log := startObservedSession(t, cfg)

	if _, err := s.Answer(ctx, "a"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	// A submit-flagged question that also ends the survey fires the
	// checkpoint snapshot and then the terminal submission.
	log.assertEvents(t, []string{
		"session_start",
		"enter:q1",
		"answer:q1",
		"submit:false",
		"submit:true",
	})
}

func TestObserverFinalTransitionCompletesBeforeEnter(t *testing.T) {
	ctx := context.Background()
	cfg := api.SurveyConfig{
		ID:              "final",
		StartQuestionID: "q1",
		Questions: []api.Question{
			{ID: "q1", Type: api.QuestionText, Title: "One"},
			{ID: "bye", Type: api.QuestionInfo, Title: "Bye", Final: true},
		},
	}
	s, log := startObservedSession(t, cfg)

	if _, err := s.Answer(ctx, "a"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	log.assertEvents(t, []string{
		"session_start",
		"enter:q1",
		"answer:q1",
		"complete", // fires alongside the transition onto the final screen
		"leave:q1",
		"enter:bye",
	})
}

func TestObserverBackFiresLeaveAndEnter(t *testing.T) {
	ctx := context.Background()
	cfg := api.SurveyConfig{
		ID:              "revisit",
		StartQuestionID: "q1",
		Questions: []api.Question{
			{ID: "q1", Type: api.QuestionText, Title: "One"},
			{ID: "q2", Type: api.QuestionText, Title: "Two"},
		},
	}
	s, log := startObservedSession(t, cfg)

	if _, err := s.Answer(ctx, "a"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if !s.Back(ctx) {
		t.Fatal("Back failed")
	}

	// Re-entering q1 via Back notifies like any other transition.
	log.assertEvents(t, []string{
		"session_start",
		"enter:q1",
		"answer:q1",
		"leave:q1",
		"enter:q2",
		"leave:q2",
		"enter:q1",
	})

	// Back at the start question moves nothing and stays silent.
	before := len(log.events)
	if s.Back(ctx) {
		t.Fatal("Back at the start question should report false")
	}
	if len(log.events) != before {
		t.Fatalf("failed Back fired events: %v", log.events[before:])
	}
}

func TestObserverAbandonEvent(t *testing.T) {
	ctx := context.Background()
	cfg := api.SurveyConfig{
		ID:              "walkaway",
		StartQuestionID: "q1",
		Questions: []api.Question{
			{ID: "q1", Type: api.QuestionText, Title: "One"},
			{ID: "q2", Type: api.QuestionText, Title: "Two"},
		},
	}
	s, log := startObservedSession(t, cfg)

	if _, err := s.Answer(ctx, "a"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	s.Abandon(ctx)

	log.assertEvents(t, []string{
		"session_start",
		"enter:q1",
		"answer:q1",
		"leave:q1",
		"enter:q2",
		"abandon",
	})
}
