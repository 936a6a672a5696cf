package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

// fakeClock drives the tracker's notion of time deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(threshold time.Duration) (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	tr := NewTrackerWithThreshold(threshold)
	tr.now = clock.now
	return tr, clock
}

func onboardingConfig() api.SurveyConfig {
	return api.SurveyConfig{
		ID:              "onboarding",
		StartQuestionID: "q1",
		Questions: []api.Question{
			{ID: "q1", Type: api.QuestionText},
			{ID: "q2", Type: api.QuestionText},
			{ID: "q3", Type: api.QuestionInfo, Final: true},
		},
	}
}

// walk simulates the observer callbacks of one session, answering the given
// questions with the given dwell time each.
func walk(tr *Tracker, clock *fakeClock, sessionID string, dwell time.Duration, questionIDs ...string) {
	ctx := context.Background()
	tr.OnSessionStart(ctx, "onboarding", sessionID)
	for _, id := range questionIDs {
		q := api.Question{ID: id, Type: api.QuestionText}
		tr.OnQuestionEnter(ctx, sessionID, q)
		clock.advance(dwell)
		tr.OnAnswerRecorded(ctx, sessionID, api.Answer{QuestionID: id})
		tr.OnQuestionLeave(ctx, sessionID, q, dwell)
	}
}

func TestTrackerSessionSnapshot(t *testing.T) {
	tr, clock := newTestTracker(0)
	tr.ObserveSurvey(onboardingConfig())

	walk(tr, clock, "s1", 10*time.Second, "q1", "q2")
	tr.OnQuestionEnter(context.Background(), "s1", api.Question{ID: "q3"})
	clock.advance(5 * time.Second)

	snap, ok := tr.SessionSnapshot("s1")
	if !ok {
		t.Fatal("snapshot missing for tracked session")
	}
	if snap.CurrentQuestionID != "q3" {
		t.Fatalf("current = %q", snap.CurrentQuestionID)
	}
	if snap.Progress.TotalQuestions != 3 || snap.Progress.AnsweredQuestions != 2 {
		t.Fatalf("progress = %+v", snap.Progress)
	}
	if want := float64(2) / 3 * 100; snap.Progress.Percentage != want {
		t.Fatalf("percentage = %v, want %v", snap.Progress.Percentage, want)
	}
	if snap.TotalTime != 25*time.Second {
		t.Fatalf("total time = %s", snap.TotalTime)
	}
	if snap.AvgTimePerQuestion != 10*time.Second {
		t.Fatalf("avg per question = %s", snap.AvgTimePerQuestion)
	}
	if snap.CurrentQuestionTime != 5*time.Second {
		t.Fatalf("current question time = %s", snap.CurrentQuestionTime)
	}
}

func TestTrackerSnapshotUnknownSession(t *testing.T) {
	tr, _ := newTestTracker(0)
	if _, ok := tr.SessionSnapshot("ghost"); ok {
		t.Fatal("snapshot reported for unknown session")
	}
}

func TestTrackerQuestionTimings(t *testing.T) {
	tr, clock := newTestTracker(0)
	walk(tr, clock, "s1", 3*time.Second, "q1", "q2")

	timings := tr.QuestionTimings("s1")
	if len(timings) != 2 {
		t.Fatalf("timings = %+v", timings)
	}
	if timings[0].QuestionID != "q1" || timings[0].TimeSpent != 3*time.Second {
		t.Fatalf("first timing = %+v", timings[0])
	}
}

func TestTrackerAbandonmentByInactivity(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)
	ctx := context.Background()

	walk(tr, clock, "s1", time.Second, "q1")
	tr.OnQuestionEnter(ctx, "s1", api.Question{ID: "q2"})

	if tr.IsAbandoned("s1") {
		t.Fatal("fresh session reported abandoned")
	}

	clock.advance(2 * time.Minute)
	if !tr.IsAbandoned("s1") {
		t.Fatal("inactive session not reported abandoned")
	}

	// Completion wins over staleness.
	tr.OnComplete(ctx, &api.SurveyResponse{SessionID: "s1"})
	if tr.IsAbandoned("s1") {
		t.Fatal("completed session reported abandoned")
	}
}

func TestTrackerSurveySummary(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)
	ctx := context.Background()

	// Completed session: two questions, 10s each.
	walk(tr, clock, "done", 10*time.Second, "q1", "q2")
	tr.OnComplete(ctx, &api.SurveyResponse{SessionID: "done"})

	// Explicitly abandoned session stuck on q2.
	walk(tr, clock, "gone", 20*time.Second, "q1")
	tr.OnQuestionEnter(ctx, "gone", api.Question{ID: "q2"})
	tr.OnAbandon(ctx, &api.SurveyResponse{SessionID: "gone"})

	sum := tr.SurveySummary("onboarding")
	if sum.TotalSessions != 2 || sum.CompletedSessions != 1 || sum.AbandonedSessions != 1 {
		t.Fatalf("session counts wrong: %+v", sum)
	}
	if sum.CompletionRate != 50 {
		t.Fatalf("completion rate = %v", sum.CompletionRate)
	}
	if sum.AvgCompletionTime != 20*time.Second {
		t.Fatalf("avg completion time = %s", sum.AvgCompletionTime)
	}
	// Three timed stays: 10+10+20 over 3.
	if want := 40 * time.Second / 3; sum.AvgQuestionTime != want {
		t.Fatalf("avg question time = %s, want %s", sum.AvgQuestionTime, want)
	}

	if len(sum.Questions) != 2 {
		t.Fatalf("question stats = %+v", sum.Questions)
	}
	q1 := sum.Questions[0]
	if q1.QuestionID != "q1" || q1.TimesViewed != 2 || q1.AvgTime != 15*time.Second {
		t.Fatalf("q1 stats = %+v", q1)
	}

	if len(sum.Abandoned) != 1 {
		t.Fatalf("abandoned list = %+v", sum.Abandoned)
	}
	ab := sum.Abandoned[0]
	if ab.SessionID != "gone" || ab.LastQuestionID != "q2" || ab.QuestionsCompleted != 1 {
		t.Fatalf("abandoned entry = %+v", ab)
	}
}

func TestTrackerSummaryIgnoresOtherSurveys(t *testing.T) {
	tr, clock := newTestTracker(0)
	ctx := context.Background()

	tr.OnSessionStart(ctx, "other-survey", "x")
	walk(tr, clock, "s1", time.Second, "q1")
	tr.OnComplete(ctx, &api.SurveyResponse{SessionID: "s1"})

	sum := tr.SurveySummary("onboarding")
	if sum.TotalSessions != 1 {
		t.Fatalf("summary leaked other surveys: %+v", sum)
	}
}

func TestTrackerReset(t *testing.T) {
	tr, clock := newTestTracker(0)
	walk(tr, clock, "s1", time.Second, "q1")

	tr.Reset()
	if _, ok := tr.SessionSnapshot("s1"); ok {
		t.Fatal("session survived Reset")
	}
}
