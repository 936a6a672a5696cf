// Package analytics provides a session-level analytics observer for survey
// engines: question timings, progress snapshots, abandonment detection, and
// cross-session summaries.
//
// The Tracker attaches to an engine as an Observer and records everything it
// sees in memory. It is intended for developers analyzing survey performance
// and respondent behavior; it never affects flow.
package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

// DefaultAbandonmentThreshold is the inactivity window after which a live
// session is considered abandoned.
const DefaultAbandonmentThreshold = 30 * time.Minute

// QuestionTiming records one stay on one question.
type QuestionTiming struct {
	QuestionID string        `json:"questionId"`
	EnteredAt  time.Time     `json:"enteredAt"`
	LeftAt     time.Time     `json:"leftAt"`
	TimeSpent  time.Duration `json:"timeSpent"`
}

// Progress describes how far a session has advanced.
type Progress struct {
	TotalQuestions    int     `json:"totalQuestions"`
	AnsweredQuestions int     `json:"answeredQuestions"`
	Percentage        float64 `json:"completionPercentage"`
}

// Snapshot is a point-in-time view of one session's analytics.
type Snapshot struct {
	SurveyID  string    `json:"surveyId"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`

	CurrentQuestionID string   `json:"currentQuestionId,omitempty"`
	Progress          Progress `json:"progress"`

	TotalTime           time.Duration `json:"totalTime"`
	AvgTimePerQuestion  time.Duration `json:"averageTimePerQuestion"`
	CurrentQuestionTime time.Duration `json:"currentQuestionTime"`
}

// AbandonedSession describes a session that stopped before completion.
type AbandonedSession struct {
	SurveyID           string        `json:"surveyId"`
	SessionID          string        `json:"sessionId"`
	AbandonedAt        time.Time     `json:"abandonedAt"`
	LastQuestionID     string        `json:"lastQuestionId"`
	QuestionsCompleted int           `json:"questionsCompleted"`
	TimeSpent          time.Duration `json:"timeSpent"`
}

// QuestionStats aggregates per-question behavior across sessions.
type QuestionStats struct {
	QuestionID      string        `json:"questionId"`
	TimesViewed     int           `json:"timesViewed"`
	AvgTime         time.Duration `json:"averageTime"`
	AbandonmentRate float64       `json:"abandonmentRate"`
}

// Summary aggregates all sessions of one survey.
type Summary struct {
	TotalSessions     int           `json:"totalSessions"`
	CompletedSessions int           `json:"completedSessions"`
	AbandonedSessions int           `json:"abandonedSessions"`
	CompletionRate    float64       `json:"completionRate"`
	AvgCompletionTime time.Duration `json:"averageCompletionTime"`
	AvgQuestionTime   time.Duration `json:"averageTimePerQuestion"`

	Questions []QuestionStats    `json:"questions"`
	Abandoned []AbandonedSession `json:"abandonedSurveys"`
}

// sessionData is the mutable per-session record behind the tracker's lock.
type sessionData struct {
	surveyID  string
	sessionID string

	startTime    time.Time
	endTime      time.Time
	lastActivity time.Time

	current   string
	enteredAt time.Time

	timings  []QuestionTiming
	answered map[string]bool
	visited  map[string]bool

	completed bool
	abandoned bool
}

// Tracker is an api.Observer that collects per-session analytics.
// Pair it with an engine via NewInMemoryEngineWithObserver or compose it
// with other observers through api.NewCompositeObserver.
//
// Total question counts come from RegisterSurvey; call ObserveSurvey for
// each survey whose progress percentages should be meaningful.
type Tracker struct {
	api.NoopObserver

	mu             sync.Mutex
	sessions       map[string]*sessionData
	questionTotals map[string]int

	threshold time.Duration
	now       func() time.Time
}

var _ api.Observer = (*Tracker)(nil)

// NewTracker creates a Tracker with the default abandonment threshold.
func NewTracker() *Tracker {
	return NewTrackerWithThreshold(DefaultAbandonmentThreshold)
}

// NewTrackerWithThreshold creates a Tracker that marks a live session
// abandoned after the given inactivity window.
func NewTrackerWithThreshold(threshold time.Duration) *Tracker {
	if threshold <= 0 {
		threshold = DefaultAbandonmentThreshold
	}
	return &Tracker{
		sessions:       make(map[string]*sessionData),
		questionTotals: make(map[string]int),
		threshold:      threshold,
		now:            time.Now,
	}
}

// ObserveSurvey records the question count of a survey so that progress
// snapshots can report a completion percentage.
func (t *Tracker) ObserveSurvey(cfg api.SurveyConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.questionTotals[cfg.ID] = len(cfg.Questions)
}

func (t *Tracker) OnSessionStart(ctx context.Context, surveyID, sessionID string) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[sessionID] = &sessionData{
		surveyID:     surveyID,
		sessionID:    sessionID,
		startTime:    now,
		lastActivity: now,
		answered:     make(map[string]bool),
		visited:      make(map[string]bool),
	}
}

func (t *Tracker) OnQuestionEnter(ctx context.Context, sessionID string, q api.Question) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[sessionID]
	if !ok {
		return
	}
	s.current = q.ID
	s.enteredAt = now
	s.lastActivity = now
	s.visited[q.ID] = true
}

func (t *Tracker) OnQuestionLeave(ctx context.Context, sessionID string, q api.Question, d time.Duration) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[sessionID]
	if !ok {
		return
	}
	s.timings = append(s.timings, QuestionTiming{
		QuestionID: q.ID,
		EnteredAt:  now.Add(-d),
		LeftAt:     now,
		TimeSpent:  d,
	})
	s.lastActivity = now
}

func (t *Tracker) OnAnswerRecorded(ctx context.Context, sessionID string, a api.Answer) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[sessionID]
	if !ok {
		return
	}
	s.answered[a.QuestionID] = true
	s.lastActivity = now
}

func (t *Tracker) OnComplete(ctx context.Context, resp *api.SurveyResponse) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[resp.SessionID]
	if !ok {
		return
	}
	s.completed = true
	s.endTime = now
	s.lastActivity = now
	s.current = ""
}

func (t *Tracker) OnAbandon(ctx context.Context, resp *api.SurveyResponse) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[resp.SessionID]
	if !ok {
		return
	}
	s.abandoned = true
	s.endTime = now
	s.lastActivity = now
}

// SessionSnapshot returns a point-in-time view of one session, or false if
// the tracker has never seen it.
func (t *Tracker) SessionSnapshot(sessionID string) (Snapshot, bool) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return Snapshot{}, false
	}

	total := now.Sub(s.startTime)
	if s.completed || s.abandoned {
		total = s.endTime.Sub(s.startTime)
	}

	var currentTime time.Duration
	if s.current != "" && !s.enteredAt.IsZero() {
		currentTime = now.Sub(s.enteredAt)
	}

	answered := len(s.answered)
	var avg time.Duration
	if answered > 0 {
		var sum time.Duration
		for _, qt := range s.timings {
			sum += qt.TimeSpent
		}
		avg = sum / time.Duration(answered)
	}

	totalQs := t.questionTotals[s.surveyID]
	var pct float64
	if totalQs > 0 {
		pct = float64(answered) / float64(totalQs) * 100
	}

	return Snapshot{
		SurveyID:          s.surveyID,
		SessionID:         s.sessionID,
		Timestamp:         now,
		CurrentQuestionID: s.current,
		Progress: Progress{
			TotalQuestions:    totalQs,
			AnsweredQuestions: answered,
			Percentage:        pct,
		},
		TotalTime:           total,
		AvgTimePerQuestion:  avg,
		CurrentQuestionTime: currentTime,
	}, true
}

// QuestionTimings returns the recorded stays for one session in order.
func (t *Tracker) QuestionTimings(sessionID string) []QuestionTiming {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]QuestionTiming, len(s.timings))
	copy(out, s.timings)
	return out
}

// IsAbandoned reports whether a session is abandoned, either explicitly or
// because its inactivity exceeds the tracker's threshold.
func (t *Tracker) IsAbandoned(sessionID string) bool {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[sessionID]
	if !ok {
		return false
	}
	return t.isAbandonedLocked(s, now)
}

func (t *Tracker) isAbandonedLocked(s *sessionData, now time.Time) bool {
	if s.completed {
		return false
	}
	if s.abandoned {
		return true
	}
	return now.Sub(s.lastActivity) > t.threshold
}

// SurveySummary aggregates every session of surveyID the tracker has seen.
func (t *Tracker) SurveySummary(surveyID string) Summary {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()

	type qAgg struct {
		views        int
		total        time.Duration
		timed        int
		abandonments int
	}
	questions := make(map[string]*qAgg)

	var sum Summary
	var completionTotal time.Duration
	var completionCount int
	var questionTotal time.Duration
	var questionCount int

	for _, s := range t.sessions {
		if s.surveyID != surveyID {
			continue
		}
		sum.TotalSessions++

		for _, qt := range s.timings {
			agg := questions[qt.QuestionID]
			if agg == nil {
				agg = &qAgg{}
				questions[qt.QuestionID] = agg
			}
			agg.views++
			agg.total += qt.TimeSpent
			agg.timed++
			questionTotal += qt.TimeSpent
			questionCount++
		}

		if s.completed {
			sum.CompletedSessions++
			completionTotal += s.endTime.Sub(s.startTime)
			completionCount++
			continue
		}

		if t.isAbandonedLocked(s, now) {
			sum.AbandonedSessions++
			if agg := questions[s.current]; agg != nil {
				agg.abandonments++
			}
			if s.current != "" {
				sum.Abandoned = append(sum.Abandoned, AbandonedSession{
					SurveyID:           s.surveyID,
					SessionID:          s.sessionID,
					AbandonedAt:        s.lastActivity,
					LastQuestionID:     s.current,
					QuestionsCompleted: len(s.answered),
					TimeSpent:          s.lastActivity.Sub(s.startTime),
				})
			}
		}
	}

	if sum.TotalSessions > 0 {
		sum.CompletionRate = float64(sum.CompletedSessions) / float64(sum.TotalSessions) * 100
	}
	if completionCount > 0 {
		sum.AvgCompletionTime = completionTotal / time.Duration(completionCount)
	}
	if questionCount > 0 {
		sum.AvgQuestionTime = questionTotal / time.Duration(questionCount)
	}

	for id, agg := range questions {
		stats := QuestionStats{QuestionID: id, TimesViewed: agg.views}
		if agg.timed > 0 {
			stats.AvgTime = agg.total / time.Duration(agg.timed)
		}
		if agg.views > 0 {
			stats.AbandonmentRate = float64(agg.abandonments) / float64(agg.views) * 100
		}
		sum.Questions = append(sum.Questions, stats)
	}
	sort.Slice(sum.Questions, func(i, j int) bool {
		return sum.Questions[i].QuestionID < sum.Questions[j].QuestionID
	})
	sort.Slice(sum.Abandoned, func(i, j int) bool {
		return sum.Abandoned[i].SessionID < sum.Abandoned[j].SessionID
	})

	return sum
}

// Reset discards all recorded sessions.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = make(map[string]*sessionData)
}
