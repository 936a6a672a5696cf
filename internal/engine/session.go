package engine

import (
	"context"
	"strings"
	"time"

	"github.com/petrijr/formflow/internal/flow"
	"github.com/petrijr/formflow/internal/persistence"
	"github.com/petrijr/formflow/internal/validate"
	"github.com/petrijr/formflow/pkg/api"
)

// session is the stateful walk of one respondent through one survey.
// It owns the current position, the visited-question stack and the answer
// map; all flow decisions are delegated to the pure internal/flow and
// internal/validate packages.
type session struct {
	eng *engineImpl
	cfg api.SurveyConfig
	id  string

	startTime time.Time
	enteredAt time.Time

	current string
	visited []string

	// answers holds at most one live answer per question; order remembers
	// the sequence in which questions were first answered so the final
	// response lists answers in a stable order.
	answers map[string]api.Answer
	order   []string

	pending *api.Answer
	done    bool
}

var _ api.Session = (*session)(nil)

func newSession(eng *engineImpl, cfg api.SurveyConfig, id string) *session {
	return &session{
		eng:     eng,
		cfg:     cfg,
		id:      id,
		current: cfg.StartQuestionID,
		answers: make(map[string]api.Answer),
	}
}

// start fires the session lifecycle notifications and seeds the pending
// answer if the start question is display-only.
func (s *session) start(ctx context.Context) {
	now := time.Now()
	s.startTime = now
	s.enteredAt = now

	s.eng.observer.OnSessionStart(ctx, s.cfg.ID, s.id)
	if q, ok := s.cfg.QuestionByID(s.current); ok {
		s.seedPending(q)
		s.eng.observer.OnQuestionEnter(ctx, s.id, q)
	}
}

func (s *session) SurveyID() string  { return s.cfg.ID }
func (s *session) SessionID() string { return s.id }

func (s *session) Current() (api.Question, bool) {
	if s.done {
		return api.Question{}, false
	}
	return s.cfg.QuestionByID(s.current)
}

func (s *session) State() api.FlowState {
	visited := make([]string, len(s.visited))
	copy(visited, s.visited)

	answers := make(map[string]api.Answer, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	return api.FlowState{
		CurrentQuestionID: s.current,
		VisitedQuestions:  visited,
		Answers:           answers,
		CanGoBack:         len(s.visited) > 0 && !s.done,
		CanGoNext:         !s.done,
	}
}

func (s *session) Answers() []api.Answer {
	out := make([]api.Answer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.answers[id])
	}
	return out
}

func (s *session) CanGoBack() bool {
	return len(s.visited) > 0 && !s.done
}

func (s *session) SetAnswer(value any) {
	s.pending = &api.Answer{
		QuestionID: s.current,
		Value:      value,
		Timestamp:  time.Now(),
	}
}

func (s *session) Answer(ctx context.Context, value any) (*api.NextResult, error) {
	s.SetAnswer(value)
	return s.Next(ctx)
}

func (s *session) Next(ctx context.Context) (*api.NextResult, error) {
	if s.done {
		return nil, api.ErrSessionEnded
	}

	q, ok := s.cfg.QuestionByID(s.current)
	if !ok {
		// Registration validates the start id and jump targets, so this is
		// unreachable for registered configs; fall back to ending cleanly.
		return s.end(ctx, q), nil
	}

	// A literal redirect on the next control bypasses validation entirely
	// and leaves the session untouched: from the engine's point of view the
	// respondent is gone.
	if url := q.RedirectURL(); url != "" {
		return &api.NextResult{Outcome: api.OutcomeRedirect, RedirectURL: url}, nil
	}

	if err := validate.Candidate(q, s.pending); err != nil {
		if verr, isValidation := api.IsValidationError(err); isValidation {
			s.eng.observer.OnValidationError(ctx, s.id, q, verr)
		} else {
			s.eng.observer.OnFatalError(ctx, s.id, err)
		}
		return nil, err
	}

	// Record the answer; an optional question left unanswered records the
	// empty string rather than being skipped, so the response always tells
	// apart "seen and skipped" from "never reached".
	ans := api.Answer{QuestionID: q.ID, Value: "", Timestamp: time.Now()}
	if s.pending != nil {
		ans.Value = normalizeValue(s.pending.Value)
	}
	s.record(ans)
	s.visited = append(s.visited, q.ID)
	s.eng.observer.OnAnswerRecorded(ctx, s.id, ans)

	// Submit checkpoint: flush the answers collected so far and keep going.
	if q.Submit {
		snap := s.response(false)
		s.eng.observer.OnSubmit(ctx, snap)
		s.eng.persistResponse(ctx, snap)
	}

	nextID := flow.Resolve(q, s.cfg.Questions, s.visited, s.answers)
	if nextID != "" {
		if nq, found := s.cfg.QuestionByID(nextID); found {
			return s.advance(ctx, q, nq), nil
		}
		// A jump target missing from the list degrades to end-of-survey
		// instead of stranding the respondent.
	}

	return s.end(ctx, q), nil
}

// advance moves the session from q to nq. Reaching a final question fires
// the completion alongside the transition: the respondent still sees the
// final screen, but the response is already complete.
func (s *session) advance(ctx context.Context, q, nq api.Question) *api.NextResult {
	var resp *api.SurveyResponse
	if nq.Final {
		resp = s.response(true)
		s.eng.observer.OnComplete(ctx, resp)
		s.eng.persistResponse(ctx, resp)
	}

	s.eng.observer.OnQuestionLeave(ctx, s.id, q, time.Since(s.enteredAt))
	s.current = nq.ID
	s.enteredAt = time.Now()
	s.seedPending(nq)
	s.eng.observer.OnQuestionEnter(ctx, s.id, nq)

	return &api.NextResult{
		Outcome:    api.OutcomeAdvanced,
		QuestionID: nq.ID,
		Response:   resp,
	}
}

// end finalizes the session when no next question exists. An ending
// question flagged submit triggers the submission callback; one flagged
// final triggers completion; a plainly exhausted list defaults to
// completion.
func (s *session) end(ctx context.Context, q api.Question) *api.NextResult {
	resp := s.response(true)
	s.done = true
	s.pending = nil

	switch {
	case q.Submit:
		s.eng.observer.OnSubmit(ctx, resp)
	default:
		s.eng.observer.OnComplete(ctx, resp)
	}
	s.eng.persistResponse(ctx, resp)

	return &api.NextResult{Outcome: api.OutcomeEnded, Response: resp}
}

func (s *session) Back(ctx context.Context) bool {
	if s.done || len(s.visited) == 0 {
		return false
	}

	if q, ok := s.cfg.QuestionByID(s.current); ok {
		s.eng.observer.OnQuestionLeave(ctx, s.id, q, time.Since(s.enteredAt))
	}

	prev := s.visited[len(s.visited)-1]
	s.visited = s.visited[:len(s.visited)-1]
	s.current = prev
	s.enteredAt = time.Now()

	// Answers are kept across back-navigation; the previous answer becomes
	// the pending candidate so the respondent doesn't retype it.
	if ans, ok := s.answers[prev]; ok {
		restored := ans
		s.pending = &restored
	} else {
		s.pending = nil
	}

	if q, ok := s.cfg.QuestionByID(prev); ok {
		s.eng.observer.OnQuestionEnter(ctx, s.id, q)
	}

	return true
}

func (s *session) Abandon(ctx context.Context) *api.SurveyResponse {
	if s.done {
		return nil
	}
	resp := s.response(false)
	s.done = true
	s.pending = nil

	s.eng.observer.OnAbandon(ctx, resp)
	s.eng.persistResponse(ctx, resp)
	return resp
}

// record replaces any live answer for the question, keeping the position
// the question first appeared at.
func (s *session) record(ans api.Answer) {
	if _, exists := s.answers[ans.QuestionID]; !exists {
		s.order = append(s.order, ans.QuestionID)
	}
	s.answers[ans.QuestionID] = ans
}

// seedPending prepares the candidate answer for a question that just became
// current: a previously recorded answer is restored (back-then-forward), and
// display-only questions auto-answer with the empty string so that Next can
// advance without renderer input.
func (s *session) seedPending(q api.Question) {
	if ans, ok := s.answers[q.ID]; ok {
		restored := ans
		s.pending = &restored
		return
	}
	if q.DisplayOnly() {
		s.pending = &api.Answer{QuestionID: q.ID, Value: "", Timestamp: time.Now()}
		return
	}
	s.pending = nil
}

func (s *session) response(completed bool) *api.SurveyResponse {
	return &api.SurveyResponse{
		SurveyID:  s.cfg.ID,
		SessionID: s.id,
		Answers:   s.Answers(),
		Completed: completed,
		StartTime: s.startTime,
		EndTime:   time.Now(),
		Metadata:  s.cfg.Metadata,
	}
}

// normalizeValue trims string answers and maps loosely-typed list and map
// values onto their canonical forms.
func normalizeValue(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return persistence.NormalizeValue(v)
}
