package flow

import "github.com/petrijr/formflow/pkg/api"

// NextID returns the id of the first question declared strictly after
// current that has not been visited and is not hidden. It returns "" when
// no such question exists, which signals end-of-survey.
func NextID(current api.Question, questions []api.Question, visited []string) string {
	idx := -1
	for i, q := range questions {
		if q.ID == current.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ""
	}

	for _, q := range questions[idx+1:] {
		if q.Hidden || contains(visited, q.ID) {
			continue
		}
		return q.ID
	}
	return ""
}

// ConditionalNextID returns the jump target of the current question's next
// control if its condition is satisfied, "" otherwise. Jump targets bypass
// the hidden filter: a satisfied condition may land on a hidden question.
func ConditionalNextID(current api.Question, answers map[string]api.Answer) string {
	cond := current.JumpCondition()
	if cond == nil {
		return ""
	}
	if Evaluate(*cond, answers) {
		return cond.Action.ElementID
	}
	return ""
}

// Resolve applies the priority rule used by the session: an explicit jump
// wins over declaration order; default order still skips hidden and visited
// questions.
func Resolve(current api.Question, questions []api.Question, visited []string, answers map[string]api.Answer) string {
	if id := ConditionalNextID(current, answers); id != "" {
		return id
	}
	return NextID(current, questions, visited)
}

// IsLast reports whether no unvisited, non-hidden question other than the
// current one remains.
func IsLast(current api.Question, questions []api.Question, visited []string) bool {
	for _, q := range questions {
		if q.ID == current.ID || q.Hidden || contains(visited, q.ID) {
			continue
		}
		return false
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
