package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/petrijr/formflow/pkg/api"
)

// Answer values are config-shaped data (strings, string lists, string maps),
// so responses are stored as JSON rather than an opaque binary encoding:
// rows stay inspectable with ordinary database tooling.

// EncodeAnswers serializes the ordered answer list of a response.
func EncodeAnswers(answers []api.Answer) ([]byte, error) {
	if answers == nil {
		answers = []api.Answer{}
	}
	return json.Marshal(answers)
}

// DecodeAnswers restores an answer list, normalizing values that JSON
// widened to []any or map[string]any back to their canonical forms.
func DecodeAnswers(data []byte) ([]api.Answer, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var answers []api.Answer
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	for i := range answers {
		answers[i].Value = NormalizeValue(answers[i].Value)
	}
	return answers, nil
}

// EncodeMetadata serializes response metadata; nil maps encode to nil.
func EncodeMetadata(meta map[string]any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	return json.Marshal(meta)
}

// DecodeMetadata restores response metadata.
func DecodeMetadata(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var meta map[string]any
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return meta, nil
}

// EncodeResponse serializes a whole response (used by key-value stores).
func EncodeResponse(resp *api.SurveyResponse) ([]byte, error) {
	return json.Marshal(resp)
}

// DecodeResponse restores a whole response, normalizing answer values.
func DecodeResponse(data []byte) (*api.SurveyResponse, error) {
	if len(data) == 0 {
		return nil, ErrResponseNotFound
	}
	var resp api.SurveyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	for i := range resp.Answers {
		resp.Answers[i].Value = NormalizeValue(resp.Answers[i].Value)
	}
	return &resp, nil
}

// NormalizeValue maps decoded answer values onto the canonical value forms:
// string, []string, or map[string]string. Values that don't fit any of them
// are returned unchanged.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			s, ok := e.(string)
			if !ok {
				return v
			}
			out = append(out, s)
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(val))
		for k, e := range val {
			s, ok := e.(string)
			if !ok {
				return v
			}
			out[k] = s
		}
		return out
	}
	return v
}
