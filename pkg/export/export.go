// Package export turns stored survey responses into CSV or JSON documents
// and computes aggregate summaries over them.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

// Options controls which columns and fields are emitted.
type Options struct {
	// IncludeTimestamps adds startTime and endTime columns (RFC 3339).
	IncludeTimestamps bool
	// IncludeMetadata adds a metadata column with the response metadata as
	// a JSON document.
	IncludeMetadata bool
}

// WriteCSV writes responses as CSV to w. The column set is sessionId,
// completed, optional timestamps, one column per question id (sorted), and
// optional metadata. Multi-value answers are joined with "; ".
func WriteCSV(w io.Writer, responses []*api.SurveyResponse, opts Options) error {
	if len(responses) == 0 {
		return nil
	}

	questionIDs := collectQuestionIDs(responses)

	cw := csv.NewWriter(w)

	header := []string{"sessionId", "completed"}
	if opts.IncludeTimestamps {
		header = append(header, "startTime", "endTime")
	}
	header = append(header, questionIDs...)
	if opts.IncludeMetadata {
		header = append(header, "metadata")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, resp := range responses {
		row := []string{resp.SessionID, strconv.FormatBool(resp.Completed)}
		if opts.IncludeTimestamps {
			row = append(row, formatTime(resp.StartTime), formatTime(resp.EndTime))
		}

		byQuestion := make(map[string]api.Answer, len(resp.Answers))
		for _, a := range resp.Answers {
			byQuestion[a.QuestionID] = a
		}
		for _, id := range questionIDs {
			if a, ok := byQuestion[id]; ok {
				row = append(row, CellValue(a.Value))
			} else {
				row = append(row, "")
			}
		}

		if opts.IncludeMetadata {
			row = append(row, metadataCell(resp.Metadata))
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToCSV renders responses as a CSV string.
func ToCSV(responses []*api.SurveyResponse, opts Options) (string, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, responses, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Results is the document shape of the JSON export.
type Results struct {
	Responses []*api.SurveyResponse `json:"responses"`
	Summary   Summary               `json:"summary"`
}

// WriteJSON writes responses plus a summary to w as indented JSON.
func WriteJSON(w io.Writer, responses []*api.SurveyResponse, opts Options) error {
	out := make([]*api.SurveyResponse, 0, len(responses))
	for _, resp := range responses {
		if opts.IncludeMetadata {
			out = append(out, resp)
			continue
		}
		stripped := *resp
		stripped.Metadata = nil
		out = append(out, &stripped)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Results{Responses: out, Summary: Summarize(responses)}); err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	return nil
}

// ToJSON renders responses plus a summary as a JSON string.
func ToJSON(responses []*api.SurveyResponse, opts Options) (string, error) {
	var sb strings.Builder
	if err := WriteJSON(&sb, responses, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// AnswerCount is one answer value with its occurrence count.
type AnswerCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// QuestionSummary aggregates the answers one question received.
type QuestionSummary struct {
	TotalAnswers  int           `json:"totalAnswers"`
	UniqueAnswers int           `json:"uniqueAnswers"`
	MostCommon    []AnswerCount `json:"mostCommonAnswers"`
}

// Summary aggregates a set of responses.
type Summary struct {
	TotalResponses int                        `json:"totalResponses"`
	CompletionRate float64                    `json:"completionRate"`
	AverageTime    time.Duration              `json:"averageTime"`
	Questions      map[string]QuestionSummary `json:"questionStats"`
}

// Summarize computes totals, the completion rate, the average completion
// time, and per-question answer statistics. Each element of a list answer
// counts as one answer; the five most common values per question are kept.
func Summarize(responses []*api.SurveyResponse) Summary {
	sum := Summary{
		TotalResponses: len(responses),
		Questions:      make(map[string]QuestionSummary),
	}

	var completed int
	var completedTime time.Duration
	counts := make(map[string]map[string]int)
	totals := make(map[string]int)

	for _, resp := range responses {
		if resp.Completed {
			completed++
			completedTime += resp.EndTime.Sub(resp.StartTime)
		}
		for _, a := range resp.Answers {
			byValue := counts[a.QuestionID]
			if byValue == nil {
				byValue = make(map[string]int)
				counts[a.QuestionID] = byValue
			}
			for _, v := range answerValues(a.Value) {
				byValue[v]++
				totals[a.QuestionID]++
			}
		}
	}

	if len(responses) > 0 {
		sum.CompletionRate = float64(completed) / float64(len(responses)) * 100
	}
	if completed > 0 {
		sum.AverageTime = completedTime / time.Duration(completed)
	}

	for id, byValue := range counts {
		common := make([]AnswerCount, 0, len(byValue))
		for v, n := range byValue {
			common = append(common, AnswerCount{Value: v, Count: n})
		}
		sort.Slice(common, func(i, j int) bool {
			if common[i].Count != common[j].Count {
				return common[i].Count > common[j].Count
			}
			return common[i].Value < common[j].Value
		})
		if len(common) > 5 {
			common = common[:5]
		}
		sum.Questions[id] = QuestionSummary{
			TotalAnswers:  totals[id],
			UniqueAnswers: len(byValue),
			MostCommon:    common,
		}
	}

	return sum
}

// CellValue renders an answer value as a single cell: lists joined with
// "; ", maps as key=value pairs in key order, everything else stringified.
func CellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, "; ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, "; ")
	case map[string]string:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+val[k])
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// answerValues flattens an answer value into its countable elements.
func answerValues(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{""}
	case []string:
		if len(val) == 0 {
			return nil
		}
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return []string{CellValue(v)}
	}
}

func collectQuestionIDs(responses []*api.SurveyResponse) []string {
	seen := make(map[string]bool)
	for _, resp := range responses {
		for _, a := range resp.Answers {
			seen[a.QuestionID] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func metadataCell(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(data)
}
