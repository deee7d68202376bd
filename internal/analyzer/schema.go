package analyzer

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Breakdown holds four independent percentage sub-scores. They do not add up to
// the overall score.
type Breakdown struct {
	Skills     int `json:"skills" validate:"gte=0,lte=100"`
	Experience int `json:"experience" validate:"gte=0,lte=100"`
	Education  int `json:"education" validate:"gte=0,lte=100"`
	Format     int `json:"format" validate:"gte=0,lte=100"`
}

// Result is the scored analysis returned by the service. ID is empty until the
// service reports it as persisted. Slices are never nil.
type Result struct {
	ID              string    `json:"id,omitempty"`
	Filename        string    `json:"filename"`
	OverallScore    int       `json:"overall_score" validate:"gte=0,lte=100"`
	Breakdown       Breakdown `json:"breakdown"`
	MatchedSkills   []string  `json:"matched_skills"`
	MissingSkills   []string  `json:"missing_skills"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}

// HistoryEntry is a persisted Result. Decoded entries always carry an ID.
type HistoryEntry = Result

// Stats are aggregates over the full server-side history, not over a fetched page.
type Stats struct {
	TotalAnalyses int     `json:"total_analyses" validate:"gte=0"`
	AverageScore  float64 `json:"average_score" validate:"gte=0,lte=100"`
	HighestScore  int     `json:"highest_score" validate:"gte=0,lte=100"`
	LowestScore   int     `json:"lowest_score" validate:"gte=0,lte=100"`
}

// Health is the answer of the service root endpoint.
type Health struct {
	Status  string `mapstructure:"status"`
	Message string `mapstructure:"message"`
	Version string `mapstructure:"version"`
}

type breakdownPayload struct {
	Skills     *float64 `mapstructure:"skills"`
	Experience *float64 `mapstructure:"experience"`
	Education  *float64 `mapstructure:"education"`
	Format     *float64 `mapstructure:"format"`
}

// resultPayload accepts both the analyze answer (score, analysis_id, timestamp)
// and the stored form (overall_score, id, created_at).
type resultPayload struct {
	ID              string           `mapstructure:"id"`
	AnalysisID      string           `mapstructure:"analysis_id"`
	Filename        string           `mapstructure:"filename"`
	Score           *float64         `mapstructure:"score"`
	OverallScore    *float64         `mapstructure:"overall_score"`
	Breakdown       breakdownPayload `mapstructure:"breakdown"`
	MatchedSkills   []string         `mapstructure:"matched_skills"`
	MissingSkills   []string         `mapstructure:"missing_skills"`
	Recommendations []string         `mapstructure:"recommendations"`
	CreatedAt       time.Time        `mapstructure:"created_at"`
	Timestamp       time.Time        `mapstructure:"timestamp"`
}

type statsPayload struct {
	TotalAnalyses *float64 `mapstructure:"total_analyses"`
	AverageScore  *float64 `mapstructure:"average_score"`
	HighestScore  *float64 `mapstructure:"highest_score"`
	LowestScore   *float64 `mapstructure:"lowest_score"`
}

var resultRequired = []string{"breakdown", "matched_skills", "missing_skills", "recommendations"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func decodeResult(raw map[string]any, payload string) (*Result, error) {
	var p resultPayload
	md, err := decodePayload(raw, &p)
	if err != nil {
		return nil, &SchemaError{Payload: payload, Reason: err.Error()}
	}

	unset := make(map[string]struct{}, len(md.Unset))
	for _, key := range md.Unset {
		unset[key] = struct{}{}
	}

	var missing []string
	for _, name := range resultRequired {
		if _, ok := unset[name]; ok {
			missing = append(missing, name)
		}
	}

	score := p.Score
	if score == nil {
		score = p.OverallScore
	}
	if score == nil {
		missing = append(missing, "score")
	}

	if _, ok := unset["breakdown"]; !ok {
		for _, field := range []struct {
			name  string
			value *float64
		}{
			{"breakdown.skills", p.Breakdown.Skills},
			{"breakdown.experience", p.Breakdown.Experience},
			{"breakdown.education", p.Breakdown.Education},
			{"breakdown.format", p.Breakdown.Format},
		} {
			if field.value == nil {
				missing = append(missing, field.name)
			}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Payload: payload, Fields: missing}
	}

	id := p.ID
	if id == "" {
		id = p.AnalysisID
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = p.Timestamp
	}

	result := &Result{
		ID:           strings.TrimSpace(id),
		Filename:     p.Filename,
		OverallScore: roundScore(*score),
		Breakdown: Breakdown{
			Skills:     roundScore(*p.Breakdown.Skills),
			Experience: roundScore(*p.Breakdown.Experience),
			Education:  roundScore(*p.Breakdown.Education),
			Format:     roundScore(*p.Breakdown.Format),
		},
		MatchedSkills:   nonNil(p.MatchedSkills),
		MissingSkills:   nonNil(p.MissingSkills),
		Recommendations: nonNil(p.Recommendations),
		CreatedAt:       createdAt,
	}

	if err := checkRanges(payload, result); err != nil {
		return nil, err
	}

	return result, nil
}

func decodeHistory(raw map[string]any) ([]*HistoryEntry, error) {
	value, ok := raw["analyses"]
	if !ok {
		return nil, &SchemaError{Payload: "history", Fields: []string{"analyses"}}
	}
	if value == nil {
		return []*HistoryEntry{}, nil
	}

	items, ok := value.([]any)
	if !ok {
		return nil, &SchemaError{Payload: "history", Fields: []string{"analyses"}, Reason: "expected a list"}
	}

	entries := make([]*HistoryEntry, 0, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("analyses[%d]", i)

		object, ok := item.(map[string]any)
		if !ok {
			return nil, &SchemaError{Payload: "history", Fields: []string{prefix}, Reason: "expected an object"}
		}

		entry, err := decodeEntry(object)
		if err != nil {
			var schemaErr *SchemaError
			if errors.As(err, &schemaErr) {
				return nil, &SchemaError{Payload: "history", Fields: prefixed(prefix, schemaErr.Fields), Reason: schemaErr.Reason}
			}
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func decodeEntry(raw map[string]any) (*HistoryEntry, error) {
	entry, err := decodeResult(raw, "history entry")
	if err != nil {
		return nil, err
	}

	if entry.ID == "" {
		return nil, &SchemaError{Payload: "history entry", Fields: []string{"id"}}
	}

	return entry, nil
}

func decodeStats(raw map[string]any) (*Stats, error) {
	object := raw
	if nested, ok := raw["stats"]; ok {
		object, ok = nested.(map[string]any)
		if !ok {
			return nil, &SchemaError{Payload: "stats", Fields: []string{"stats"}, Reason: "expected an object"}
		}
	} else if _, bare := raw["total_analyses"]; !bare {
		return nil, &SchemaError{Payload: "stats", Fields: []string{"stats"}}
	}

	var p statsPayload
	if _, err := decodePayload(object, &p); err != nil {
		return nil, &SchemaError{Payload: "stats", Reason: err.Error()}
	}

	var missing []string
	for _, field := range []struct {
		name  string
		value *float64
	}{
		{"average_score", p.AverageScore},
		{"highest_score", p.HighestScore},
		{"lowest_score", p.LowestScore},
		{"total_analyses", p.TotalAnalyses},
	} {
		if field.value == nil {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Payload: "stats", Fields: missing}
	}

	stats := &Stats{
		TotalAnalyses: int(math.Round(*p.TotalAnalyses)),
		AverageScore:  math.Round(*p.AverageScore*100) / 100,
		HighestScore:  roundScore(*p.HighestScore),
		LowestScore:   roundScore(*p.LowestScore),
	}

	if err := checkRanges("stats", stats); err != nil {
		return nil, err
	}

	return stats, nil
}

func decodePayload(raw map[string]any, target any) (*mapstructure.Metadata, error) {
	md := &mapstructure.Metadata{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         md,
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook:       timestampHook,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	return md, nil
}

func timestampHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}

	switch value := data.(type) {
	case string:
		return parseTimestamp(value)
	case float64:
		return time.Unix(int64(value), 0).UTC(), nil
	default:
		return data, nil
	}
}

// parseTimestamp accepts RFC 3339 and the zone-less forms stored by the service,
// which are read as UTC.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}

func checkRanges(payload string, value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &SchemaError{Payload: payload, Reason: err.Error()}
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		namespace := fieldErr.Namespace()
		if idx := strings.IndexByte(namespace, '.'); idx >= 0 {
			namespace = namespace[idx+1:]
		}
		fields = append(fields, namespace)
	}

	return &SchemaError{Payload: payload, Fields: fields, Reason: "value out of range"}
}

func roundScore(v float64) int {
	return int(math.Round(v))
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func prefixed(prefix string, fields []string) []string {
	if len(fields) == 0 {
		return []string{prefix}
	}

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, prefix+"."+field)
	}
	return out
}
