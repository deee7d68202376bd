package fakeservice

import (
	"math"
	"sync"
	"time"
)

const createdAtLayout = "2006-01-02 15:04:05"

// record is a stored analysis in the shape the history endpoints return.
type record struct {
	ID              int                `json:"id"`
	Filename        string             `json:"filename"`
	JobDescription  string             `json:"job_description"`
	OverallScore    float64            `json:"overall_score"`
	Breakdown       map[string]float64 `json:"breakdown"`
	MatchedSkills   []string           `json:"matched_skills"`
	MissingSkills   []string           `json:"missing_skills"`
	Recommendations []string           `json:"recommendations"`
	CreatedAt       string             `json:"created_at"`
}

type statsSummary struct {
	TotalAnalyses int     `json:"total_analyses"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  float64 `json:"highest_score"`
	LowestScore   float64 `json:"lowest_score"`
}

// memoryStore keeps analyses in insertion order and is safe for concurrent use.
type memoryStore struct {
	mu     sync.RWMutex
	nextID int
	items  []record
	now    func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1, now: time.Now}
}

func (s *memoryStore) add(filename, jobDescription string, scores Scores) record {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := record{
		ID:             s.nextID,
		Filename:       filename,
		JobDescription: jobDescription,
		OverallScore:   scores.Overall,
		Breakdown: map[string]float64{
			"skills":     scores.Skills,
			"experience": scores.Experience,
			"education":  scores.Education,
			"format":     scores.Format,
		},
		MatchedSkills:   scores.Matched,
		MissingSkills:   scores.Missing,
		Recommendations: scores.Recommendations,
		CreatedAt:       s.now().UTC().Format(createdAtLayout),
	}
	s.nextID++
	s.items = append(s.items, r)

	return r
}

// list returns up to limit records, most recent first.
func (s *memoryStore) list(limit int) []record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record, 0, min(limit, len(s.items)))
	for i := len(s.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.items[i])
	}
	return out
}

func (s *memoryStore) get(id int) (record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.items {
		if r.ID == id {
			return r, true
		}
	}
	return record{}, false
}

func (s *memoryStore) remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.items {
		if r.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *memoryStore) summary() statsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := statsSummary{TotalAnalyses: len(s.items)}
	if len(s.items) == 0 {
		return st
	}

	var sum float64
	st.HighestScore = s.items[0].OverallScore
	st.LowestScore = s.items[0].OverallScore
	for _, r := range s.items {
		sum += r.OverallScore
		st.HighestScore = math.Max(st.HighestScore, r.OverallScore)
		st.LowestScore = math.Min(st.LowestScore, r.OverallScore)
	}
	st.AverageScore = math.Round(sum/float64(len(s.items))*100) / 100

	return st
}
