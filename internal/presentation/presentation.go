package presentation

import (
	"github.com/spigell/resume-analyzer/internal/analyzer"
)

// Tier is the qualitative band of an overall score.
type Tier string

const (
	TierStrong   Tier = "strong"
	TierModerate Tier = "moderate"
	TierWeak     Tier = "weak"
)

const (
	strongThreshold   = 70
	moderateThreshold = 50
)

// Band is the display color of a tier.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

// State tells the view which of its mutually exclusive layouts to render.
type State string

const (
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateReady   State = "ready"
)

// TierOf maps a score to its tier. Both thresholds are inclusive.
func TierOf(score int) Tier {
	switch {
	case score >= strongThreshold:
		return TierStrong
	case score >= moderateThreshold:
		return TierModerate
	default:
		return TierWeak
	}
}

func (t Tier) Headline() string {
	switch t {
	case TierStrong:
		return "Excellent Match!"
	case TierModerate:
		return "Good Match"
	default:
		return "Needs Improvement"
	}
}

func (t Tier) Band() Band {
	switch t {
	case TierStrong:
		return BandGreen
	case TierModerate:
		return BandYellow
	default:
		return BandRed
	}
}

// ChartPoint is one labeled value of the breakdown chart.
type ChartPoint struct {
	Label string
	Value int
}

// ChartPoints returns the breakdown in a fixed order: skills, experience,
// education, format.
func ChartPoints(b analyzer.Breakdown) []ChartPoint {
	return []ChartPoint{
		{Label: "Skills", Value: b.Skills},
		{Label: "Experience", Value: b.Experience},
		{Label: "Education", Value: b.Education},
		{Label: "Format", Value: b.Format},
	}
}

// View is everything needed to render a result. Only a ready view carries data.
type View struct {
	State           State
	Score           int
	Tier            Tier
	Headline        string
	Band            Band
	Filename        string
	ID              string
	Chart           []ChartPoint
	MatchedSkills   []string
	MissingSkills   []string
	Recommendations []string
}

// Build derives the view for the current result. A running analysis wins over a
// result still on display.
func Build(result *analyzer.Result, inFlight bool) View {
	if inFlight {
		return View{State: StateLoading}
	}

	if result == nil {
		return View{State: StateEmpty}
	}

	tier := TierOf(result.OverallScore)

	return View{
		State:           StateReady,
		Score:           result.OverallScore,
		Tier:            tier,
		Headline:        tier.Headline(),
		Band:            tier.Band(),
		Filename:        result.Filename,
		ID:              result.ID,
		Chart:           ChartPoints(result.Breakdown),
		MatchedSkills:   result.MatchedSkills,
		MissingSkills:   result.MissingSkills,
		Recommendations: result.Recommendations,
	}
}

// Preview returns at most n leading items and how many were left out. The
// returned slice cannot grow into the caller's backing array.
func Preview(items []string, n int) ([]string, int) {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items, 0
	}
	return items[:n:n], len(items) - n
}
