package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/history"
	"github.com/spigell/resume-analyzer/internal/presentation"
)

func TestResultReady(t *testing.T) {
	var out bytes.Buffer
	view := presentation.Build(&analyzer.Result{
		ID:              "a1",
		Filename:        "cv.pdf",
		OverallScore:    72,
		Breakdown:       analyzer.Breakdown{Skills: 80, Experience: 65, Education: 70, Format: 75},
		MatchedSkills:   []string{"python", "sql"},
		MissingSkills:   []string{},
		Recommendations: []string{"Add Kubernetes experience"},
	}, false)

	require.NoError(t, New(&out, false).Result(view))

	text := out.String()
	assert.Contains(t, text, "72%  Excellent Match!")
	assert.Contains(t, text, "File: cv.pdf")
	assert.Contains(t, text, "################....  80%")
	assert.Contains(t, text, "Matched skills (2)\n  - python\n  - sql")
	assert.Contains(t, text, "Great! No missing skills detected")
	assert.Contains(t, text, "  - Add Kubernetes experience")
}

func TestResultPlaceholders(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, false)

	require.NoError(t, p.Result(presentation.Build(nil, true)))
	require.NoError(t, p.Result(presentation.Build(nil, false)))

	assert.Contains(t, out.String(), "Analyzing your resume...")
	assert.Contains(t, out.String(), "Upload a resume")
}

func TestHistoryTable(t *testing.T) {
	var out bytes.Buffer
	snap := history.Snapshot{
		State: history.StateReady,
		Stats: &analyzer.Stats{TotalAnalyses: 12, AverageScore: 61.24, HighestScore: 92, LowestScore: 12},
		Entries: []*analyzer.HistoryEntry{
			{
				ID:            "7",
				Filename:      "cv.pdf",
				OverallScore:  72,
				Breakdown:     analyzer.Breakdown{Skills: 81, Experience: 64, Education: 55, Format: 90},
				MatchedSkills: []string{"go", "sql"},
			},
		},
		DeleteError: "Failed to delete analysis",
	}

	require.NoError(t, New(&out, false).History(snap))

	text := out.String()
	assert.Contains(t, text, "Average score   61.24%")
	assert.Contains(t, text, "Failed to delete analysis")
	assert.Contains(t, text, "SKILLS  EXPERIENCE  EDUCATION  FORMAT  MATCHED SKILLS")
	assert.Regexp(t, `7\s+cv\.pdf\s+-\s+72%\s+81%\s+64%\s+55%\s+90%\s+go, sql`, text)
}

func TestHistoryError(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, New(&out, false).History(history.Snapshot{State: history.StateError, LoadError: "Failed to load history"}))
	assert.Equal(t, "Failed to load history\n", out.String())
}

func TestBar(t *testing.T) {
	assert.Equal(t, "....................", bar(0))
	assert.Equal(t, "##########..........", bar(50))
	assert.Equal(t, "####################", bar(120))
}
