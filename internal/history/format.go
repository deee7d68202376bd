package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/presentation"
)

const (
	previewSkills = 5
	timeLayout    = "Jan 2, 2006 15:04"
)

// Row is a display-ready history line.
type Row struct {
	ID       string
	Filename string
	Created  string
	Score    int
	Tier     presentation.Tier
	Band     presentation.Band
	Matched  string

	Breakdown analyzer.Breakdown
}

// Rows formats entries for a table. Entries are not modified.
func Rows(entries []*analyzer.HistoryEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, entry := range entries {
		tier := presentation.TierOf(entry.OverallScore)
		rows = append(rows, Row{
			ID:       entry.ID,
			Filename: entry.Filename,
			Created:  FormatTime(entry.CreatedAt),
			Score:    entry.OverallScore,
			Tier:     tier,
			Band:     tier.Band(),
			Matched:  SkillsPreview(entry.MatchedSkills),

			Breakdown: entry.Breakdown,
		})
	}
	return rows
}

// SkillsPreview joins the first few skills and counts the rest.
func SkillsPreview(skills []string) string {
	shown, more := presentation.Preview(skills, previewSkills)
	text := strings.Join(shown, ", ")
	if more > 0 {
		text += fmt.Sprintf(" +%d more", more)
	}
	return text
}

func FormatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(timeLayout)
}
