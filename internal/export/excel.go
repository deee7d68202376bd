package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-analyzer/internal/presentation"
)

const (
	summarySheet  = "Summary"
	analysesSheet = "Analyses"
)

var analysesHeader = []string{
	"ID", "File", "Created", "Overall", "Tier",
	"Skills", "Experience", "Education", "Format",
	"Matched Skills", "Missing Skills", "Recommendations",
}

var bandFill = map[presentation.Band]string{
	presentation.BandGreen:  "C6EFCE",
	presentation.BandYellow: "FFEB9C",
	presentation.BandRed:    "FFC7CE",
}

// ToExcel writes a workbook with a summary sheet and one row per analysis,
// colored by tier.
func ToExcel(dump *Dump, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(analysesSheet); err != nil {
		return err
	}

	if err := writeSummary(f, dump); err != nil {
		return fmt.Errorf("writing summary sheet: %w", err)
	}
	if err := writeAnalyses(f, dump); err != nil {
		return fmt.Errorf("writing analyses sheet: %w", err)
	}

	return f.SaveAs(filepath.Clean(path))
}

func writeSummary(f *excelize.File, dump *Dump) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return err
	}

	rows := [][]any{{"Exported analyses", len(dump.Analyses)}}
	if dump.Stats != nil {
		rows = append(rows,
			[]any{"Total analyses", dump.Stats.TotalAnalyses},
			[]any{"Average score", dump.Stats.AverageScore},
			[]any{"Highest score", dump.Stats.HighestScore},
			[]any{"Lowest score", dump.Stats.LowestScore},
		)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func writeAnalyses(f *excelize.File, dump *Dump) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	bandStyles := make(map[presentation.Band]int, len(bandFill))
	for band, color := range bandFill {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		bandStyles[band] = style
	}

	header := make([]any, 0, len(analysesHeader))
	for _, title := range analysesHeader {
		header = append(header, title)
	}
	if err := f.SetSheetRow(analysesSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(analysesHeader))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(analysesSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, entry := range dump.Analyses {
		row := i + 2
		tier := presentation.TierOf(entry.OverallScore)

		created := ""
		if !entry.CreatedAt.IsZero() {
			created = entry.CreatedAt.Format("2006-01-02 15:04:05")
		}

		values := []any{
			entry.ID, entry.Filename, created, entry.OverallScore, string(tier),
			entry.Breakdown.Skills, entry.Breakdown.Experience, entry.Breakdown.Education, entry.Breakdown.Format,
			strings.Join(entry.MatchedSkills, ", "),
			strings.Join(entry.MissingSkills, ", "),
			strings.Join(entry.Recommendations, "\n"),
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(analysesSheet, cell, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(analysesSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("E%d", row), bandStyles[tier.Band()]); err != nil {
			return err
		}
	}

	return f.SetPanes(analysesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
