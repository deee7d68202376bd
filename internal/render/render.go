package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/history"
	"github.com/spigell/resume-analyzer/internal/presentation"
)

const barWidth = 20

// Printer writes views as plain terminal text. Colors are optional so output
// can be piped or compared in tests.
type Printer struct {
	out   io.Writer
	color bool
}

func New(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

func (p *Printer) paint(band presentation.Band, text string) string {
	if !p.color {
		return text
	}

	switch band {
	case presentation.BandGreen:
		return promptui.Styler(promptui.FGGreen, promptui.FGBold)(text)
	case presentation.BandYellow:
		return promptui.Styler(promptui.FGYellow, promptui.FGBold)(text)
	default:
		return promptui.Styler(promptui.FGRed, promptui.FGBold)(text)
	}
}

// component colors a breakdown value with the same thresholds as the overall score.
func (p *Printer) component(value int) string {
	return p.paint(presentation.TierOf(value).Band(), fmt.Sprintf("%d%%", value))
}

func (p *Printer) faint(text string) string {
	if !p.color {
		return text
	}
	return promptui.Styler(promptui.FGFaint)(text)
}

// Result prints a result view in any of its states.
func (p *Printer) Result(view presentation.View) error {
	switch view.State {
	case presentation.StateLoading:
		_, err := fmt.Fprintln(p.out, "Analyzing your resume...")
		return err
	case presentation.StateEmpty:
		_, err := fmt.Fprintln(p.out, p.faint("Upload a resume and a job description to see the analysis."))
		return err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", p.paint(view.Band, fmt.Sprintf("%d%%", view.Score)), p.paint(view.Band, view.Headline))
	if view.Filename != "" {
		fmt.Fprintf(&b, "File: %s\n", view.Filename)
	}
	if view.ID != "" {
		fmt.Fprintf(&b, "Analysis ID: %s\n", view.ID)
	}

	b.WriteString("\nScore breakdown\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, point := range view.Chart {
		fmt.Fprintf(tw, "  %s\t%s\t%d%%\n", point.Label, bar(point.Value), point.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	list(&b, "Matched skills", view.MatchedSkills, "No matching skills found")
	list(&b, "Missing skills", view.MissingSkills, "Great! No missing skills detected")
	list(&b, "Recommendations", view.Recommendations, "No recommendations")

	_, err := io.WriteString(p.out, b.String())
	return err
}

// History prints the stats header and the history table.
func (p *Printer) History(snap history.Snapshot) error {
	switch snap.State {
	case history.StateLoading, history.StateIdle:
		_, err := fmt.Fprintln(p.out, "Loading history...")
		return err
	case history.StateError:
		_, err := fmt.Fprintln(p.out, p.paint(presentation.BandRed, snap.LoadError))
		return err
	}

	if snap.Stats != nil {
		if err := p.Stats(snap.Stats); err != nil {
			return err
		}
	}

	if snap.DeleteError != "" {
		if _, err := fmt.Fprintln(p.out, p.paint(presentation.BandRed, snap.DeleteError)); err != nil {
			return err
		}
	}

	if len(snap.Entries) == 0 {
		_, err := fmt.Fprintln(p.out, p.faint("No analyses yet."))
		return err
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tDATE\tSCORE\tSKILLS\tEXPERIENCE\tEDUCATION\tFORMAT\tMATCHED SKILLS")
	for _, row := range history.Rows(snap.Entries) {
		b := row.Breakdown
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ID, row.Filename, row.Created,
			p.paint(row.Band, fmt.Sprintf("%d%%", row.Score)),
			p.component(b.Skills), p.component(b.Experience), p.component(b.Education), p.component(b.Format),
			row.Matched)
	}
	return tw.Flush()
}

func (p *Printer) Stats(stats *analyzer.Stats) error {
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total analyses\t%d\n", stats.TotalAnalyses)
	fmt.Fprintf(tw, "Average score\t%.2f%%\n", stats.AverageScore)
	fmt.Fprintf(tw, "Highest score\t%d%%\n", stats.HighestScore)
	fmt.Fprintf(tw, "Lowest score\t%d%%\n", stats.LowestScore)
	fmt.Fprintln(tw)
	return tw.Flush()
}

func bar(value int) string {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	filled := value * barWidth / 100
	return strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
}

func list(b *strings.Builder, title string, items []string, empty string) {
	fmt.Fprintf(b, "\n%s (%d)\n", title, len(items))
	if len(items) == 0 {
		fmt.Fprintf(b, "  %s\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
