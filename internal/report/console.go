// Package report renders a coverage model to the console, to HTML and to
// JSON. Renderers receive the model by value semantics: they read it and
// never hand mutation hooks back into it.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/Dammyololade/smart-coverage-sub001/internal/model"
)

// Coverage thresholds matching the genhtml defaults.
const (
	thresholdHigh   = 80.0
	thresholdMedium = 50.0
)

// ConsoleReporter writes a per-file summary table to a writer.
type ConsoleReporter struct {
	out      io.Writer
	colorize bool
}

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer, colorize bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, colorize: colorize}
}

// Write renders the model as a table with one row per file record and a
// footer with the recomputed totals.
func (r *ConsoleReporter) Write(m *model.CoverageModel) error {
	if len(m.Files) == 0 {
		fmt.Fprintln(r.out, "No files in coverage report.")
		return nil
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"File", "Lines", "Hit", "Coverage"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, f := range m.Files {
		table.Append([]string{
			f.Path,
			fmt.Sprintf("%d", f.Summary.LinesFound),
			fmt.Sprintf("%d", f.Summary.LinesHit),
			r.formatPercent(f.Summary.LinePercentage()),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d files", len(m.Files)),
		fmt.Sprintf("%d", m.Summary.LinesFound),
		fmt.Sprintf("%d", m.Summary.LinesHit),
		r.formatPercent(m.Summary.LinePercentage()),
	})

	table.Render()
	return nil
}

// formatPercent colorizes a percentage by threshold when color is enabled.
func (r *ConsoleReporter) formatPercent(pct float64) string {
	text := fmt.Sprintf("%.1f%%", pct)
	if !r.colorize {
		return text
	}
	switch {
	case pct >= thresholdHigh:
		return color.GreenString(text)
	case pct >= thresholdMedium:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}
