// Package insights asks a language model for prose observations about
// coverage gaps. Insight generation is best-effort: a failure degrades to a
// report without insights and never fails the run.
package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Dammyololade/smart-coverage-sub001/internal/model"
)

// maxPromptFiles caps how many files are described in the prompt so huge
// models do not blow the context window.
const maxPromptFiles = 10

// Insights holds the structured reply from the model.
type Insights struct {
	Summary     string
	RiskAreas   []string
	Suggestions []string
}

// Markdown renders the insights as a markdown fragment for the HTML and
// console reports.
func (i *Insights) Markdown() string {
	var sb strings.Builder
	sb.WriteString("## Coverage Insights\n\n")
	sb.WriteString(i.Summary)
	sb.WriteString("\n")
	if len(i.RiskAreas) > 0 {
		sb.WriteString("\n### Risk areas\n\n")
		for _, r := range i.RiskAreas {
			sb.WriteString("- " + r + "\n")
		}
	}
	if len(i.Suggestions) > 0 {
		sb.WriteString("\n### Suggestions\n\n")
		for _, s := range i.Suggestions {
			sb.WriteString("- " + s + "\n")
		}
	}
	return sb.String()
}

// Generator produces insights for a coverage model.
type Generator struct {
	client Client
}

// NewGenerator creates a Generator backed by the given client.
func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// Generate builds a prompt from the model and parses the reply. The input
// model is only read, never modified.
func (g *Generator) Generate(ctx context.Context, m *model.CoverageModel) (*Insights, error) {
	reply, err := g.client.Complete(ctx, BuildPrompt(m))
	if err != nil {
		return nil, err
	}
	return parseReply(reply)
}

// BuildPrompt describes the worst-covered files and their uncovered line
// ranges, and asks for a JSON reply.
func BuildPrompt(m *model.CoverageModel) string {
	var sb strings.Builder
	sb.WriteString("You are reviewing a test coverage report for a codebase.\n\n")
	fmt.Fprintf(&sb, "Overall: %d of %d lines covered (%.1f%%)",
		m.Summary.LinesHit, m.Summary.LinesFound, m.Summary.LinePercentage())
	if m.Summary.BranchesFound > 0 {
		fmt.Fprintf(&sb, ", %d of %d branches (%.1f%%)",
			m.Summary.BranchesHit, m.Summary.BranchesFound, m.Summary.BranchPercentage())
	}
	sb.WriteString(".\n\nLeast covered files:\n")

	for _, f := range worstFiles(m, maxPromptFiles) {
		fmt.Fprintf(&sb, "- %s: %.1f%% line coverage", f.Path, f.Summary.LinePercentage())
		if ranges := UncoveredRanges(f.Lines); ranges != "" {
			fmt.Fprintf(&sb, ", uncovered lines %s", ranges)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`
Reply with a JSON object only, no prose around it:
{"summary": "one paragraph overall assessment",
 "risk_areas": ["specific risky gap", ...],
 "suggestions": ["concrete test to add", ...]}
`)
	return sb.String()
}

// worstFiles returns up to n files sorted by ascending line coverage.
// Ordering between equal percentages follows input order.
func worstFiles(m *model.CoverageModel, n int) []model.FileRecord {
	files := make([]model.FileRecord, len(m.Files))
	copy(files, m.Files)
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Summary.LinePercentage() < files[j].Summary.LinePercentage()
	})
	if len(files) > n {
		files = files[:n]
	}
	return files
}

// UncoveredRanges formats the uncovered line numbers as compact ranges,
// e.g. "4-7, 12, 30-31".
func UncoveredRanges(lines []model.LineRecord) string {
	var nums []int
	for _, l := range lines {
		if !l.IsCovered() {
			nums = append(nums, l.LineNumber)
		}
	}
	if len(nums) == 0 {
		return ""
	}
	sort.Ints(nums)

	var parts []string
	start, prev := nums[0], nums[0]
	flush := func() {
		if start == prev {
			parts = append(parts, fmt.Sprintf("%d", start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, n := range nums[1:] {
		if n == prev || n == prev+1 {
			prev = n
			continue
		}
		flush()
		start, prev = n, n
	}
	flush()
	return strings.Join(parts, ", ")
}

// parseReply extracts the structured fields from the model's reply. Models
// routinely wrap JSON in markdown fences, so those are stripped first.
func parseReply(reply string) (*Insights, error) {
	content := stripFences(reply)
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("model reply is not valid JSON")
	}

	summary := gjson.Get(content, "summary").String()
	if summary == "" {
		return nil, fmt.Errorf("model reply has no summary field")
	}

	ins := &Insights{Summary: summary}
	for _, r := range gjson.Get(content, "risk_areas").Array() {
		ins.RiskAreas = append(ins.RiskAreas, r.String())
	}
	for _, s := range gjson.Get(content, "suggestions").Array() {
		ins.Suggestions = append(ins.Suggestions, s.String())
	}
	return ins, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
