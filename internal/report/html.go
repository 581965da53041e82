package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"

	"github.com/Dammyololade/smart-coverage-sub001/internal/model"
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Coverage Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #ddd; padding: 0.4rem 0.7rem; text-align: left; }
th { background: #f4f4f4; }
td.num { text-align: right; }
.high { color: #1a7f37; }
.medium { color: #9a6700; }
.low { color: #cf222e; }
.uncovered { color: #cf222e; font-family: monospace; }
.insights { background: #f6f8fa; border: 1px solid #ddd; padding: 0.5rem 1rem; margin-top: 2rem; }
footer { margin-top: 2rem; color: #888; font-size: 0.8rem; }
</style>
</head>
<body>
<h1>Coverage Report</h1>
<p>
  Lines: <strong class="{{grade .Model.Summary.LinePercentage}}">{{printf "%.1f" .Model.Summary.LinePercentage}}%</strong>
  ({{.Model.Summary.LinesHit}}/{{.Model.Summary.LinesFound}})
  {{- if gt .Model.Summary.FunctionsFound 0}} &middot;
  Functions: {{printf "%.1f" .Model.Summary.FunctionPercentage}}%
  ({{.Model.Summary.FunctionsHit}}/{{.Model.Summary.FunctionsFound}})
  {{- end}}
  {{- if gt .Model.Summary.BranchesFound 0}} &middot;
  Branches: {{printf "%.1f" .Model.Summary.BranchPercentage}}%
  ({{.Model.Summary.BranchesHit}}/{{.Model.Summary.BranchesFound}})
  {{- end}}
</p>
<table>
<tr><th>File</th><th>Lines</th><th>Hit</th><th>Coverage</th><th>Uncovered lines</th></tr>
{{range .Files}}
<tr>
  <td>{{.Path}}</td>
  <td class="num">{{.LinesFound}}</td>
  <td class="num">{{.LinesHit}}</td>
  <td class="num {{.Grade}}">{{printf "%.1f" .Percent}}%</td>
  <td class="uncovered">{{.Uncovered}}</td>
</tr>
{{end}}
</table>
{{if .InsightsHTML}}
<div class="insights">{{.InsightsHTML}}</div>
{{end}}
<footer>Generated by smart_coverage at {{.GeneratedAt}}</footer>
</body>
</html>
`

// HTMLReporter renders the model as a standalone HTML page.
type HTMLReporter struct {
	outputDir string
	tmpl      *template.Template
}

// NewHTMLReporter creates a reporter that writes index.html into outputDir.
func NewHTMLReporter(outputDir string) *HTMLReporter {
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"grade": gradeClass,
	}).Parse(htmlPage))
	return &HTMLReporter{outputDir: outputDir, tmpl: tmpl}
}

type htmlFileRow struct {
	Path       string
	LinesFound int
	LinesHit   int
	Percent    float64
	Grade      string
	Uncovered  string
}

type htmlPageData struct {
	Model        *model.CoverageModel
	Files        []htmlFileRow
	InsightsHTML template.HTML
	GeneratedAt  string
}

// Write renders the page. insightsMarkdown may be empty, in which case the
// insights section is omitted.
func (r *HTMLReporter) Write(m *model.CoverageModel, insightsMarkdown string) error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data := htmlPageData{
		Model:       m,
		GeneratedAt: time.Now().Format(time.RFC3339),
	}
	for _, f := range m.Files {
		data.Files = append(data.Files, htmlFileRow{
			Path:       f.Path,
			LinesFound: f.Summary.LinesFound,
			LinesHit:   f.Summary.LinesHit,
			Percent:    f.Summary.LinePercentage(),
			Grade:      gradeClass(f.Summary.LinePercentage()),
			Uncovered:  uncoveredList(f.Lines),
		})
	}

	if insightsMarkdown != "" {
		html, err := MarkdownToHTML(insightsMarkdown)
		if err != nil {
			return err
		}
		data.InsightsHTML = html
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render report template: %w", err)
	}

	path := filepath.Join(r.outputDir, "index.html")
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// MarkdownToHTML converts insight markdown into embeddable HTML.
func MarkdownToHTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func gradeClass(pct float64) string {
	switch {
	case pct >= thresholdHigh:
		return "high"
	case pct >= thresholdMedium:
		return "medium"
	default:
		return "low"
	}
}

func uncoveredList(lines []model.LineRecord) string {
	var b bytes.Buffer
	for _, l := range lines {
		if l.IsCovered() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", l.LineNumber)
	}
	return b.String()
}
