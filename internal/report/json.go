package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Dammyololade/smart-coverage-sub001/internal/model"
)

// jsonFile is the wire shape of one file entry.
type jsonFile struct {
	Path           string        `json:"path"`
	Summary        model.Summary `json:"summary"`
	LinePercentage float64       `json:"line_percentage"`
	UncoveredLines []int         `json:"uncovered_lines,omitempty"`
}

// jsonReport is the top-level wire shape.
type jsonReport struct {
	Summary        model.Summary `json:"summary"`
	LinePercentage float64       `json:"line_percentage"`
	Files          []jsonFile    `json:"files"`
}

// JSONReporter writes the model as a JSON document for machine consumers.
type JSONReporter struct {
	path string
}

// NewJSONReporter creates a reporter writing to path.
func NewJSONReporter(path string) *JSONReporter {
	return &JSONReporter{path: path}
}

// Write marshals the model and writes it to the configured path.
func (r *JSONReporter) Write(m *model.CoverageModel) error {
	data, err := MarshalModel(m)
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

// MarshalModel converts the model to indented JSON.
func MarshalModel(m *model.CoverageModel) ([]byte, error) {
	out := jsonReport{
		Summary:        m.Summary,
		LinePercentage: m.Summary.LinePercentage(),
		Files:          make([]jsonFile, 0, len(m.Files)),
	}
	for _, f := range m.Files {
		entry := jsonFile{
			Path:           f.Path,
			Summary:        f.Summary,
			LinePercentage: f.Summary.LinePercentage(),
		}
		for _, l := range f.Lines {
			if !l.IsCovered() {
				entry.UncoveredLines = append(entry.UncoveredLines, l.LineNumber)
			}
		}
		out.Files = append(out.Files, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal coverage report: %w", err)
	}
	return data, nil
}
