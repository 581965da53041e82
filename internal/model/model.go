// Package model defines the in-memory representation of parsed coverage data.
package model

// LineRecord represents coverage for a single executable source line.
type LineRecord struct {
	LineNumber int // 1-indexed line number in the source file
	HitCount   int // number of times the line was executed
}

// IsCovered reports whether the line was executed at least once.
func (l LineRecord) IsCovered() bool {
	return l.HitCount > 0
}

// FunctionRecord represents coverage for a single function.
type FunctionRecord struct {
	Name       string
	LineNumber int // line where the function is declared
	HitCount   int
}

// Summary holds aggregate found/hit counters for lines, functions and
// branches. A Summary is always derived from the records it was computed
// from; it is never edited independently of them.
type Summary struct {
	LinesFound     int `json:"lines_found"`
	LinesHit       int `json:"lines_hit"`
	FunctionsFound int `json:"functions_found"`
	FunctionsHit   int `json:"functions_hit"`
	BranchesFound  int `json:"branches_found"`
	BranchesHit    int `json:"branches_hit"`
}

// LinePercentage returns the line coverage as a percentage (0-100).
// Returns 0 when no lines were found.
func (s Summary) LinePercentage() float64 {
	return percentage(s.LinesHit, s.LinesFound)
}

// FunctionPercentage returns the function coverage as a percentage (0-100).
func (s Summary) FunctionPercentage() float64 {
	return percentage(s.FunctionsHit, s.FunctionsFound)
}

// BranchPercentage returns the branch coverage as a percentage (0-100).
func (s Summary) BranchPercentage() float64 {
	return percentage(s.BranchesHit, s.BranchesFound)
}

// Add returns the element-wise sum of two summaries.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		LinesFound:     s.LinesFound + other.LinesFound,
		LinesHit:       s.LinesHit + other.LinesHit,
		FunctionsFound: s.FunctionsFound + other.FunctionsFound,
		FunctionsHit:   s.FunctionsHit + other.FunctionsHit,
		BranchesFound:  s.BranchesFound + other.BranchesFound,
		BranchesHit:    s.BranchesHit + other.BranchesHit,
	}
}

func percentage(hit, found int) float64 {
	if found == 0 {
		return 0.0
	}
	return float64(hit) / float64(found) * 100
}

// FileRecord holds the coverage for one source file as it appeared in the
// input. The path is kept verbatim and is not normalized against the
// filesystem. Lines are ordered by appearance in the input.
type FileRecord struct {
	Path      string
	Lines     []LineRecord
	Functions []FunctionRecord
	Summary   Summary
}

// CoverageModel is the top-level parse result: files in first-seen input
// order plus a summary that is the element-wise sum of every file summary.
// Duplicate paths are kept as independent entries, never merged.
type CoverageModel struct {
	Files   []FileRecord
	Summary Summary
}

// ComputeLineCounters derives lines_found/lines_hit from a set of line
// records. The parser uses this instead of trusting the input's own LF/LH
// counters, so the summary can never drift from the line-level detail.
func ComputeLineCounters(lines []LineRecord) (found, hit int) {
	found = len(lines)
	for _, l := range lines {
		if l.IsCovered() {
			hit++
		}
	}
	return found, hit
}

// TotalSummary recomputes the top-level summary by summing every file
// summary. The stored Summary of a well-formed model always equals this.
func (m *CoverageModel) TotalSummary() Summary {
	var total Summary
	for _, f := range m.Files {
		total = total.Add(f.Summary)
	}
	return total
}
