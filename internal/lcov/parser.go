// Package lcov parses LCOV tracefiles into the coverage model.
//
// The input is a sequence of newline-delimited records. Each file's coverage
// is bounded by an "SF:" marker and an "end_of_record" marker; between them
// the block declares per-line, per-function and per-branch hit counts. The
// parser is a single-pass state machine with two states: outside a record
// (expecting SF: or end of input) and inside a record (accumulating
// declarations until end_of_record).
package lcov

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Dammyololade/smart-coverage-sub001/internal/model"
)

// Record markers understood by the parser. Anything else inside a record is
// skipped, which keeps the parser forward-compatible with marker kinds the
// format grows later.
const (
	markerSourceFile  = "SF:"
	markerFunction    = "FN:"
	markerFunctionHit = "FNDA:"
	markerFnFound     = "FNF:"
	markerFnHit       = "FNH:"
	markerLine        = "DA:"
	markerBranch      = "BRDA:"
	markerBrFound     = "BRF:"
	markerBrHit       = "BRH:"
	markerEndOfRecord = "end_of_record"
)

// Parser converts raw coverage text into a CoverageModel. It exists so the
// tool can grow additional input formats behind one interface.
type Parser interface {
	Parse(raw string) (*model.CoverageModel, error)
}

// InfoParser parses the LCOV tracefile format produced by lcov, genhtml
// tooling and the Dart/Flutter test runners.
type InfoParser struct{}

// NewInfoParser creates a new LCOV tracefile parser.
func NewInfoParser() *InfoParser {
	return &InfoParser{}
}

// recordBuilder accumulates declarations for the block currently being
// parsed. It replaces the format's implicit "current file" cursor with
// explicit state that only exists while inside a record.
type recordBuilder struct {
	path      string
	lines     []model.LineRecord
	functions []model.FunctionRecord
	fnHits    map[string]int

	declaredFnFound int
	declaredFnHit   int
	declaredBrFound int
	declaredBrHit   int

	branchesFound int
	branchesHit   int
	sawBranchDecl bool
}

// Parse converts raw LCOV text into a CoverageModel. It fails with a
// *FormatError when record markers are structurally inconsistent or a
// numeric field does not parse; a failed parse returns no partial model.
func (p *InfoParser) Parse(raw string) (*model.CoverageModel, error) {
	result := &model.CoverageModel{}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *recordBuilder
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if current == nil {
			// Outside a record: only SF: opens a block. end_of_record here
			// means the input declared an end with no matching start.
			switch {
			case strings.HasPrefix(line, markerSourceFile):
				current = &recordBuilder{
					path:   strings.TrimPrefix(line, markerSourceFile),
					fnHits: make(map[string]int),
				}
			case line == markerEndOfRecord:
				return nil, &FormatError{
					Message: "end_of_record without a preceding SF: marker",
					Line:    lineNo,
				}
			}
			// Anything else outside a record (TN: test names, comments) is
			// not coverage data and is skipped.
			continue
		}

		if line == markerEndOfRecord {
			result.Files = append(result.Files, current.commit())
			current = nil
			continue
		}
		if strings.HasPrefix(line, markerSourceFile) {
			return nil, &FormatError{
				Message: "SF: marker inside an unterminated record",
				Line:    lineNo,
			}
		}
		if err := current.addDeclaration(line, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Message: fmt.Sprintf("reading input: %v", err)}
	}
	if current != nil {
		return nil, &FormatError{
			Message: fmt.Sprintf("record for %s has no end_of_record marker", current.path),
			Line:    lineNo,
		}
	}

	result.Summary = result.TotalSummary()
	return result, nil
}

// addDeclaration handles one line inside a record. Unknown prefixes are
// skipped rather than rejected.
func (b *recordBuilder) addDeclaration(line string, lineNo int) error {
	switch {
	case strings.HasPrefix(line, markerLine):
		// DA:<line>,<hits>[,<checksum>]
		parts := strings.SplitN(strings.TrimPrefix(line, markerLine), ",", 3)
		if len(parts) < 2 {
			return &FormatError{Message: "malformed DA: declaration", Line: lineNo}
		}
		num, err := parsePositiveInt(parts[0])
		if err != nil {
			return &FormatError{Message: fmt.Sprintf("bad line number %q", parts[0]), Line: lineNo}
		}
		hits, err := parseNonNegativeInt(parts[1])
		if err != nil {
			return &FormatError{Message: fmt.Sprintf("bad hit count %q", parts[1]), Line: lineNo}
		}
		b.lines = append(b.lines, model.LineRecord{LineNumber: num, HitCount: hits})

	case strings.HasPrefix(line, markerFunction):
		// FN:<line>,<name>
		parts := strings.SplitN(strings.TrimPrefix(line, markerFunction), ",", 2)
		if len(parts) != 2 {
			return &FormatError{Message: "malformed FN: declaration", Line: lineNo}
		}
		num, err := parsePositiveInt(parts[0])
		if err != nil {
			return &FormatError{Message: fmt.Sprintf("bad function line %q", parts[0]), Line: lineNo}
		}
		b.functions = append(b.functions, model.FunctionRecord{Name: parts[1], LineNumber: num})

	case strings.HasPrefix(line, markerFunctionHit):
		// FNDA:<hits>,<name>
		parts := strings.SplitN(strings.TrimPrefix(line, markerFunctionHit), ",", 2)
		if len(parts) != 2 {
			return &FormatError{Message: "malformed FNDA: declaration", Line: lineNo}
		}
		hits, err := parseNonNegativeInt(parts[0])
		if err != nil {
			return &FormatError{Message: fmt.Sprintf("bad function hit count %q", parts[0]), Line: lineNo}
		}
		b.fnHits[parts[1]] = hits

	case strings.HasPrefix(line, markerBranch):
		// BRDA:<line>,<block>,<branch>,<hits or "-">
		parts := strings.SplitN(strings.TrimPrefix(line, markerBranch), ",", 4)
		if len(parts) != 4 {
			return &FormatError{Message: "malformed BRDA: declaration", Line: lineNo}
		}
		if _, err := parsePositiveInt(parts[0]); err != nil {
			return &FormatError{Message: fmt.Sprintf("bad branch line %q", parts[0]), Line: lineNo}
		}
		b.sawBranchDecl = true
		b.branchesFound++
		// "-" means the enclosing block was never reached: the branch
		// exists but was taken zero times.
		if parts[3] != "-" {
			hits, err := parseNonNegativeInt(parts[3])
			if err != nil {
				return &FormatError{Message: fmt.Sprintf("bad branch hit count %q", parts[3]), Line: lineNo}
			}
			if hits > 0 {
				b.branchesHit++
			}
		}

	case strings.HasPrefix(line, markerFnFound):
		n, err := parseNonNegativeInt(strings.TrimPrefix(line, markerFnFound))
		if err != nil {
			return &FormatError{Message: "bad FNF: counter", Line: lineNo}
		}
		b.declaredFnFound = n
	case strings.HasPrefix(line, markerFnHit):
		n, err := parseNonNegativeInt(strings.TrimPrefix(line, markerFnHit))
		if err != nil {
			return &FormatError{Message: "bad FNH: counter", Line: lineNo}
		}
		b.declaredFnHit = n
	case strings.HasPrefix(line, markerBrFound):
		n, err := parseNonNegativeInt(strings.TrimPrefix(line, markerBrFound))
		if err != nil {
			return &FormatError{Message: "bad BRF: counter", Line: lineNo}
		}
		b.declaredBrFound = n
	case strings.HasPrefix(line, markerBrHit):
		n, err := parseNonNegativeInt(strings.TrimPrefix(line, markerBrHit))
		if err != nil {
			return &FormatError{Message: "bad BRH: counter", Line: lineNo}
		}
		b.declaredBrHit = n
	}
	// LF:/LH: and unrecognized prefixes fall through: line counters are
	// recomputed from DA: declarations, everything else is skipped.
	return nil
}

// commit closes the record and produces the FileRecord. Line counters are
// always recomputed from the observed declarations so they cannot drift
// from the input's own LF/LH counters. Function and branch counters are
// derived from per-record declarations when any were seen, falling back to
// the block's declared FNF/FNH/BRF/BRH totals otherwise.
func (b *recordBuilder) commit() model.FileRecord {
	for i, fn := range b.functions {
		if hits, ok := b.fnHits[fn.Name]; ok {
			b.functions[i].HitCount = hits
		}
	}

	var s model.Summary
	s.LinesFound, s.LinesHit = model.ComputeLineCounters(b.lines)

	if len(b.functions) > 0 {
		s.FunctionsFound = len(b.functions)
		for _, fn := range b.functions {
			if fn.HitCount > 0 {
				s.FunctionsHit++
			}
		}
	} else {
		s.FunctionsFound = b.declaredFnFound
		s.FunctionsHit = b.declaredFnHit
	}

	if b.sawBranchDecl {
		s.BranchesFound = b.branchesFound
		s.BranchesHit = b.branchesHit
	} else {
		s.BranchesFound = b.declaredBrFound
		s.BranchesHit = b.declaredBrHit
	}

	return model.FileRecord{
		Path:      b.path,
		Lines:     b.lines,
		Functions: b.functions,
		Summary:   s,
	}
}

// Parse parses raw LCOV text with the default tracefile parser.
func Parse(raw string) (*model.CoverageModel, error) {
	return NewInfoParser().Parse(raw)
}

// ParseFile reads and parses an LCOV tracefile from disk. It fails with a
// *NotFoundError when the path does not exist or is unreadable.
func ParseFile(path string) (*model.CoverageModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	return Parse(string(data))
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value %d is not positive", n)
	}
	return n, nil
}

func parseNonNegativeInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("value %d is negative", n)
	}
	return n, nil
}
