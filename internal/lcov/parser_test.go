package lcov

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinimalFile(t *testing.T) {
	// One file, 10 declared lines, 8 hit, no functions or branches.
	var sb strings.Builder
	sb.WriteString("SF:lib/src/calculator.dart\n")
	for i := 1; i <= 8; i++ {
		sb.WriteString("DA:" + strconv.Itoa(i) + ",1\n")
	}
	sb.WriteString("DA:9,0\n")
	sb.WriteString("DA:10,0\n")
	sb.WriteString("end_of_record\n")

	m, err := Parse(sb.String())
	require.NoError(t, err)
	require.Len(t, m.Files, 1)

	f := m.Files[0]
	assert.Equal(t, "lib/src/calculator.dart", f.Path)
	assert.Equal(t, 10, f.Summary.LinesFound)
	assert.Equal(t, 8, f.Summary.LinesHit)
	assert.InDelta(t, 80.0, f.Summary.LinePercentage(), 0.001)
	assert.Equal(t, 0, f.Summary.FunctionsFound)
	assert.Equal(t, 0, f.Summary.BranchesFound)

	assert.Equal(t, f.Summary, m.Summary)
}

func TestParseRecomputesLineCountersFromDeclarations(t *testing.T) {
	// LF/LH lie about the real counts; the parser must ignore them.
	input := `SF:lib/a.dart
DA:1,1
DA:2,0
LF:99
LH:42
end_of_record
`
	m, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Files[0].Summary.LinesFound)
	assert.Equal(t, 1, m.Files[0].Summary.LinesHit)
}

func TestParseFunctions(t *testing.T) {
	input := `SF:lib/a.dart
FN:3,main
FN:10,helper
FNDA:5,main
FNDA:0,helper
DA:3,5
DA:10,0
end_of_record
`
	m, err := Parse(input)
	require.NoError(t, err)

	f := m.Files[0]
	require.Len(t, f.Functions, 2)
	assert.Equal(t, "main", f.Functions[0].Name)
	assert.Equal(t, 3, f.Functions[0].LineNumber)
	assert.Equal(t, 5, f.Functions[0].HitCount)
	assert.Equal(t, 2, f.Summary.FunctionsFound)
	assert.Equal(t, 1, f.Summary.FunctionsHit)
}

func TestParseDeclaredFunctionCountersUsedWithoutDeclarations(t *testing.T) {
	input := `SF:lib/a.dart
FNF:7
FNH:4
DA:1,1
end_of_record
`
	m, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, 7, m.Files[0].Summary.FunctionsFound)
	assert.Equal(t, 4, m.Files[0].Summary.FunctionsHit)
}

func TestParseBranches(t *testing.T) {
	input := `SF:lib/a.dart
DA:5,1
BRDA:5,0,0,3
BRDA:5,0,1,0
BRDA:5,1,0,-
end_of_record
`
	m, err := Parse(input)
	require.NoError(t, err)

	s := m.Files[0].Summary
	// The "-" placeholder means the block was never reached: the branch
	// counts as found but not hit.
	assert.Equal(t, 3, s.BranchesFound)
	assert.Equal(t, 1, s.BranchesHit)
}

func TestParseUnknownMarkersSkipped(t *testing.T) {
	input := `TN:unit
SF:lib/a.dart
VER:some-future-marker
DA:1,1
XYZZY:whatever
end_of_record
`
	m, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Files[0].Summary.LinesFound)
}

func TestParseDuplicatePathsKeptAsSeparateEntries(t *testing.T) {
	input := `SF:lib/a.dart
DA:1,1
DA:2,0
end_of_record
SF:lib/a.dart
DA:10,3
end_of_record
`
	m, err := Parse(input)
	require.NoError(t, err)

	require.Len(t, m.Files, 2)
	assert.Equal(t, "lib/a.dart", m.Files[0].Path)
	assert.Equal(t, "lib/a.dart", m.Files[1].Path)

	// The top-level summary sums both blocks.
	assert.Equal(t, 3, m.Summary.LinesFound)
	assert.Equal(t, 2, m.Summary.LinesHit)
}

func TestParsePreservesFirstSeenFileOrder(t *testing.T) {
	input := `SF:lib/z.dart
DA:1,1
end_of_record
SF:lib/a.dart
DA:1,1
end_of_record
SF:lib/m.dart
DA:1,1
end_of_record
`
	m, err := Parse(input)
	require.NoError(t, err)

	require.Len(t, m.Files, 3)
	assert.Equal(t, "lib/z.dart", m.Files[0].Path)
	assert.Equal(t, "lib/a.dart", m.Files[1].Path)
	assert.Equal(t, "lib/m.dart", m.Files[2].Path)
}

func TestParseTopLevelSummaryEqualsFileSum(t *testing.T) {
	input := `SF:lib/a.dart
DA:1,1
DA:2,0
FNF:2
FNH:1
end_of_record
SF:lib/b.dart
DA:1,1
BRDA:1,0,0,1
BRDA:1,0,1,0
end_of_record
`
	m, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, m.TotalSummary(), m.Summary)
	assert.Equal(t, 3, m.Summary.LinesFound)
	assert.Equal(t, 2, m.Summary.LinesHit)
	assert.Equal(t, 2, m.Summary.FunctionsFound)
	assert.Equal(t, 2, m.Summary.BranchesFound)
	assert.Equal(t, 1, m.Summary.BranchesHit)
}

func TestParseFormatErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"end without start", "end_of_record\n"},
		{"end missing at eof", "SF:lib/a.dart\nDA:1,1\n"},
		{"nested SF", "SF:lib/a.dart\nSF:lib/b.dart\nend_of_record\n"},
		{"bad line number", "SF:lib/a.dart\nDA:zero,1\nend_of_record\n"},
		{"bad hit count", "SF:lib/a.dart\nDA:1,many\nend_of_record\n"},
		{"negative line number", "SF:lib/a.dart\nDA:-4,1\nend_of_record\n"},
		{"bad branch hits", "SF:lib/a.dart\nBRDA:1,0,0,?\nend_of_record\n"},
		{"truncated DA", "SF:lib/a.dart\nDA:12\nend_of_record\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Parse(tc.input)
			require.Error(t, err)

			var ferr *FormatError
			assert.True(t, errors.As(err, &ferr), "expected *FormatError, got %T", err)
			assert.Nil(t, m, "a failed parse must not return a partial model")
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	m, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, m.Files)
	assert.Equal(t, 0, m.Summary.LinesFound)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lcov.info")
	content := "SF:lib/a.dart\nDA:1,1\nend_of_record\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, m.Files, 1)
}

func TestParseFileNotFound(t *testing.T) {
	m, err := ParseFile(filepath.Join(t.TempDir(), "missing.info"))
	require.Error(t, err)

	var nferr *NotFoundError
	assert.True(t, errors.As(err, &nferr), "expected *NotFoundError, got %T", err)
	assert.Nil(t, m)
}
