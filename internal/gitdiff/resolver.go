// Package gitdiff resolves a base revision into the set of modified source
// files. It is a thin boundary around the git binary; the rest of the tool
// consumes the result as an opaque path set and never interprets revision
// syntax itself.
package gitdiff

import (
	"fmt"
	"path"
	"strings"

	"github.com/Dammyololade/smart-coverage-sub001/internal/exec"
)

// Resolver supplies the repository-relative paths considered modified
// against a base revision. An empty result is valid and means no source
// files changed.
type Resolver interface {
	ModifiedFiles(baseRef string) ([]string, error)
}

// GitResolver resolves modified files by shelling out to git. Results are
// restricted to files with the configured extension under the configured
// source directory (for Dart packages: .dart files under lib/).
type GitResolver struct {
	repoRoot  string
	sourceDir string
	sourceExt string
	executor  exec.Executor
}

// NewGitResolver creates a resolver rooted at repoRoot. Empty sourceDir and
// sourceExt default to the Dart package convention.
func NewGitResolver(repoRoot, sourceDir, sourceExt string, executor exec.Executor) *GitResolver {
	if sourceDir == "" {
		sourceDir = "lib"
	}
	if sourceExt == "" {
		sourceExt = ".dart"
	}
	return &GitResolver{
		repoRoot:  repoRoot,
		sourceDir: sourceDir,
		sourceExt: sourceExt,
		executor:  executor,
	}
}

// ModifiedFiles returns the source files changed relative to baseRef, in
// the order git reports them. An empty list is not an error.
func (r *GitResolver) ModifiedFiles(baseRef string) ([]string, error) {
	args := []string{"diff", "--name-only", baseRef, "--", r.sourceDir}
	result, err := r.executor.RunInDir(r.repoRoot, "git", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run git diff: %w", err)
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("git diff against %q failed: %s", baseRef, strings.TrimSpace(result.Stderr))
	}

	var files []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasSuffix(line, r.sourceExt) {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// GlobPatterns converts resolved paths into glob patterns that match the
// same files regardless of the path prefix a coverage tool emits.
func GlobPatterns(files []string) []string {
	patterns := make([]string, 0, len(files))
	for _, f := range files {
		patterns = append(patterns, "**/"+path.Base(f))
	}
	return patterns
}
