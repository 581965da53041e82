package exec

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandExecutor_RunInDir(t *testing.T) {
	executor := NewCommandExecutor()

	t.Run("should execute a simple command successfully", func(t *testing.T) {
		result, err := executor.RunInDir("", "echo", "hello world")
		require.NoError(t, err)
		assert.Equal(t, "hello world\n", result.Stdout)
		assert.Empty(t, result.Stderr)
		assert.Equal(t, 0, result.ExitCode)
	})

	t.Run("should run in the given working directory", func(t *testing.T) {
		dir := t.TempDir()
		// Resolve symlinks: pwd reports the physical path.
		resolved, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)

		result, err := executor.RunInDir(dir, "pwd")
		require.NoError(t, err)
		assert.Equal(t, resolved, strings.TrimSpace(result.Stdout))
	})

	t.Run("should capture stderr", func(t *testing.T) {
		result, err := executor.RunInDir("", "sh", "-c", "echo 'hello stderr' 1>&2")
		require.NoError(t, err)
		assert.Empty(t, result.Stdout)
		assert.Equal(t, "hello stderr\n", result.Stderr)
		assert.Equal(t, 0, result.ExitCode)
	})

	t.Run("should handle non-zero exit codes", func(t *testing.T) {
		result, err := executor.RunInDir("", "sh", "-c", "exit 42")
		require.NoError(t, err) // Run itself should not error
		assert.Equal(t, 42, result.ExitCode)
	})

	t.Run("should return error for non-existent command", func(t *testing.T) {
		_, err := executor.RunInDir("", "this_command_does_not_exist_12345")
		assert.Error(t, err)
	})
}
