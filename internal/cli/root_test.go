package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand is a test helper that runs the CLI with the given args and
// captures both stdout and stderr.
func executeCommand(args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()

	return outBuf.String(), errBuf.String(), err
}

// ---------------------------------------------------------------------------
// Help output
// ---------------------------------------------------------------------------

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	require.NoError(t, err)

	for _, sub := range []string{"watch", "sizes", "version", "completion"} {
		assert.Contains(t, stdout, sub, "help should mention %q subcommand", sub)
	}

	for _, flag := range []string{
		"--config", "--log-level", "--log-format", "--no-color", "--quiet", "--app-dir",
		"--mode", "--debounce", "--watch-public", "--clear-console",
	} {
		assert.Contains(t, stdout, flag, "help should mention %q flag", flag)
	}
}

func TestWatchCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("watch", "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "public/index.html")
	assert.Contains(t, stdout, "--debounce")
}

// ---------------------------------------------------------------------------
// Unknown flags → exit code 2
// ---------------------------------------------------------------------------

func TestRootCommand_UnknownFlag(t *testing.T) {
	_, _, err := executeCommand("--nonexistent")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRootCommand_UnexpectedArg(t *testing.T) {
	_, _, err := executeCommand("src/index.js")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// SilenceErrors – cobra must not print errors itself
// ---------------------------------------------------------------------------

func TestRootCommand_SilenceErrors(t *testing.T) {
	_, stderr, err := executeCommand("--nonexistent")
	require.Error(t, err)
	assert.Empty(t, stderr, "cobra should not print errors to stderr (SilenceErrors)")
}

// ---------------------------------------------------------------------------
// Invalid configuration → exit code 2
// ---------------------------------------------------------------------------

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, _, err := executeCommand("--config", "/nonexistent/path.yaml", "sizes")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand("--log-level", "trace", "sizes")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootCommand_InvalidLogFormat(t *testing.T) {
	_, _, err := executeCommand("--log-format", "xml", "sizes")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestRootCommand_NegativeDebounce(t *testing.T) {
	_, _, err := executeCommand("watch", "--debounce", "-1s")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

// ---------------------------------------------------------------------------
// Execute helper
// ---------------------------------------------------------------------------

func TestExecute_VersionSubcommand(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	assert.NoError(t, cmd.Execute())
}

// ---------------------------------------------------------------------------
// ExitError
// ---------------------------------------------------------------------------

func TestExitError_ErrorWithMessage(t *testing.T) {
	err := &ExitError{Code: 1, Err: assert.AnError}
	assert.Contains(t, err.Error(), assert.AnError.Error())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExitError_ErrorWithoutMessage(t *testing.T) {
	err := &ExitError{Code: 42}
	assert.Equal(t, "exit code 42", err.Error())
	assert.Nil(t, err.Unwrap())
}

// ---------------------------------------------------------------------------
// completion
// ---------------------------------------------------------------------------

func TestCompletion_Shells(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := executeCommand("completion", shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, "cra-watch")
		})
	}
}

func TestCompletion_InvalidShell(t *testing.T) {
	_, _, err := executeCommand("completion", "tcsh")
	assert.Error(t, err)
}

func TestCompletion_NoArgs(t *testing.T) {
	_, _, err := executeCommand("completion")
	assert.Error(t, err)
}

func TestFlagCompletions(t *testing.T) {
	root := NewRootCommand()

	tests := []struct {
		cmd  []string
		flag string
		want []string
	}{
		{nil, "log-level", []string{"debug", "info", "warn", "error"}},
		{nil, "log-format", []string{"text", "json"}},
		{nil, "mode", []string{"development", "production", "test"}},
		{[]string{"watch"}, "mode", []string{"development", "production", "test"}},
		{[]string{"sizes"}, "format", []string{"json", "text", "yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			cmd, _, err := root.Find(tt.cmd)
			require.NoError(t, err)

			fn, ok := cmd.GetFlagCompletionFunc(tt.flag)
			require.True(t, ok)

			values, directive := fn(cmd, nil, "")
			assert.Equal(t, tt.want, values)
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		})
	}
}

func TestFlagCompletions_AppDir(t *testing.T) {
	root := NewRootCommand()

	fn, ok := root.GetFlagCompletionFunc("app-dir")
	require.True(t, ok)

	_, directive := fn(root, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveFilterDirs, directive)
}
