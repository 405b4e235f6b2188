package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	cli := NewCLI(t)

	stdout, _, code := cli.Run()
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Usage: tracedown")
}

func TestRunUnknownCommand(t *testing.T) {
	cli := NewCLI(t)

	_, stderr, code := cli.Run("frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
	assert.Contains(t, stderr, "Usage: tracedown")
}

func TestRunUnknownGlobalFlag(t *testing.T) {
	cli := NewCLI(t)

	_, stderr, code := cli.Run("--frob", "ls")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown flag")
}

func TestRunGlobalFlagRequiresArgument(t *testing.T) {
	cli := NewCLI(t)

	_, stderr, code := cli.Run("--config")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "flag requires an argument")
}

func TestRunPrintConfig(t *testing.T) {
	cli := NewCLI(t)

	stdout := cli.MustRun("print-config")
	assert.Contains(t, stdout, `"workspace_dir"`)
	assert.Contains(t, stdout, "# Sources:")
}

func TestRunMissingExplicitConfigFails(t *testing.T) {
	cli := NewCLI(t)

	_, stderr, code := cli.Run("--config", "nope.json", "print-config")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config file not found")
}

func TestRunEndToEndAgainstRealGit(t *testing.T) {
	RequireGit(t)

	cli := NewCLI(t)
	cli.Env["XDG_CONFIG_HOME"] = cli.Dir

	out := cli.MustRun("init")
	assert.Contains(t, out, "initialized workspace")

	id := cli.MustRun("new", "requirement", "End", "to", "end")
	require.Equal(t, "REQ-001", id)

	list := cli.MustRun("ls", "requirement")
	assert.Contains(t, list, "REQ-001 - End to end")

	shown := cli.MustRun("show", "REQ-001")
	assert.Contains(t, shown, "title: End to end")

	history := cli.MustRun("history", "REQ-001")
	assert.Contains(t, history, "Create REQ-001: End to end")

	status := cli.MustRun("status")
	assert.Contains(t, status, "counters/requirements.md")

	cli.MustRun("rm", "REQ-001")

	list = cli.MustRun("ls", "requirement")
	assert.NotContains(t, list, "REQ-001")
}
