package cli

import (
	"bytes"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/tracedown/tracedown/internal/fs"
	"github.com/tracedown/tracedown/internal/vcs"
	"github.com/tracedown/tracedown/internal/workspace"
)

// CLI drives the full Run entry point against a temp directory.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a test CLI rooted in a fresh temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	// Point the global config at an empty directory so a developer's real
	// ~/.config/tracedown never leaks into tests.
	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and
// exit code. Args should not include "tracedown" or "--cwd".
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.RunWithInput(strings.NewReader(""), args...)
}

// RunWithInput executes the CLI with the given stdin.
func (r *CLI) RunWithInput(stdin io.Reader, args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"tracedown", "--cwd", r.Dir}, args...)
	code := Run(stdin, &outBuf, &errBuf, fullArgs, r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test on a non-zero exit code.
// Returns trimmed stdout.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// RequireGit skips the test when no git binary is on PATH. Run-level tests
// that commit need the real backend.
func RequireGit(t *testing.T) {
	t.Helper()

	_, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git binary not available")
	}
}

// fakeSession builds a session over an in-memory store and a fake backend,
// for calling command functions directly.
func fakeSession(t *testing.T, input string) (*session, *vcs.Fake) {
	t.Helper()

	backend := vcs.NewFake()

	ws, err := workspace.OpenWith(fs.NewMemory(), backend, vcs.Author{Name: "Tester", Email: "t@example.com"})
	if err != nil {
		t.Fatalf("opening workspace: %v", err)
	}

	t.Cleanup(ws.Close)

	return &session{ws: ws, in: strings.NewReader(input), env: map[string]string{}}, backend
}

// captureIO returns an IO writing into fresh buffers.
func captureIO() (*IO, *bytes.Buffer, *bytes.Buffer) {
	var outBuf, errBuf bytes.Buffer

	return NewIO(&outBuf, &errBuf), &outBuf, &errBuf
}
