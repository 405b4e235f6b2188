package vcs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// gitTimeout bounds every git invocation so a wedged subprocess cannot hang
// the commit queue forever.
const gitTimeout = 30 * time.Second

// Git implements [Backend] using the system git binary.
type Git struct {
	root   string
	logger *slog.Logger
}

// Compile-time interface check.
var _ Backend = (*Git)(nil)

// NewGit returns a [Git] backend operating on the given workspace directory.
// The directory does not need to be a repository yet; call [Git.Init] first
// for fresh workspaces.
func NewGit(root string) *Git {
	return &Git{
		root:   root,
		logger: slog.Default().With("module", "vcs"),
	}
}

// Init creates the repository if one is not already present.
func (g *Git) Init(ctx context.Context) error {
	_, err := g.exec(ctx, "rev-parse", "--git-dir")
	if err == nil {
		return nil // already a repository
	}

	_, initErr := g.exec(ctx, "init")
	if initErr != nil {
		return fmt.Errorf("git init: %w", initErr)
	}

	g.logger.Debug("repository initialized", "root", g.root)

	return nil
}

// Add stages a path, including deletions of tracked files.
func (g *Git) Add(ctx context.Context, path string) error {
	_, err := g.exec(ctx, "add", "-A", "--", path)
	if err != nil {
		return fmt.Errorf("git add %s: %w", path, err)
	}

	return nil
}

// Remove stages the deletion of a tracked path. Unknown paths are a no-op.
func (g *Git) Remove(ctx context.Context, path string) error {
	_, err := g.exec(ctx, "rm", "--cached", "--ignore-unmatch", "--", path)
	if err != nil {
		return fmt.Errorf("git rm %s: %w", path, err)
	}

	return nil
}

// Commit records staged changes and returns the new revision id.
func (g *Git) Commit(ctx context.Context, message string, author Author) (string, error) {
	if author.Name == "" {
		author = DefaultAuthor
	}

	_, err := g.exec(ctx,
		"-c", "user.name="+author.Name,
		"-c", "user.email="+author.Email,
		"commit", "-m", message,
	)
	if err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}

	rev, revErr := g.exec(ctx, "rev-parse", "HEAD")
	if revErr != nil {
		return "", fmt.Errorf("git rev-parse HEAD: %w", revErr)
	}

	g.logger.Debug("commit created", "revision", rev, "message", message)

	return rev, nil
}

// StatusMatrix derives three-way status rows from porcelain output.
// Clean files do not appear in porcelain output and therefore produce no row.
func (g *Git) StatusMatrix(ctx context.Context) ([]StatusRow, error) {
	out, err := g.exec(ctx, "status", "--porcelain", "-uall")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}

	return parsePorcelain(out), nil
}

// Log returns commit history, newest first.
func (g *Git) Log(ctx context.Context, pathFilter string) ([]CommitInfo, error) {
	// Unit separator keeps fields unambiguous in free-text messages.
	args := []string{"log", "--format=%H\x1f%an\x1f%at\x1f%s"}
	if pathFilter != "" {
		args = append(args, "--follow", "--", pathFilter)
	}

	out, err := g.exec(ctx, args...)
	if err != nil {
		if strings.Contains(err.Error(), "does not have any commits") {
			return []CommitInfo{}, nil
		}

		return nil, fmt.Errorf("git log: %w", err)
	}

	var commits []CommitInfo

	for line := range strings.SplitSeq(out, "\n") {
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "\x1f", 4)
		if len(parts) < 4 {
			continue
		}

		timestamp, parseErr := strconv.ParseInt(parts[2], 10, 64)
		if parseErr != nil {
			timestamp = 0
		}

		commits = append(commits, CommitInfo{
			Hash:      parts[0],
			Author:    parts[1],
			Timestamp: timestamp,
			Message:   parts[3],
		})
	}

	return commits, nil
}

// ReadFileAtRevision returns a file's content at the given revision, or
// (nil, nil) if the file does not exist there.
func (g *Git) ReadFileAtRevision(ctx context.Context, path, revision string) ([]byte, error) {
	out, err := g.exec(ctx, "show", revision+":"+path)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") ||
			strings.Contains(err.Error(), "exists on disk, but not in") {
			return nil, nil
		}

		return nil, fmt.Errorf("git show %s:%s: %w", revision, path, err)
	}

	return []byte(out), nil
}

// Pull integrates remote changes with a fast-forward-only pull.
func (g *Git) Pull(ctx context.Context) error {
	_, err := g.exec(ctx, "pull", "--ff-only")
	if err != nil {
		return fmt.Errorf("git pull: %w", err)
	}

	return nil
}

// Push publishes local commits.
func (g *Git) Push(ctx context.Context) error {
	_, err := g.exec(ctx, "push")
	if err != nil {
		return fmt.Errorf("git push: %w", err)
	}

	return nil
}

// exec runs a git command in the workspace root and returns trimmed stdout.
// GIT_TERMINAL_PROMPT=0 and LC_ALL=C keep behavior non-interactive and
// locale-independent.
func (g *Git) exec(ctx context.Context, args ...string) (string, error) {
	gitPath, lookErr := exec.LookPath("git")
	if lookErr != nil {
		return "", ErrGitNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = g.root
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}

		return "", fmt.Errorf("git %s: %s: %w", args[0], msg, runErr)
	}

	return strings.TrimRight(stdout.String(), "\n\r"), nil
}

// parsePorcelain maps `git status --porcelain` XY codes onto status rows.
func parsePorcelain(out string) []StatusRow {
	rows := []StatusRow{}

	if out == "" {
		return rows
	}

	for line := range strings.SplitSeq(out, "\n") {
		const minLineLen = 4 // "XY path"
		if len(line) < minLineLen {
			continue
		}

		x := line[0]
		y := line[1]
		path := line[3:]

		// Renames surface as "R  old -> new": the new path is an
		// addition, the old path a deletion.
		if before, after, found := strings.Cut(path, " -> "); found {
			rows = append(rows,
				StatusRow{Path: unquotePath(after), Head: HeadAbsent, Workdir: WorkdirModified, Stage: StageMatches},
				StatusRow{Path: unquotePath(before), Head: HeadPresent, Workdir: WorkdirAbsent, Stage: StageAbsent},
			)

			continue
		}

		row := classifyPorcelain(x, y, unquotePath(path))
		rows = append(rows, row)
	}

	return rows
}

//nolint:cyclop // one arm per porcelain code pair
func classifyPorcelain(x, y byte, path string) StatusRow {
	switch {
	case x == '?' && y == '?': // untracked
		return StatusRow{Path: path, Head: HeadAbsent, Workdir: WorkdirModified, Stage: StageAbsent}
	case x == 'A' && y == ' ': // staged addition
		return StatusRow{Path: path, Head: HeadAbsent, Workdir: WorkdirModified, Stage: StageMatches}
	case x == 'A': // staged addition, modified again since
		return StatusRow{Path: path, Head: HeadAbsent, Workdir: WorkdirModified, Stage: StageMatches}
	case x == 'D': // staged deletion
		return StatusRow{Path: path, Head: HeadPresent, Workdir: WorkdirAbsent, Stage: StageAbsent}
	case y == 'D': // deleted in working tree only
		return StatusRow{Path: path, Head: HeadPresent, Workdir: WorkdirAbsent, Stage: StageUnchanged}
	case x == 'M' && y == 'M': // staged and modified again
		return StatusRow{Path: path, Head: HeadPresent, Workdir: WorkdirModified, Stage: StageDiffersBoth}
	case x == 'M': // staged modification
		return StatusRow{Path: path, Head: HeadPresent, Workdir: WorkdirModified, Stage: StageMatches}
	default: // modified in working tree only
		return StatusRow{Path: path, Head: HeadPresent, Workdir: WorkdirModified, Stage: StageUnchanged}
	}
}

// unquotePath strips the quoting git applies to paths with special bytes.
func unquotePath(path string) string {
	if len(path) >= 2 && path[0] == '"' && path[len(path)-1] == '"' {
		unquoted, err := strconv.Unquote(path)
		if err == nil {
			return unquoted
		}
	}

	return path
}
