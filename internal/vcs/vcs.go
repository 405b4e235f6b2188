// Package vcs provides the version control capability behind a tracedown
// workspace.
//
// The core of the application only ever talks to [Backend]; the shipped
// implementation ([Git]) shells out to the system git binary, and tests use
// [Fake]. Status is reported as a three-way matrix (HEAD / working tree /
// stage) so callers can classify changes without knowing which engine
// produced them.
package vcs

import (
	"context"
	"errors"
)

// Author identifies the committer recorded on a commit.
type Author struct {
	Name  string
	Email string
}

// DefaultAuthor is the identity used when a caller supplies none.
var DefaultAuthor = Author{Name: "Tracedown", Email: "tracedown@local"} //nolint:gochecknoglobals // package-level constant

// CommitInfo describes one commit in the history, newest first in listings.
type CommitInfo struct {
	Hash      string
	Message   string
	Author    string
	Timestamp int64 // Unix seconds
}

// Status matrix flag values. The triple (1, 1, 1) means a file is fully
// committed and unchanged; such rows must never surface as pending changes.
const (
	HeadAbsent  = 0
	HeadPresent = 1

	WorkdirAbsent    = 0
	WorkdirUnchanged = 1
	WorkdirModified  = 2

	StageAbsent      = 0
	StageUnchanged   = 1
	StageMatches     = 2
	StageDiffersBoth = 3
)

// StatusRow is one entry of the three-way status matrix.
type StatusRow struct {
	Path    string
	Head    int
	Workdir int
	Stage   int
}

// Clean reports whether the row describes an unchanged, fully committed file.
func (r StatusRow) Clean() bool {
	return r.Head == HeadPresent && r.Workdir == WorkdirUnchanged && r.Stage == StageUnchanged
}

// Backend is a Git-compatible version control engine.
type Backend interface {
	// Init creates the repository if it does not already exist.
	Init(ctx context.Context) error

	// Add stages a path. Staging a path whose working-tree file was
	// removed stages the deletion.
	Add(ctx context.Context, path string) error

	// Remove unstages a path and records its deletion in the index.
	// Unknown paths are a no-op.
	Remove(ctx context.Context, path string) error

	// Commit records staged changes and returns the new revision id.
	Commit(ctx context.Context, message string, author Author) (string, error)

	// StatusMatrix returns one row per path that the engine knows to be
	// dirty, untracked, or deleted. Engines may also emit clean (1,1,1)
	// rows; consumers must filter them.
	StatusMatrix(ctx context.Context) ([]StatusRow, error)

	// Log returns commit history, newest first, optionally limited to
	// commits touching pathFilter.
	Log(ctx context.Context, pathFilter string) ([]CommitInfo, error)

	// ReadFileAtRevision returns a file's content at the given revision,
	// or (nil, nil) if the file does not exist there.
	ReadFileAtRevision(ctx context.Context, path, revision string) ([]byte, error)

	// Pull fetches and integrates remote changes. Best-effort hook for
	// counter synchronization; callers decide whether failure matters.
	Pull(ctx context.Context) error

	// Push publishes local commits to the configured remote.
	Push(ctx context.Context) error
}

// ErrNotRepository is returned when a backend is pointed at a directory
// that is not under version control.
var ErrNotRepository = errors.New("not a version-controlled workspace")

// ErrGitNotFound is returned when the system git binary is unavailable.
var ErrGitNotFound = errors.New("system git not found in PATH")
