package vcs

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// FakeCommit records one commit made against a [Fake] backend.
type FakeCommit struct {
	Revision string
	Message  string
	Author   Author
	Paths    []string
}

// Fake implements [Backend] in memory for tests. Rows returned by
// StatusMatrix and content served by ReadFileAtRevision are seeded directly
// by the test.
type Fake struct {
	mu sync.Mutex

	Rows     []StatusRow
	commits  []FakeCommit
	staged   []string
	atRev    map[string]map[string][]byte
	revCount int

	// CommitHook, when set, runs inside Commit before the commit is
	// recorded. Tests use it to stretch commit latency.
	CommitHook func(message string)

	// Error injection, applied per matching call.
	AddErr    error
	CommitErr error
	PullErr   error
	PushErr   error

	PullCalls int
	PushCalls int
}

// Compile-time interface check.
var _ Backend = (*Fake)(nil)

// NewFake returns an empty fake backend.
func NewFake() *Fake {
	return &Fake{atRev: make(map[string]map[string][]byte)}
}

// Init is a no-op.
func (f *Fake) Init(context.Context) error {
	return nil
}

// Add stages a path.
func (f *Fake) Add(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.AddErr != nil {
		err := f.AddErr
		f.AddErr = nil

		return err
	}

	if !slices.Contains(f.staged, path) {
		f.staged = append(f.staged, path)
	}

	return nil
}

// Remove stages a deletion; indistinguishable from Add for the fake.
func (f *Fake) Remove(ctx context.Context, path string) error {
	return f.Add(ctx, path)
}

// Commit records the staged paths as one commit.
func (f *Fake) Commit(_ context.Context, message string, author Author) (string, error) {
	hook := f.CommitHook
	if hook != nil {
		hook(message)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CommitErr != nil {
		err := f.CommitErr
		f.CommitErr = nil

		return "", err
	}

	f.revCount++
	rev := fmt.Sprintf("rev-%03d", f.revCount)

	f.commits = append(f.commits, FakeCommit{
		Revision: rev,
		Message:  message,
		Author:   author,
		Paths:    f.staged,
	})
	f.staged = nil

	return rev, nil
}

// StatusMatrix returns the seeded rows.
func (f *Fake) StatusMatrix(context.Context) ([]StatusRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.Rows), nil
}

// Log returns recorded commits, newest first, optionally filtered by path.
func (f *Fake) Log(_ context.Context, pathFilter string) ([]CommitInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []CommitInfo

	for i := len(f.commits) - 1; i >= 0; i-- {
		commit := f.commits[i]
		if pathFilter != "" && !slices.Contains(commit.Paths, pathFilter) {
			continue
		}

		out = append(out, CommitInfo{
			Hash:    commit.Revision,
			Message: commit.Message,
			Author:  commit.Author.Name,
		})
	}

	return out, nil
}

// SetFileAtRevision seeds content served by ReadFileAtRevision.
func (f *Fake) SetFileAtRevision(revision, path string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	files, ok := f.atRev[revision]
	if !ok {
		files = make(map[string][]byte)
		f.atRev[revision] = files
	}

	files[path] = content
}

// ReadFileAtRevision returns seeded content, or (nil, nil) if absent.
func (f *Fake) ReadFileAtRevision(_ context.Context, path, revision string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, ok := f.atRev[revision][path]
	if !ok {
		return nil, nil
	}

	return content, nil
}

// Pull counts the call and returns the injected error, if any.
func (f *Fake) Pull(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.PullCalls++

	return f.PullErr
}

// Push counts the call and returns the injected error, if any.
func (f *Fake) Push(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.PushCalls++

	return f.PushErr
}

// Commits returns all recorded commits in submission order.
func (f *Fake) Commits() []FakeCommit {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.commits)
}
