// Package commitq serializes every commit against the version control
// backend.
//
// Concurrent commits against one repository corrupt the index, so all
// commit-capable callers must route through a single [Queue]. A dedicated
// worker goroutine drains submitted jobs in order; a failed job reports its
// error to its own submitter and never stalls the jobs behind it.
package commitq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tracedown/tracedown/internal/fs"
	"github.com/tracedown/tracedown/internal/vcs"
)

// Queue orders commit operations into one logical sequence.
type Queue struct {
	fs      fs.Store
	backend vcs.Backend
	jobs    chan job
	done    chan struct{}
	logger  *slog.Logger

	closeOnce sync.Once

	mu        sync.Mutex
	revisions map[string]string
	listeners map[int]func()
	nextToken int
}

type job struct {
	ctx     context.Context
	paths   []string
	message string
	author  vcs.Author
	result  chan error
}

const jobBuffer = 16

// New starts a queue with its worker goroutine. Call [Queue.Close] when the
// workspace shuts down.
func New(store fs.Store, backend vcs.Backend) *Queue {
	queue := &Queue{
		fs:        store,
		backend:   backend,
		jobs:      make(chan job, jobBuffer),
		done:      make(chan struct{}),
		logger:    slog.Default().With("module", "commitq"),
		revisions: make(map[string]string),
		listeners: make(map[int]func()),
	}

	go queue.run()

	return queue
}

// CommitFile stages the path (or its deletion, when the file is gone from
// the workspace) and commits it with the given message. The call returns
// when this job's commit finishes, after every previously submitted job has
// fully completed.
func (q *Queue) CommitFile(ctx context.Context, path, message string, author vcs.Author) error {
	return q.CommitFiles(ctx, []string{path}, message, author)
}

// CommitFiles is CommitFile for several paths in one commit.
func (q *Queue) CommitFiles(ctx context.Context, paths []string, message string, author vcs.Author) error {
	result := make(chan error, 1)

	q.jobs <- job{ctx: ctx, paths: paths, message: message, author: author, result: result}

	return <-result
}

// LastRevision returns the revision that most recently committed the path,
// if this queue produced it. The cache only reflects commits from this
// process; it exists to spare an immediate status re-scan after a save.
func (q *Queue) LastRevision(path string) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	rev, ok := q.revisions[path]

	return rev, ok
}

// Subscribe registers a callback invoked after every successful commit.
// The returned function removes exactly this listener.
func (q *Queue) Subscribe(listener func()) func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	token := q.nextToken
	q.nextToken++
	q.listeners[token] = listener

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()

		delete(q.listeners, token)
	}
}

// Close stops accepting jobs, waits for queued work to drain, and stops the
// worker.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.jobs)
	})

	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	for pending := range q.jobs {
		err := q.process(pending)
		if err != nil {
			// The submitter gets the error; the queue moves on.
			q.logger.Warn("commit failed", "message", pending.message, "error", err)
		}

		pending.result <- err
	}
}

func (q *Queue) process(pending job) error {
	for _, path := range pending.paths {
		exists, existsErr := q.fs.Exists(path)
		if existsErr != nil {
			return fmt.Errorf("checking %s: %w", path, existsErr)
		}

		if exists {
			addErr := q.backend.Add(pending.ctx, path)
			if addErr != nil {
				return fmt.Errorf("staging %s: %w", path, addErr)
			}
		} else {
			removeErr := q.backend.Remove(pending.ctx, path)
			if removeErr != nil {
				return fmt.Errorf("unstaging %s: %w", path, removeErr)
			}
		}
	}

	revision, commitErr := q.backend.Commit(pending.ctx, pending.message, pending.author)
	if commitErr != nil {
		return fmt.Errorf("committing %q: %w", pending.message, commitErr)
	}

	q.mu.Lock()
	for _, path := range pending.paths {
		q.revisions[path] = revision
	}

	listeners := make([]func(), 0, len(q.listeners))
	for _, listener := range q.listeners {
		listeners = append(listeners, listener)
	}
	q.mu.Unlock()

	for _, listener := range listeners {
		listener()
	}

	q.logger.Debug("commit recorded", "revision", revision, "paths", len(pending.paths))

	return nil
}
