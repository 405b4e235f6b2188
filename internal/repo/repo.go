// Package repo provides the generic persistence engine shared by every
// artifact kind.
//
// One [Repository] maps one artifact type to one workspace directory.
// Serialization is injected per type, so this engine knows file paths,
// directory creation, commit wiring, and observer notification. It knows
// nothing about markdown.
package repo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/commitq"
	"github.com/tracedown/tracedown/internal/fs"
	"github.com/tracedown/tracedown/internal/vcs"
)

// Codec supplies the per-type pieces of a repository: where files live and
// how one item converts to and from markdown.
type Codec[T artifact.Identifiable] struct {
	Kind      artifact.Kind
	Marshal   func(T) ([]byte, error)
	Unmarshal func([]byte) (T, error)
}

// Repository is the generic save/load/delete engine for one artifact kind.
type Repository[T artifact.Identifiable] struct {
	fs     fs.Store
	queue  *commitq.Queue
	codec  Codec[T]
	logger *slog.Logger

	// Author is recorded on commits triggered by Save and Delete.
	Author vcs.Author

	mu        sync.Mutex
	listeners map[int]func()
	nextToken int
}

// New returns a repository for one artifact kind. queue may be nil for
// workspaces without version control; commit messages are then ignored.
func New[T artifact.Identifiable](store fs.Store, queue *commitq.Queue, codec Codec[T]) *Repository[T] {
	return &Repository[T]{
		fs:        store,
		queue:     queue,
		codec:     codec,
		logger:    slog.Default().With("module", "repo", "kind", codec.Kind),
		Author:    vcs.DefaultAuthor,
		listeners: make(map[int]func()),
	}
}

// Kind returns the artifact kind this repository stores.
func (r *Repository[T]) Kind() artifact.Kind {
	return r.codec.Kind
}

// Path returns the workspace-relative file path for an artifact ID.
func (r *Repository[T]) Path(id string) string {
	return r.codec.Kind.Path(id)
}

// Save serializes the item to {dir}/{id}.md, notifies subscribers, and,
// only when commitMessage is non-empty, commits the file through the
// queue. Write and commit failures both propagate.
func (r *Repository[T]) Save(ctx context.Context, item T, commitMessage string) error {
	content, err := r.codec.Marshal(item)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", item.ArtifactID(), err)
	}

	path := r.Path(item.ArtifactID())

	writeErr := r.fs.WriteFile(path, content)
	if writeErr != nil {
		return fmt.Errorf("saving %s: %w", item.ArtifactID(), writeErr)
	}

	r.notify()

	if commitMessage == "" || r.queue == nil {
		return nil
	}

	return r.queue.CommitFile(ctx, path, commitMessage, r.Author)
}

// Delete removes the artifact's file. Deleting a nonexistent artifact is a
// no-op. A non-empty commitMessage commits the deletion through the queue.
func (r *Repository[T]) Delete(ctx context.Context, id, commitMessage string) error {
	path := r.Path(id)

	err := r.fs.DeleteFile(path)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}

	r.notify()

	if commitMessage == "" || r.queue == nil {
		return nil
	}

	return r.queue.CommitFile(ctx, path, commitMessage, r.Author)
}

// Load reads one artifact. Missing files and unparsable content both return
// ok == false, never an error: not-found is steady state, not a fault.
func (r *Repository[T]) Load(id string) (T, bool, error) {
	var zero T

	content, err := r.fs.ReadFile(r.Path(id))
	if err != nil {
		return zero, false, fmt.Errorf("loading %s: %w", id, err)
	}

	if content == nil {
		return zero, false, nil
	}

	item, parseErr := r.codec.Unmarshal(content)
	if parseErr != nil {
		r.logger.Warn("skipping unparsable artifact", "id", id, "error", parseErr)

		return zero, false, nil
	}

	return item, true, nil
}

// LoadAll reads every artifact in the kind's directory. Files that fail to
// parse are logged and skipped; a missing directory yields an empty slice.
func (r *Repository[T]) LoadAll() ([]T, error) {
	names, err := r.fs.ListFiles(r.codec.Kind.Dir())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.codec.Kind, err)
	}

	items := make([]T, 0, len(names))

	for _, name := range names {
		id, isMarkdown := strings.CutSuffix(name, ".md")
		if !isMarkdown {
			continue
		}

		item, ok, loadErr := r.Load(id)
		if loadErr != nil {
			return nil, loadErr
		}

		if ok {
			items = append(items, item)
		}
	}

	return items, nil
}

// LoadActive is LoadAll without soft-deleted items, the default listing.
func (r *Repository[T]) LoadActive() ([]T, error) {
	items, err := r.LoadAll()
	if err != nil {
		return nil, err
	}

	active := make([]T, 0, len(items))

	for _, item := range items {
		if !item.Deleted() {
			active = append(active, item)
		}
	}

	return active, nil
}

// Subscribe registers a callback invoked after every successful Save or
// Delete. The returned function removes exactly this listener; other
// listeners are unaffected, and a removed listener may subscribe again.
func (r *Repository[T]) Subscribe(listener func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := r.nextToken
	r.nextToken++
	r.listeners[token] = listener

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		delete(r.listeners, token)
	}
}

func (r *Repository[T]) notify() {
	r.mu.Lock()
	listeners := make([]func(), 0, len(r.listeners))

	for _, listener := range r.listeners {
		listeners = append(listeners, listener)
	}
	r.mu.Unlock()

	for _, listener := range listeners {
		listener()
	}
}
