// Package status derives the pending-changes view of a workspace.
//
// The version control matrix alone under-reports files that were written but
// never staged, and it can surface editor swap artifacts that are pure
// noise. The [Reconciler] merges the matrix with a live directory sweep,
// filters transient files, and deduplicates, trading a full re-scan per call
// for correctness. Artifact counts are hundreds, not millions.
package status

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/fs"
	"github.com/tracedown/tracedown/internal/vcs"
)

// State classifies one pending change.
type State string

// Change states.
const (
	StateNew      State = "new"
	StateModified State = "modified"
	StateDeleted  State = "deleted"
)

// FileChange is one pending change. Derived, never persisted.
type FileChange struct {
	Path  string
	State State
}

// AssetsDir holds binary attachments referenced from artifacts.
const AssetsDir = "assets"

// imageExtensions are the asset files the sweep recognizes as content.
//
//nolint:gochecknoglobals // package-level constant
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
}

// Reconciler produces the unified pending-changes list.
type Reconciler struct {
	backend vcs.Backend
	fs      fs.Store
}

// New returns a reconciler over the given backend and file store.
func New(backend vcs.Backend, store fs.Store) *Reconciler {
	return &Reconciler{backend: backend, fs: store}
}

// Changes computes the deduplicated pending-change set: matrix
// classification first, then a sweep of every artifact directory for files
// the matrix missed. The result is sorted by path and is a snapshot; re-run
// after any commit if up-to-date results matter.
func (r *Reconciler) Changes(ctx context.Context) ([]FileChange, error) {
	rows, err := r.backend.StatusMatrix(ctx)
	if err != nil {
		return nil, fmt.Errorf("status matrix: %w", err)
	}

	seen := make(map[string]bool)
	changes := []FileChange{}

	for _, row := range rows {
		if IsTransient(row.Path) || seen[row.Path] {
			continue
		}

		state, pending := classify(row)
		if !pending {
			continue
		}

		seen[row.Path] = true

		changes = append(changes, FileChange{Path: row.Path, State: state})
	}

	swept, sweepErr := r.sweep(seen)
	if sweepErr != nil {
		return nil, sweepErr
	}

	changes = append(changes, swept...)

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})

	return changes, nil
}

// classify maps a matrix row to a change state. The (1,1,1) triple,
// committed and unchanged, must never surface.
func classify(row vcs.StatusRow) (State, bool) {
	switch {
	case row.Clean():
		return "", false
	case row.Head == vcs.HeadAbsent && row.Workdir != vcs.WorkdirAbsent:
		return StateNew, true
	case row.Head == vcs.HeadPresent && row.Workdir == vcs.WorkdirAbsent:
		return StateDeleted, true
	default:
		return StateModified, true
	}
}

// sweep walks every artifact directory and reports on-disk files the matrix
// did not account for as new. This recovers files written but never staged.
func (r *Reconciler) sweep(seen map[string]bool) ([]FileChange, error) {
	dirs := make([]string, 0, len(artifact.Kinds)+1)
	for _, kind := range artifact.Kinds {
		dirs = append(dirs, kind.Dir())
	}

	dirs = append(dirs, AssetsDir)

	var changes []FileChange

	for _, dir := range dirs {
		names, err := r.fs.ListFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("sweeping %s: %w", dir, err)
		}

		for _, name := range names {
			if !recognized(dir, name) || IsTransient(name) {
				continue
			}

			filePath := dir + "/" + name
			if seen[filePath] {
				continue
			}

			seen[filePath] = true

			changes = append(changes, FileChange{Path: filePath, State: StateNew})
		}
	}

	return changes, nil
}

// recognized reports whether a swept file counts as workspace content:
// markdown in artifact directories, known image types under assets.
func recognized(dir, name string) bool {
	if dir == AssetsDir {
		return imageExtensions[strings.ToLower(path.Ext(name))]
	}

	return strings.HasSuffix(name, ".md")
}

// transientSuffixes are editor lock/swap artifacts whose appearance and
// disappearance is unrelated to real content changes.
//
//nolint:gochecknoglobals // package-level constant
var transientSuffixes = []string{".crswap", ".swp", ".tmp", "~"}

// IsTransient reports whether a path names an editor swap/lock artifact that
// must never be reported, whichever enumeration discovered it.
func IsTransient(filePath string) bool {
	base := path.Base(filePath)

	if strings.HasPrefix(base, ".#") {
		return true
	}

	for _, suffix := range transientSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	return false
}
