// Package counter allocates collision-free sequential artifact IDs.
//
// One integer per artifact kind is persisted as the literal decimal content
// of counters/{kind}.md. Allocation is read-modify-write guarded by an
// in-process mutex; cross-process writers are out of scope (the batch API
// and startup recalculation are the accepted mitigations).
package counter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/fs"
	"github.com/tracedown/tracedown/internal/vcs"
)

var errNotNumbered = errors.New("kind does not use sequential ids")

// Store allocates IDs on top of a [fs.Store]. The optional backend powers
// best-effort remote synchronization for multi-writer setups.
type Store struct {
	fs      fs.Store
	backend vcs.Backend
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewStore returns a counter store. backend may be nil when no remote
// synchronization is wanted.
func NewStore(store fs.Store, backend vcs.Backend) *Store {
	return &Store{
		fs:      store,
		backend: backend,
		logger:  slog.Default().With("module", "counter"),
	}
}

func counterPath(kind artifact.Kind) string {
	return "counters/" + string(kind) + ".md"
}

// NextID reserves and returns the next sequential ID for the kind.
// A missing or garbled counter file counts as zero; a failed counter write
// propagates, because a failed reservation must not look valid.
func (s *Store) NextID(kind artifact.Kind) (string, error) {
	ids, err := s.NextIDs(kind, 1)
	if err != nil {
		return "", err
	}

	return ids[0], nil
}

// NextIDs reserves a contiguous block of n IDs with a single counter
// read-write pair. n <= 0 returns an empty slice without any I/O.
func (s *Store) NextIDs(kind artifact.Kind, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}

	if !kind.Numbered() {
		return nil, fmt.Errorf("%w: %s", errNotNumbered, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(kind)
	if err != nil {
		return nil, err
	}

	writeErr := s.write(kind, current+n)
	if writeErr != nil {
		return nil, writeErr
	}

	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, artifact.FormatID(kind, current+i))
	}

	return ids, nil
}

// NextIDWithSync pulls remote counter state before allocating and pushes
// after. Pull and push failures are logged and swallowed: the local
// allocation must always succeed, even fully offline. Two offline writers
// can therefore allocate the same ID; the collision surfaces at merge time,
// not here.
func (s *Store) NextIDWithSync(ctx context.Context, kind artifact.Kind) (string, error) {
	if s.backend != nil {
		pullErr := s.backend.Pull(ctx)
		if pullErr != nil {
			s.logger.Warn("counter pull failed, allocating locally", "kind", kind, "error", pullErr)
		}
	}

	id, err := s.NextID(kind)
	if err != nil {
		return "", err
	}

	if s.backend != nil {
		pushErr := s.backend.Push(ctx)
		if pushErr != nil {
			s.logger.Warn("counter push failed", "kind", kind, "error", pushErr)
		}
	}

	return id, nil
}

// Current returns the counter value without reserving anything.
func (s *Store) Current(kind artifact.Kind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(kind)
}

// Recalculate repairs counters from the artifact files on disk: for each
// numbered kind it takes the maximum numeric ID suffix observed and raises
// the counter to it. Counters never move down, the repair is idempotent,
// and nothing is committed: this is local cache repair, not a content
// change.
func (s *Store) Recalculate(kinds ...artifact.Kind) error {
	if len(kinds) == 0 {
		kinds = artifact.Kinds
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, kind := range kinds {
		if !kind.Numbered() {
			continue
		}

		err := s.recalculateKind(kind)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) recalculateKind(kind artifact.Kind) error {
	names, err := s.fs.ListFiles(kind.Dir())
	if err != nil {
		return fmt.Errorf("scanning %s: %w", kind.Dir(), err)
	}

	maxSeen := 0

	for _, name := range names {
		id, isMarkdown := strings.CutSuffix(name, ".md")
		if !isMarkdown {
			continue
		}

		n, ok := artifact.NumericSuffix(kind, id)
		if ok && n > maxSeen {
			maxSeen = n
		}
	}

	current, readErr := s.read(kind)
	if readErr != nil {
		return readErr
	}

	if maxSeen <= current {
		return nil
	}

	s.logger.Info("counter raised from artifact scan", "kind", kind, "from", current, "to", maxSeen)

	return s.write(kind, maxSeen)
}

// read returns the persisted counter value. Missing file or non-numeric
// content is zero, not an error.
func (s *Store) read(kind artifact.Kind) (int, error) {
	content, err := s.fs.ReadFile(counterPath(kind))
	if err != nil {
		return 0, fmt.Errorf("reading counter %s: %w", kind, err)
	}

	if content == nil {
		return 0, nil
	}

	value, parseErr := strconv.Atoi(strings.TrimSpace(string(content)))
	if parseErr != nil {
		s.logger.Warn("counter file is not numeric, treating as zero", "kind", kind)

		return 0, nil
	}

	return value, nil
}

func (s *Store) write(kind artifact.Kind, value int) error {
	err := s.fs.WriteFile(counterPath(kind), []byte(strconv.Itoa(value)))
	if err != nil {
		return fmt.Errorf("writing counter %s: %w", kind, err)
	}

	return nil
}
