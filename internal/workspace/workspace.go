// Package workspace wires the tracedown subsystems into one working
// artifact corpus: file store, version control, counters, one repository
// per artifact kind, the link registry, the commit queue, and the status
// reconciler.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/commitq"
	"github.com/tracedown/tracedown/internal/counter"
	"github.com/tracedown/tracedown/internal/fs"
	"github.com/tracedown/tracedown/internal/links"
	"github.com/tracedown/tracedown/internal/repo"
	"github.com/tracedown/tracedown/internal/status"
	"github.com/tracedown/tracedown/internal/vcs"
)

// Selection files live at the workspace root and hold one bare ID each.
const (
	currentProjectFile = "current-project.md"
	currentUserFile    = "current-user.md"
)

// Workspace is the composition root for one artifact corpus.
type Workspace struct {
	FS       fs.Store
	VCS      vcs.Backend
	Counters *counter.Store
	Queue    *commitq.Queue
	Status   *status.Reconciler
	Links    *links.Registry

	Requirements *repo.Repository[artifact.Requirement]
	UseCases     *repo.Repository[artifact.UseCase]
	TestCases    *repo.Repository[artifact.TestCase]
	Information  *repo.Repository[artifact.Information]
	Risks        *repo.Repository[artifact.Risk]
	Users        *repo.Repository[artifact.User]
	Projects     *repo.Repository[artifact.Project]

	Author vcs.Author

	logger *slog.Logger
}

// Open builds a workspace over the given directory and repairs counters
// from the files on disk. Safe to call on every start: the repair is
// idempotent and purely local.
func Open(root string, author vcs.Author) (*Workspace, error) {
	store, err := fs.NewDir(root)
	if err != nil {
		return nil, err
	}

	return build(store, vcs.NewGit(store.Root()), author)
}

// OpenWith builds a workspace over explicit capabilities. Tests use this
// with in-memory implementations.
func OpenWith(store fs.Store, backend vcs.Backend, author vcs.Author) (*Workspace, error) {
	return build(store, backend, author)
}

func build(store fs.Store, backend vcs.Backend, author vcs.Author) (*Workspace, error) {
	if author.Name == "" {
		author = vcs.DefaultAuthor
	}

	queue := commitq.New(store, backend)
	counters := counter.NewStore(store, backend)

	workspace := &Workspace{
		FS:       store,
		VCS:      backend,
		Counters: counters,
		Queue:    queue,
		Status:   status.New(backend, store),
		Links:    links.NewRegistry(store, queue, counters),

		Requirements: newRepo(store, queue, artifact.KindRequirement,
			func(r artifact.Requirement) string { return r.Body },
			func(r *artifact.Requirement, body string) { r.Body = body }),
		UseCases: newRepo(store, queue, artifact.KindUseCase,
			func(u artifact.UseCase) string { return u.Body },
			func(u *artifact.UseCase, body string) { u.Body = body }),
		TestCases: newRepo(store, queue, artifact.KindTestCase,
			func(tc artifact.TestCase) string { return tc.Body },
			func(tc *artifact.TestCase, body string) { tc.Body = body }),
		Information: newRepo(store, queue, artifact.KindInformation,
			func(i artifact.Information) string { return i.Body },
			func(i *artifact.Information, body string) { i.Body = body }),
		Risks: newRepo(store, queue, artifact.KindRisk,
			func(r artifact.Risk) string { return r.Body },
			func(r *artifact.Risk, body string) { r.Body = body }),
		Users: newRepo(store, queue, artifact.KindUser,
			func(u artifact.User) string { return u.Body },
			func(u *artifact.User, body string) { u.Body = body }),
		Projects: newRepo(store, queue, artifact.KindProject,
			func(p artifact.Project) string { return p.Body },
			func(p *artifact.Project, body string) { p.Body = body }),

		Author: author,
		logger: slog.Default().With("module", "workspace"),
	}

	workspace.Links.Author = author
	workspace.Requirements.Author = author
	workspace.UseCases.Author = author
	workspace.TestCases.Author = author
	workspace.Information.Author = author
	workspace.Risks.Author = author
	workspace.Users.Author = author
	workspace.Projects.Author = author

	recalcErr := counters.Recalculate()
	if recalcErr != nil {
		return nil, fmt.Errorf("startup counter repair: %w", recalcErr)
	}

	return workspace, nil
}

func newRepo[T artifact.Identifiable](
	store fs.Store, queue *commitq.Queue, kind artifact.Kind,
	body func(T) string, setBody func(*T, string),
) *repo.Repository[T] {
	return repo.New(store, queue, repo.Codec[T]{
		Kind:      kind,
		Marshal:   artifact.Encoder(body),
		Unmarshal: artifact.Decoder(setBody),
	})
}

// Init creates the directory skeleton and initializes version control.
// Idempotent: existing directories and repositories are left alone.
func (w *Workspace) Init(ctx context.Context) error {
	for _, kind := range artifact.Kinds {
		err := w.FS.EnsureDir(kind.Dir())
		if err != nil {
			return err
		}
	}

	for _, dir := range []string{"counters", status.AssetsDir} {
		err := w.FS.EnsureDir(dir)
		if err != nil {
			return err
		}
	}

	initErr := w.VCS.Init(ctx)
	if initErr != nil {
		return fmt.Errorf("initializing version control: %w", initErr)
	}

	w.logger.Info("workspace initialized", "root", w.FS.Root())

	return nil
}

// Close drains the commit queue and releases resources.
func (w *Workspace) Close() {
	w.Queue.Close()
}

// CurrentProject returns the selected project ID, or "" when none is set.
func (w *Workspace) CurrentProject() (string, error) {
	return w.readSelection(currentProjectFile)
}

// SetCurrentProject records the selected project ID. Purely local state:
// the selection file is never committed.
func (w *Workspace) SetCurrentProject(id string) error {
	return w.FS.WriteFile(currentProjectFile, []byte(id))
}

// CurrentUser returns the selected user ID, or "" when none is set.
func (w *Workspace) CurrentUser() (string, error) {
	return w.readSelection(currentUserFile)
}

// SetCurrentUser records the selected user ID.
func (w *Workspace) SetCurrentUser(id string) error {
	return w.FS.WriteFile(currentUserFile, []byte(id))
}

func (w *Workspace) readSelection(path string) (string, error) {
	content, err := w.FS.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(content)), nil
}

// PathForID resolves a sequential artifact ID to its workspace file path.
func (w *Workspace) PathForID(id string) (string, error) {
	kind, err := artifact.KindForID(id)
	if err != nil {
		return "", err
	}

	return kind.Path(id), nil
}

// History returns the commit log for one artifact, or the whole workspace
// when id is empty.
func (w *Workspace) History(ctx context.Context, id string) ([]vcs.CommitInfo, error) {
	pathFilter := ""

	if id != "" {
		resolved, err := w.PathForID(id)
		if err != nil {
			return nil, err
		}

		pathFilter = resolved
	}

	return w.VCS.Log(ctx, pathFilter)
}
