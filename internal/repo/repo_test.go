package repo

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/commitq"
	"github.com/tracedown/tracedown/internal/fs"
	"github.com/tracedown/tracedown/internal/vcs"
)

func requirementCodec() Codec[artifact.Requirement] {
	return Codec[artifact.Requirement]{
		Kind:    artifact.KindRequirement,
		Marshal: artifact.Encoder(func(r artifact.Requirement) string { return r.Body }),
		Unmarshal: artifact.Decoder(func(r *artifact.Requirement, body string) {
			r.Body = body
		}),
	}
}

func newTestRepo(t *testing.T) (*Repository[artifact.Requirement], *fs.Memory) {
	t.Helper()

	mem := fs.NewMemory()

	return New(mem, nil, requirementCodec()), mem
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)

	req := artifact.Requirement{
		Meta:     artifact.NewMeta("REQ-001", "Audit log retention"),
		Status:   "draft",
		Priority: "medium",
		Body:     "Audit entries shall be retained for 10 years.",
	}

	require.NoError(t, repo.Save(context.Background(), req, ""))

	loaded, ok, err := repo.Load("REQ-001")
	require.NoError(t, err)
	require.True(t, ok)

	if diff := cmp.Diff(req, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingReturnsNotOK(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)

	_, ok, err := repo.Load("REQ-404")
	require.NoError(t, err, "not-found must not be an error")
	assert.False(t, ok)
}

func TestLoadUnparsableReturnsNotOK(t *testing.T) {
	t.Parallel()

	repo, mem := newTestRepo(t)
	require.NoError(t, mem.WriteFile("requirements/REQ-001.md", []byte("no frontmatter here")))

	_, ok, err := repo.Load("REQ-001")
	require.NoError(t, err, "parse failure must not be an error")
	assert.False(t, ok)
}

func TestLoadAllSkipsBadFilesAndForeignExtensions(t *testing.T) {
	t.Parallel()

	repo, mem := newTestRepo(t)

	good := artifact.Requirement{Meta: artifact.NewMeta("REQ-001", "Good")}
	require.NoError(t, repo.Save(context.Background(), good, ""))
	require.NoError(t, mem.WriteFile("requirements/REQ-002.md", []byte("garbage")))
	require.NoError(t, mem.WriteFile("requirements/REQ-003.md.swp", []byte("swap")))

	items, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "REQ-001", items[0].ID)
}

func TestLoadAllMissingDirectoryIsEmpty(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)

	items, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)

	assert.NoError(t, repo.Delete(context.Background(), "REQ-404", ""))
}

func TestSoftDeletePreservesFile(t *testing.T) {
	t.Parallel()

	mem := fs.NewMemory()
	projects := New(mem, nil, Codec[artifact.Project]{
		Kind:    artifact.KindProject,
		Marshal: artifact.Encoder(func(p artifact.Project) string { return p.Body }),
		Unmarshal: artifact.Decoder(func(p *artifact.Project, body string) {
			p.Body = body
		}),
	})

	project := artifact.Project{Meta: artifact.NewMeta("068d2f4a1b2c", "Pilot")}
	require.NoError(t, projects.Save(context.Background(), project, ""))

	project.MarkDeleted()
	require.NoError(t, projects.Save(context.Background(), project, ""))

	exists, err := mem.Exists("projects/068d2f4a1b2c.md")
	require.NoError(t, err)
	assert.True(t, exists, "soft delete keeps the file on disk")

	loaded, ok, loadErr := projects.Load("068d2f4a1b2c")
	require.NoError(t, loadErr)
	require.True(t, ok)
	assert.True(t, loaded.IsDeleted)

	active, activeErr := projects.LoadActive()
	require.NoError(t, activeErr)
	assert.Empty(t, active, "default listing filters deleted items")
}

func TestSaveWithMessageCommitsThroughQueue(t *testing.T) {
	t.Parallel()

	mem := fs.NewMemory()
	backend := vcs.NewFake()
	queue := commitq.New(mem, backend)
	defer queue.Close()

	repo := New(mem, queue, requirementCodec())

	req := artifact.Requirement{Meta: artifact.NewMeta("REQ-001", "Traced")}
	require.NoError(t, repo.Save(context.Background(), req, "Add REQ-001"))

	commits := backend.Commits()
	require.Len(t, commits, 1)
	assert.Equal(t, "Add REQ-001", commits[0].Message)
	assert.Equal(t, []string{"requirements/REQ-001.md"}, commits[0].Paths)
}

func TestSaveWithoutMessageDoesNotCommit(t *testing.T) {
	t.Parallel()

	mem := fs.NewMemory()
	backend := vcs.NewFake()
	queue := commitq.New(mem, backend)
	defer queue.Close()

	repo := New(mem, queue, requirementCodec())

	req := artifact.Requirement{Meta: artifact.NewMeta("REQ-001", "Untracked save")}
	require.NoError(t, repo.Save(context.Background(), req, ""))

	assert.Empty(t, backend.Commits())
}

func TestSubscribeListenersAreIndependent(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)

	var first, second int

	cancelFirst := repo.Subscribe(func() { first++ })
	repo.Subscribe(func() { second++ })

	req := artifact.Requirement{Meta: artifact.NewMeta("REQ-001", "Observed")}
	require.NoError(t, repo.Save(context.Background(), req, ""))

	cancelFirst()
	cancelFirst() // double-cancel is harmless

	require.NoError(t, repo.Save(context.Background(), req, ""))

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)

	// A removed listener may subscribe again.
	repo.Subscribe(func() { first++ })
	require.NoError(t, repo.Delete(context.Background(), "REQ-001", ""))

	assert.Equal(t, 2, first)
	assert.Equal(t, 3, second)
}
