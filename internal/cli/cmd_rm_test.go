package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedown/tracedown/internal/artifact"
)

func TestRmHardDeletesSequentialArtifacts(t *testing.T) {
	t.Parallel()

	sess, backend := fakeSession(t, "")
	ctx := context.Background()

	req := artifact.Requirement{Meta: artifact.NewMeta("REQ-001", "Doomed")}
	require.NoError(t, sess.ws.Requirements.Save(ctx, req, ""))

	o, out, _ := captureIO()
	require.NoError(t, cmdRm(ctx, o, sess.ws, []string{"REQ-001"}))
	assert.Contains(t, out.String(), "deleted REQ-001")

	_, ok, err := sess.ws.Requirements.Load("REQ-001")
	require.NoError(t, err)
	assert.False(t, ok)

	commits := backend.Commits()
	require.Len(t, commits, 1)
	assert.Equal(t, "Delete REQ-001", commits[0].Message)
}

func TestRmSoftDeletesProjects(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	ctx := context.Background()

	project := artifact.Project{Meta: artifact.NewMeta("068d2f4a1b2c", "Kept")}
	require.NoError(t, sess.ws.Projects.Save(ctx, project, ""))

	o, out, _ := captureIO()
	require.NoError(t, cmdRm(ctx, o, sess.ws, []string{"068d2f4a1b2c", "--no-commit"}))
	assert.Contains(t, out.String(), "soft-deleted 068d2f4a1b2c")

	loaded, ok, err := sess.ws.Projects.Load("068d2f4a1b2c")
	require.NoError(t, err)
	require.True(t, ok, "project file must survive soft deletion")
	assert.True(t, loaded.Deleted())
	assert.NotZero(t, loaded.DeletedAt)
}

func TestRmMissingProjectFails(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	o, _, _ := captureIO()

	err := cmdRm(context.Background(), o, sess.ws, []string{"no-such-project"})
	require.ErrorIs(t, err, errNotFound)
}
