package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedown/tracedown/internal/artifact"
)

func TestLsListsOneKindSorted(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	ctx := context.Background()

	second := artifact.Requirement{Meta: artifact.NewMeta("REQ-002", "Second")}
	require.NoError(t, sess.ws.Requirements.Save(ctx, second, ""))

	first := artifact.Requirement{Meta: artifact.NewMeta("REQ-001", "First")}
	require.NoError(t, sess.ws.Requirements.Save(ctx, first, ""))

	o, out, _ := captureIO()
	require.NoError(t, cmdLs(o, sess.ws, []string{"requirement"}))

	assert.Equal(t, "REQ-001 - First\nREQ-002 - Second\n", out.String())
}

func TestLsHidesSoftDeletedWithoutAll(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	ctx := context.Background()

	live := artifact.Project{Meta: artifact.NewMeta("068d2f4a1b2c", "Live")}
	require.NoError(t, sess.ws.Projects.Save(ctx, live, ""))

	gone := artifact.Project{Meta: artifact.NewMeta("068d2f4a1b2d", "Gone")}
	gone.MarkDeleted()
	require.NoError(t, sess.ws.Projects.Save(ctx, gone, ""))

	o, out, _ := captureIO()
	require.NoError(t, cmdLs(o, sess.ws, []string{"project"}))
	assert.Contains(t, out.String(), "Live")
	assert.NotContains(t, out.String(), "Gone")

	o, out, _ = captureIO()
	require.NoError(t, cmdLs(o, sess.ws, []string{"project", "--all"}))
	assert.Contains(t, out.String(), "068d2f4a1b2d - Gone (deleted)")
}

func TestLsWithoutKindSpansAllKinds(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	ctx := context.Background()

	req := artifact.Requirement{Meta: artifact.NewMeta("REQ-001", "Req")}
	require.NoError(t, sess.ws.Requirements.Save(ctx, req, ""))

	risk := artifact.Risk{Meta: artifact.NewMeta("RISK-001", "Risk")}
	require.NoError(t, sess.ws.Risks.Save(ctx, risk, ""))

	o, out, _ := captureIO()
	require.NoError(t, cmdLs(o, sess.ws, nil))

	assert.Contains(t, out.String(), "REQ-001")
	assert.Contains(t, out.String(), "RISK-001")
}

func TestLsRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	o, _, _ := captureIO()

	require.Error(t, cmdLs(o, sess.ws, []string{"widgets"}))
}
