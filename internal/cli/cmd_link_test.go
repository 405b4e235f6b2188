package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkCreatePrintsID(t *testing.T) {
	t.Parallel()

	sess, backend := fakeSession(t, "")
	o, out, _ := captureIO()

	err := cmdLink(context.Background(), o, sess.ws, []string{"TC-001", "REQ-001", "verifies"})
	require.NoError(t, err)
	assert.Equal(t, "LINK-001\n", out.String())

	commits := backend.Commits()
	require.Len(t, commits, 1)
	assert.Equal(t, "Link TC-001 verifies REQ-001", commits[0].Message)
}

func TestLinkDuplicateIsRejected(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	o, _, _ := captureIO()
	ctx := context.Background()

	require.NoError(t, cmdLink(ctx, o, sess.ws, []string{"TC-001", "REQ-001", "verifies", "--no-commit"}))

	err := cmdLink(ctx, o, sess.ws, []string{"TC-001", "REQ-001", "verifies", "--no-commit"})
	require.ErrorIs(t, err, errLinkExists)

	// Same endpoints with a different type is a distinct link.
	require.NoError(t, cmdLink(ctx, o, sess.ws, []string{"TC-001", "REQ-001", "relates", "--no-commit"}))
}

func TestLinkRejectsUnknownType(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	o, _, _ := captureIO()

	err := cmdLink(context.Background(), o, sess.ws, []string{"TC-001", "REQ-001", "likes"})
	require.ErrorIs(t, err, errUnknownType)
}

func TestLinkLsShowsBothDirections(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	o, _, _ := captureIO()
	ctx := context.Background()

	require.NoError(t, cmdLink(ctx, o, sess.ws, []string{"TC-001", "REQ-001", "verifies", "--no-commit"}))
	require.NoError(t, cmdLink(ctx, o, sess.ws, []string{"REQ-001", "RISK-001", "mitigates", "--no-commit"}))

	o, out, _ := captureIO()
	require.NoError(t, cmdLink(ctx, o, sess.ws, []string{"ls", "REQ-001"}))

	assert.Contains(t, out.String(), "REQ-001 mitigates RISK-001")
	assert.Contains(t, out.String(), "REQ-001 is verified by TC-001")
}

func TestLinkTypesListsInverses(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	o, out, _ := captureIO()

	require.NoError(t, cmdLink(context.Background(), o, sess.ws, []string{"types"}))
	assert.Contains(t, out.String(), "verifies")
	assert.Contains(t, out.String(), "is verified by")
}
