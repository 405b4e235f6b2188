package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedown/tracedown/internal/artifact"
)

func TestProjectUseAndCurrent(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	ctx := context.Background()

	project := artifact.Project{Meta: artifact.NewMeta("068d2f4a1b2c", "Alpha")}
	require.NoError(t, sess.ws.Projects.Save(ctx, project, ""))

	o, _, _ := captureIO()
	require.NoError(t, cmdProject(o, sess.ws, []string{"use", "068d2f4a1b2c"}))

	o, out, _ := captureIO()
	require.NoError(t, cmdProject(o, sess.ws, []string{"current"}))
	assert.Equal(t, "068d2f4a1b2c\n", out.String())
}

func TestProjectUseRejectsUnknownID(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	o, _, _ := captureIO()

	err := cmdProject(o, sess.ws, []string{"use", "missing"})
	require.ErrorIs(t, err, errNotFound)
}

func TestProjectCurrentWithoutSelectionFails(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	o, _, _ := captureIO()

	err := cmdProject(o, sess.ws, []string{"current"})
	require.ErrorIs(t, err, errNoSelection)
}

func TestUserUseAndCurrent(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	ctx := context.Background()

	user := artifact.User{Meta: artifact.NewMeta("USER-001", "Sam"), Name: "Sam"}
	require.NoError(t, sess.ws.Users.Save(ctx, user, ""))

	o, _, _ := captureIO()
	require.NoError(t, cmdUser(o, sess.ws, []string{"use", "USER-001"}))

	o, out, _ := captureIO()
	require.NoError(t, cmdUser(o, sess.ws, []string{"current"}))
	assert.Equal(t, "USER-001\n", out.String())
}
