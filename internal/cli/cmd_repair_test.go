package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedown/tracedown/internal/artifact"
)

func TestRepairRaisesCountersFromFiles(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")

	// Written behind the counter's back, after the startup repair ran.
	require.NoError(t, sess.ws.FS.WriteFile("requirements/REQ-030.md", []byte("x")))

	o, out, _ := captureIO()
	require.NoError(t, cmdRepair(o, sess.ws, nil))
	assert.Contains(t, out.String(), "requirements 30")

	id, err := sess.ws.Counters.NextID(artifact.KindRequirement)
	require.NoError(t, err)
	assert.Equal(t, "REQ-031", id)
}
