package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedown/tracedown/internal/artifact"
)

func TestHistoryForOneArtifact(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	ctx := context.Background()

	req := artifact.Requirement{Meta: artifact.NewMeta("REQ-001", "A")}
	require.NoError(t, sess.ws.Requirements.Save(ctx, req, "Create REQ-001"))

	risk := artifact.Risk{Meta: artifact.NewMeta("RISK-001", "B")}
	require.NoError(t, sess.ws.Risks.Save(ctx, risk, "Create RISK-001"))

	o, out, _ := captureIO()
	require.NoError(t, cmdHistory(ctx, o, sess.ws, []string{"REQ-001"}))
	assert.Contains(t, out.String(), "Create REQ-001")
	assert.NotContains(t, out.String(), "Create RISK-001")

	o, out, _ = captureIO()
	require.NoError(t, cmdHistory(ctx, o, sess.ws, nil))
	assert.Contains(t, out.String(), "Create REQ-001")
	assert.Contains(t, out.String(), "Create RISK-001")
}

func TestHistoryRejectsMalformedID(t *testing.T) {
	t.Parallel()

	sess, _ := fakeSession(t, "")
	o, _, _ := captureIO()

	require.Error(t, cmdHistory(context.Background(), o, sess.ws, []string{"not an id"}))
}
