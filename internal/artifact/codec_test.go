package artifact

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	req := Requirement{
		Meta: Meta{
			ID:           "REQ-001",
			Title:        "Login timeout",
			DateCreated:  1700000000000,
			LastModified: 1700000100000,
			Revision:     "0.2",
		},
		Status:   "approved",
		Priority: "high",
		Body:     "The system shall log users out after 15 minutes of inactivity.",
	}

	encoded, err := Marshal(req, req.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(encoded), "---\n"))
	assert.Contains(t, string(encoded), "id: REQ-001")

	var decoded Requirement

	body, decodeErr := Unmarshal(encoded, &decoded)
	require.NoError(t, decodeErr)

	decoded.Body = body
	if diff := cmp.Diff(req, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalWithoutBodyEndsAtFence(t *testing.T) {
	t.Parallel()

	info := Information{Meta: NewMeta("INFO-001", "Glossary")}

	encoded, err := Marshal(info, "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(encoded), "---\n"))
}

func TestUnmarshalSoftDeletedProject(t *testing.T) {
	t.Parallel()

	content := "---\n" +
		"id: 068d2f4a1b2c3\n" +
		"title: Legacy project\n" +
		"dateCreated: 1700000000000\n" +
		"lastModified: 1700000200000\n" +
		"revision: \"1.0\"\n" +
		"isDeleted: true\n" +
		"deletedAt: 1700000200000\n" +
		"---\n"

	var project Project

	body, err := Unmarshal([]byte(content), &project)
	require.NoError(t, err)
	assert.Empty(t, body)
	assert.True(t, project.IsDeleted)
	assert.EqualValues(t, 1700000200000, project.DeletedAt)
}

func TestUnmarshalRejectsMissingFrontmatter(t *testing.T) {
	t.Parallel()

	var req Requirement

	_, err := Unmarshal([]byte("# Just a title\n"), &req)
	assert.ErrorIs(t, err, errNoFrontmatter)

	_, err = Unmarshal([]byte("---\nid: REQ-001\n"), &req)
	assert.ErrorIs(t, err, errUnclosedFrontmatter)
}

func TestKindParsingAndIDs(t *testing.T) {
	t.Parallel()

	kind, err := ParseKind("req")
	require.NoError(t, err)
	assert.Equal(t, KindRequirement, kind)

	kind, err = ParseKind("usecases")
	require.NoError(t, err)
	assert.Equal(t, KindUseCase, kind)

	_, err = ParseKind("widgets")
	assert.ErrorIs(t, err, errUnknownKind)

	assert.Equal(t, "REQ-007", FormatID(KindRequirement, 7))
	assert.Equal(t, "LINK-1000", FormatID(KindLink, 1000), "padding stops growing past 3 digits")

	resolved, err := KindForID("TC-042")
	require.NoError(t, err)
	assert.Equal(t, KindTestCase, resolved)

	_, err = KindForID("not-an-id")
	assert.ErrorIs(t, err, errMalformedID)

	n, ok := NumericSuffix(KindRequirement, "REQ-0123")
	assert.True(t, ok)
	assert.Equal(t, 123, n)

	_, ok = NumericSuffix(KindRequirement, "UC-001")
	assert.False(t, ok)
}

func TestNewProjectIDIsSortableAndUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for range 64 {
		id, err := NewProjectID()
		require.NoError(t, err)
		require.Len(t, id, projectIDLength)
		assert.False(t, seen[id], "duplicate project id %s", id)
		seen[id] = true
	}
}
