package artifact

import (
	"errors"
	"time"
)

var (
	errUnknownKind = errors.New("unknown artifact kind")
	errMalformedID = errors.New("malformed artifact id")
)

// Meta carries the fields every artifact shares. Concrete types embed it
// inline so the frontmatter stays flat.
//
// Timestamps are epoch milliseconds. Revision is a human-facing version
// label, distinct from Git history.
type Meta struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title,omitempty"`
	DateCreated  int64  `yaml:"dateCreated"`
	LastModified int64  `yaml:"lastModified"`
	Revision     string `yaml:"revision"`
	IsDeleted    bool   `yaml:"isDeleted,omitempty"`
	DeletedAt    int64  `yaml:"deletedAt,omitempty"`
}

// ArtifactID returns the immutable ID.
func (m Meta) ArtifactID() string {
	return m.ID
}

// Deleted reports whether the artifact is soft-deleted.
func (m Meta) Deleted() bool {
	return m.IsDeleted
}

// Common returns the shared metadata. Embedders get this for free, which
// lets callers handle mixed artifact types uniformly.
func (m Meta) Common() Meta {
	return m
}

// Touch updates the last-modified timestamp to now.
func (m *Meta) Touch() {
	m.LastModified = NowMillis()
}

// MarkDeleted soft-deletes the artifact: the record persists, only the flag
// and timestamp change.
func (m *Meta) MarkDeleted() {
	m.IsDeleted = true
	m.DeletedAt = NowMillis()
	m.Touch()
}

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// NewMeta initializes common fields for a freshly allocated artifact.
func NewMeta(id, title string) Meta {
	now := NowMillis()

	return Meta{
		ID:           id,
		Title:        title,
		DateCreated:  now,
		LastModified: now,
		Revision:     "0.1",
	}
}

// Identifiable is the constraint the generic repository places on stored
// types.
type Identifiable interface {
	ArtifactID() string
	Deleted() bool
}

// Requirement is a single traceable requirement.
type Requirement struct {
	Meta     `yaml:",inline"`
	Status   string `yaml:"status"`
	Priority string `yaml:"priority"`
	Body     string `yaml:"-"`
}

// UseCase describes an actor's interaction with the system.
type UseCase struct {
	Meta  `yaml:",inline"`
	Actor string `yaml:"actor,omitempty"`
	Body  string `yaml:"-"`
}

// TestCase verifies one or more requirements.
type TestCase struct {
	Meta           `yaml:",inline"`
	Steps          []string `yaml:"steps,omitempty"`
	ExpectedResult string   `yaml:"expectedResult,omitempty"`
	Body           string   `yaml:"-"`
}

// Information is a free-form note attached to the corpus.
type Information struct {
	Meta `yaml:",inline"`
	Body string `yaml:"-"`
}

// Risk records a hazard with its severity and mitigation.
type Risk struct {
	Meta       `yaml:",inline"`
	Severity   string `yaml:"severity,omitempty"`
	Mitigation string `yaml:"mitigation,omitempty"`
	Body       string `yaml:"-"`
}

// User is a person working in the workspace.
type User struct {
	Meta  `yaml:",inline"`
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
	Body  string `yaml:"-"`
}

// Project groups artifacts into a scope. Projects are soft-deleted, never
// removed from disk.
type Project struct {
	Meta        `yaml:",inline"`
	Description string `yaml:"description,omitempty"`
	Body        string `yaml:"-"`
}
