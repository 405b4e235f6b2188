// Package links manages typed, directed relationships between artifacts.
//
// A link references two artifact IDs without enforcing that either exists;
// dangling links are a detectable condition, not a prevented one. Links with
// no project scope are visible everywhere; scoped links only within their
// listed projects.
package links

import (
	"context"
	"fmt"
	"slices"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/commitq"
	"github.com/tracedown/tracedown/internal/counter"
	"github.com/tracedown/tracedown/internal/fs"
	"github.com/tracedown/tracedown/internal/repo"
)

// Type names a link relationship, stored from the source's point of view.
type Type string

// Link types.
const (
	TypeVerifies  Type = "verifies"
	TypeSatisfies Type = "satisfies"
	TypeDerives   Type = "derives"
	TypeRefines   Type = "refines"
	TypeConflicts Type = "conflicts"
	TypeRelates   Type = "relates"
	TypeMitigates Type = "mitigates"
)

// inverses maps every link type to the label shown on the target side.
//
//nolint:gochecknoglobals // package-level constant
var inverses = map[Type]string{
	TypeVerifies:  "is verified by",
	TypeSatisfies: "is satisfied by",
	TypeDerives:   "is derived from",
	TypeRefines:   "is refined by",
	TypeConflicts: "conflicts with",
	TypeRelates:   "relates to",
	TypeMitigates: "is mitigated by",
}

// Inverse returns the display label for an incoming link of the given type.
func Inverse(t Type) string {
	if label, ok := inverses[t]; ok {
		return label
	}

	return "is linked from"
}

// Types lists the known link types.
func Types() []Type {
	types := make([]Type, 0, len(inverses))
	for t := range inverses {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// Link is a directed, typed relationship between two artifact IDs.
// Empty ProjectIDs means globally visible.
type Link struct {
	artifact.Meta `yaml:",inline"`
	SourceID      string   `yaml:"sourceId"`
	TargetID      string   `yaml:"targetId"`
	Type          Type     `yaml:"type"`
	ProjectIDs    []string `yaml:"projectIds"`
	Body          string   `yaml:"-"`
}

// Incoming is a link seen from its target, carrying the inverse label for
// display.
type Incoming struct {
	Link
	InverseType string
}

// Registry is the link store: the generic repository surface plus
// relationship queries.
type Registry struct {
	*repo.Repository[Link]

	counters *counter.Store
}

// NewRegistry returns a link registry sharing the workspace's counter store.
func NewRegistry(store fs.Store, queue *commitq.Queue, counters *counter.Store) *Registry {
	return &Registry{
		Repository: repo.New(store, queue, repo.Codec[Link]{
			Kind:    artifact.KindLink,
			Marshal: artifact.Encoder(func(l Link) string { return l.Body }),
			Unmarshal: artifact.Decoder(func(l *Link, body string) {
				l.Body = body
			}),
		}),
		counters: counters,
	}
}

// Create allocates a LINK id and saves a new link. Duplicate prevention is
// the caller's concern (via [Registry.Exists]); the storage layer accepts
// exact duplicates.
func (r *Registry) Create(
	ctx context.Context, sourceID, targetID string, linkType Type, projectIDs []string, commitMessage string,
) (Link, error) {
	id, err := r.counters.NextID(artifact.KindLink)
	if err != nil {
		return Link{}, fmt.Errorf("allocating link id: %w", err)
	}

	link := Link{
		Meta:       artifact.NewMeta(id, ""),
		SourceID:   sourceID,
		TargetID:   targetID,
		Type:       linkType,
		ProjectIDs: projectIDs,
	}

	saveErr := r.Save(ctx, link, commitMessage)
	if saveErr != nil {
		return Link{}, saveErr
	}

	return link, nil
}

// Outgoing returns all links whose source is the given artifact.
func (r *Registry) Outgoing(artifactID string) ([]Link, error) {
	return r.filter(func(l Link) bool {
		return l.SourceID == artifactID
	})
}

// IncomingLinks returns all links targeting the artifact, each carrying the
// inverse of its stored type.
func (r *Registry) IncomingLinks(artifactID string) ([]Incoming, error) {
	matched, err := r.filter(func(l Link) bool {
		return l.TargetID == artifactID
	})
	if err != nil {
		return nil, err
	}

	incoming := make([]Incoming, 0, len(matched))
	for _, link := range matched {
		incoming = append(incoming, Incoming{Link: link, InverseType: Inverse(link.Type)})
	}

	return incoming, nil
}

// Exists reports whether a link from source to target exists, optionally
// narrowed to one type (empty linkType matches any).
func (r *Registry) Exists(sourceID, targetID string, linkType Type) (bool, error) {
	matched, err := r.filter(func(l Link) bool {
		if l.SourceID != sourceID || l.TargetID != targetID {
			return false
		}

		return linkType == "" || l.Type == linkType
	})
	if err != nil {
		return false, err
	}

	return len(matched) > 0, nil
}

// ForProject returns globally visible links plus links scoped to the given
// project.
func (r *Registry) ForProject(projectID string) ([]Link, error) {
	return r.filter(func(l Link) bool {
		return len(l.ProjectIDs) == 0 || slices.Contains(l.ProjectIDs, projectID)
	})
}

// Global returns links with no project scope.
func (r *Registry) Global() ([]Link, error) {
	return r.filter(func(l Link) bool {
		return len(l.ProjectIDs) == 0
	})
}

// RecalculateCounter repairs the LINK counter from the files on disk.
func (r *Registry) RecalculateCounter() error {
	return r.counters.Recalculate(artifact.KindLink)
}

func (r *Registry) filter(keep func(Link) bool) ([]Link, error) {
	all, err := r.LoadActive()
	if err != nil {
		return nil, err
	}

	matched := make([]Link, 0, len(all))

	for _, link := range all {
		if keep(link) {
			matched = append(matched, link)
		}
	}

	return matched, nil
}
