// Package artifact defines the domain entities of a tracedown workspace and
// their markdown-with-frontmatter encoding.
//
// Every artifact is one file at {kind dir}/{id}.md. The ID is immutable once
// assigned and is the sole addressing key for the file path.
package artifact

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind names an artifact type. The string value doubles as the workspace
// directory and the counter key.
type Kind string

// Artifact kinds.
const (
	KindRequirement Kind = "requirements"
	KindUseCase     Kind = "usecases"
	KindTestCase    Kind = "testcases"
	KindInformation Kind = "information"
	KindRisk        Kind = "risks"
	KindUser        Kind = "users"
	KindProject     Kind = "projects"
	KindLink        Kind = "links"
)

// Kinds lists every artifact kind in workspace-layout order.
//
//nolint:gochecknoglobals // package-level constant
var Kinds = []Kind{
	KindRequirement,
	KindUseCase,
	KindTestCase,
	KindInformation,
	KindRisk,
	KindUser,
	KindProject,
	KindLink,
}

// prefixes maps sequentially numbered kinds to their ID prefix. Projects are
// absent: they use time-ordered IDs, not counters.
//
//nolint:gochecknoglobals // package-level constant
var prefixes = map[Kind]string{
	KindRequirement: "REQ",
	KindUseCase:     "UC",
	KindTestCase:    "TC",
	KindInformation: "INFO",
	KindRisk:        "RISK",
	KindUser:        "USER",
	KindLink:        "LINK",
}

// Dir returns the workspace directory holding this kind's files.
func (k Kind) Dir() string {
	return string(k)
}

// Prefix returns the ID prefix for sequentially numbered kinds, or "" for
// kinds with time-ordered IDs.
func (k Kind) Prefix() string {
	return prefixes[k]
}

// Numbered reports whether the kind uses {PREFIX}-{NNN} counter IDs.
func (k Kind) Numbered() bool {
	_, ok := prefixes[k]

	return ok
}

// Path returns the workspace-relative file path for an artifact ID.
func (k Kind) Path(id string) string {
	return k.Dir() + "/" + id + ".md"
}

// ParseKind resolves user input (directory name, prefix, or singular alias)
// to a Kind.
func ParseKind(s string) (Kind, error) {
	lowered := strings.ToLower(strings.TrimSpace(s))

	aliases := map[string]Kind{
		"requirement": KindRequirement,
		"req":         KindRequirement,
		"usecase":     KindUseCase,
		"uc":          KindUseCase,
		"testcase":    KindTestCase,
		"tc":          KindTestCase,
		"info":        KindInformation,
		"risk":        KindRisk,
		"user":        KindUser,
		"project":     KindProject,
		"link":        KindLink,
	}

	if kind, ok := aliases[lowered]; ok {
		return kind, nil
	}

	for _, kind := range Kinds {
		if lowered == string(kind) {
			return kind, nil
		}
	}

	return "", fmt.Errorf("%w: %s", errUnknownKind, s)
}

// idPattern matches sequential IDs like REQ-001 and captures prefix and
// numeric suffix. Padding is at least 3 digits but grows unbounded.
var idPattern = regexp.MustCompile(`^([A-Z]+)-(\d+)$`)

// KindForID resolves a sequential artifact ID to its kind by prefix.
func KindForID(id string) (Kind, error) {
	match := idPattern.FindStringSubmatch(id)
	if match == nil {
		return "", fmt.Errorf("%w: %s", errMalformedID, id)
	}

	for kind, prefix := range prefixes {
		if prefix == match[1] {
			return kind, nil
		}
	}

	return "", fmt.Errorf("%w: %s", errUnknownKind, match[1])
}

// NumericSuffix extracts the numeric part of a sequential ID for the given
// kind, or (0, false) when the ID does not belong to that kind.
func NumericSuffix(kind Kind, id string) (int, bool) {
	match := idPattern.FindStringSubmatch(id)
	if match == nil || match[1] != kind.Prefix() {
		return 0, false
	}

	n, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, false
	}

	return n, true
}

// FormatID builds a sequential ID, zero-padded to at least 3 digits.
func FormatID(kind Kind, n int) string {
	return fmt.Sprintf("%s-%03d", kind.Prefix(), n)
}
