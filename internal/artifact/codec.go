package artifact

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

var (
	errNoFrontmatter       = errors.New("no frontmatter found")
	errUnclosedFrontmatter = errors.New("unclosed frontmatter")
)

// Marshal renders an artifact as YAML frontmatter between --- fences,
// followed by the markdown body. Fields tagged yaml:"-" (the body carrier)
// are excluded from the frontmatter.
func Marshal(item any, body string) ([]byte, error) {
	frontmatter, err := yaml.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var builder strings.Builder

	builder.WriteString(fence + "\n")
	builder.Write(frontmatter)
	builder.WriteString(fence + "\n")

	if body != "" {
		builder.WriteString("\n")
		builder.WriteString(body)

		if !strings.HasSuffix(body, "\n") {
			builder.WriteString("\n")
		}
	}

	return []byte(builder.String()), nil
}

// Unmarshal parses a frontmatter document into item and returns the
// markdown body that followed the closing fence.
func Unmarshal(data []byte, item any) (string, error) {
	content := string(data)

	after, found := strings.CutPrefix(content, fence+"\n")
	if !found {
		return "", errNoFrontmatter
	}

	frontmatter, rest, closed := strings.Cut(after, "\n"+fence)
	if !closed {
		return "", errUnclosedFrontmatter
	}

	err := yaml.Unmarshal([]byte(frontmatter+"\n"), item)
	if err != nil {
		return "", fmt.Errorf("parsing frontmatter: %w", err)
	}

	body := strings.TrimPrefix(rest, "\n")
	body = strings.TrimPrefix(body, "\n")

	return strings.TrimSuffix(body, "\n"), nil
}

// Encoder builds a marshal function for one artifact type from its body
// accessor. Used to assemble repository codecs.
func Encoder[T any](body func(T) string) func(T) ([]byte, error) {
	return func(item T) ([]byte, error) {
		return Marshal(item, body(item))
	}
}

// Decoder builds an unmarshal function for one artifact type from its body
// setter.
func Decoder[T any](setBody func(*T, string)) func([]byte) (T, error) {
	return func(data []byte) (T, error) {
		var item T

		body, err := Unmarshal(data, &item)
		if err != nil {
			return item, err
		}

		setBody(&item, body)

		return item, nil
	}
}
