package fragments

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

// ParseFrontMatter extracts optional metadata and the verbatim body from the
// provided fragment source. Fragments without frontmatter delimiters are
// valid; the whole source becomes the body and the metadata is zero.
func ParseFrontMatter(source []byte) (interfaces.FragmentMeta, []byte, error) {
	var meta metaEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FragmentMeta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToMeta(meta), body, nil
}

type metaEnvelope struct {
	Author string         `yaml:"author"`
	PRs    []int64        `yaml:"prs"`
	Tags   []string       `yaml:"tags"`
	Custom map[string]any `yaml:",inline"`
}

func envelopeToMeta(env metaEnvelope) interfaces.FragmentMeta {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+3)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Author != "" {
		raw["author"] = env.Author
	}
	if len(env.PRs) > 0 {
		raw["prs"] = append([]int64(nil), env.PRs...)
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}

	return interfaces.FragmentMeta{
		Author: env.Author,
		PRs:    append([]int64(nil), env.PRs...),
		Tags:   append([]string(nil), env.Tags...),
		Custom: cloneMap(env.Custom),
		Raw:    raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
