package interfaces

import (
	"context"
	"time"
)

// Format selects the document flavour emitted by changelog renderers.
type Format string

const (
	FormatRST      Format = "rst"
	FormatMarkdown Format = "markdown"
)

// ReleaseEntry is one rendered change within a section. Body is the verbatim
// fragment text; link fields are populated when a link resolver is configured.
type ReleaseEntry struct {
	Issue    int64
	Body     string
	IssueURL string
	PRURLs   []string
}

// ReleaseSection groups the entries of a single category under its heading.
type ReleaseSection struct {
	Category Category
	Heading  string
	Breaking bool
	Entries  []ReleaseEntry
}

// ReleaseNotes is the aggregate produced by a build: every consumed fragment
// classified into ordered sections for one released version.
type ReleaseNotes struct {
	Version  string
	Slug     string
	Date     time.Time
	Sections []ReleaseSection
}

// Entry locates the entry for the given issue and category, if present.
func (n *ReleaseNotes) Entry(issue int64, category Category) (ReleaseEntry, bool) {
	if n == nil {
		return ReleaseEntry{}, false
	}
	for _, section := range n.Sections {
		if section.Category != category {
			continue
		}
		for _, entry := range section.Entries {
			if entry.Issue == issue {
				return entry, true
			}
		}
	}
	return ReleaseEntry{}, false
}

// BuildOptions parameterise a release-notes build.
type BuildOptions struct {
	Version string
	Date    time.Time
}

// RenderOptions parameterise changelog rendering.
type RenderOptions struct {
	Format Format
}

// ParseOptions tune the markdown engine used for HTML previews.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownParser renders markdown bytes into HTML. Implementations must be
// safe for concurrent use.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ChangelogService assembles fragments into release notes and renders them.
type ChangelogService interface {
	Build(ctx context.Context, fragments []*Fragment, opts BuildOptions) (*ReleaseNotes, error)
	Render(ctx context.Context, notes *ReleaseNotes, opts RenderOptions) ([]byte, error)
	// Preview renders the markdown flavour of the notes into HTML.
	Preview(ctx context.Context, notes *ReleaseNotes, opts ParseOptions) ([]byte, error)
}
