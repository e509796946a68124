package interfaces

import (
	"context"
	"fmt"
	"time"
)

// Category is the change class encoded in a fragment filename suffix,
// e.g. the "significant" in 41390.significant.rst.
type Category string

const (
	CategorySignificant Category = "significant"
	CategoryFeature     Category = "feature"
	CategoryImprovement Category = "improvement"
	CategoryBugfix      Category = "bugfix"
	CategoryDoc         Category = "doc"
	CategoryMisc        Category = "misc"
)

// KnownCategories returns the recognised categories in presentation order.
// Significant (breaking) changes always lead the generated notes.
func KnownCategories() []Category {
	return []Category{
		CategorySignificant,
		CategoryFeature,
		CategoryImprovement,
		CategoryBugfix,
		CategoryDoc,
		CategoryMisc,
	}
}

// Valid reports whether the category belongs to the recognised set.
func (c Category) Valid() bool {
	switch c {
	case CategorySignificant, CategoryFeature, CategoryImprovement,
		CategoryBugfix, CategoryDoc, CategoryMisc:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// Ref is the parsed form of a fragment filename: <issue>.<category>.<ext>.
type Ref struct {
	// Issue is the numeric issue or pull-request identifier.
	Issue int64
	// Category classifies the change described by the fragment body.
	Category Category
	// Ext is the filename extension without the leading dot (usually "rst").
	Ext string
}

// FileName reassembles the canonical filename for the reference.
func (r Ref) FileName() string {
	return fmt.Sprintf("%d.%s.%s", r.Issue, r.Category, r.Ext)
}

// Key returns a stable identifier combining issue and category. Two fragments
// with the same key are duplicates within a corpus.
func (r Ref) Key() string {
	return fmt.Sprintf("%d.%s", r.Issue, r.Category)
}

// FragmentMeta carries the optional YAML frontmatter a fragment may open
// with. Plain fragments with no frontmatter produce a zero value.
type FragmentMeta struct {
	Author string
	PRs    []int64
	Tags   []string
	Custom map[string]any
	Raw    map[string]any
}

// Fragment is a single release-note file: its parsed reference, verbatim body
// and loading metadata. Body excludes frontmatter delimiters when present.
type Fragment struct {
	Ref          Ref
	Path         string
	Body         []byte
	Meta         FragmentMeta
	Checksum     []byte
	LastModified time.Time
}

// LoadOptions provide call-specific overrides for fragment discovery.
type LoadOptions struct {
	Pattern   string
	Recursive *bool
}

// LintFinding records one structural violation discovered while linting a
// fragment corpus.
type LintFinding struct {
	Path string
	Code string
	Err  error
}

// LintReport aggregates the outcome of a corpus lint run.
type LintReport struct {
	Checked  int
	Findings []LintFinding
}

// OK reports whether the corpus passed every structural check.
func (r *LintReport) OK() bool {
	return r != nil && len(r.Findings) == 0
}

// CreateFragmentRequest describes a new fragment to write to the corpus.
type CreateFragmentRequest struct {
	Issue    int64
	Category Category
	Body     string
	Meta     FragmentMeta
}

// FragmentService discovers, parses, lints and creates release-note
// fragments under a configured corpus directory.
type FragmentService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Fragment, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Fragment, error)
	Lint(ctx context.Context, dir string, opts LoadOptions) (*LintReport, error)
	Create(ctx context.Context, req CreateFragmentRequest) (*Fragment, error)
}
