// Package relnotes assembles release notes from per-change news fragments.
// Each fragment is a file named <issue>.<category>.<ext> whose body carries
// the note verbatim; the module lints a fragment corpus, builds versioned
// notes in reStructuredText or Markdown, and archives consumed fragments so
// their bodies survive pruning.
package relnotes

import (
	"context"

	"github.com/goliatone/go-relnotes/internal/di"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

// FragmentService exports the fragment service contract for consumers of the relnotes package.
type FragmentService = interfaces.FragmentService

// ChangelogService exports the changelog service contract.
type ChangelogService = interfaces.ChangelogService

// ArchiveService exports the archive service contract.
type ArchiveService = interfaces.ArchiveService

// Fragment exports the parsed fragment DTO.
type Fragment = interfaces.Fragment

// Ref exports the parsed fragment filename reference.
type Ref = interfaces.Ref

// Category exports the fragment category type.
type Category = interfaces.Category

// LintReport exports the corpus lint result.
type LintReport = interfaces.LintReport

// LintFinding exports a single lint violation.
type LintFinding = interfaces.LintFinding

// ReleaseNotes exports the assembled release-notes aggregate.
type ReleaseNotes = interfaces.ReleaseNotes

// Format exports the output format selector.
type Format = interfaces.Format

// ArchivedRelease exports the archived release summary.
type ArchivedRelease = interfaces.ArchivedRelease

// ArchivedFragment exports the archived fragment record.
type ArchivedFragment = interfaces.ArchivedFragment

// Output format selectors re-exported for hosts.
const (
	FormatRST      = interfaces.FormatRST
	FormatMarkdown = interfaces.FormatMarkdown
)

// Fragment categories re-exported for hosts.
const (
	CategorySignificant = interfaces.CategorySignificant
	CategoryFeature     = interfaces.CategoryFeature
	CategoryImprovement = interfaces.CategoryImprovement
	CategoryBugfix      = interfaces.CategoryBugfix
	CategoryDoc         = interfaces.CategoryDoc
	CategoryMisc        = interfaces.CategoryMisc
)

// Module represents the top level release-notes runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a relnotes module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases container-owned resources such as the archive database.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Fragments returns the configured fragment service.
func (m *Module) Fragments() FragmentService {
	return m.container.FragmentService()
}

// Changelog returns the configured changelog service.
func (m *Module) Changelog() ChangelogService {
	return m.container.ChangelogService()
}

// Archive returns the configured archive service, nil when archiving is disabled.
func (m *Module) Archive() ArchiveService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ArchiveService()
}

// Lint validates every fragment under dir, collecting all findings in a
// single pass.
func (m *Module) Lint(ctx context.Context, dir string) (*LintReport, error) {
	return m.Fragments().Lint(ctx, dir, interfaces.LoadOptions{})
}

// Build assembles every fragment under dir into release notes for version.
func (m *Module) Build(ctx context.Context, dir string, opts interfaces.BuildOptions) (*ReleaseNotes, error) {
	loaded, err := m.Fragments().LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return m.Changelog().Build(ctx, loaded, opts)
}

// Render produces the document bytes for previously built notes.
func (m *Module) Render(ctx context.Context, notes *ReleaseNotes, format Format) ([]byte, error) {
	return m.Changelog().Render(ctx, notes, interfaces.RenderOptions{Format: format})
}

// CreateFragment scaffolds a new fragment file in the corpus.
func (m *Module) CreateFragment(ctx context.Context, req interfaces.CreateFragmentRequest) (*Fragment, error) {
	return m.Fragments().Create(ctx, req)
}

// LookupFragment recovers the verbatim body of an archived fragment.
func (m *Module) LookupFragment(ctx context.Context, issue int64, category Category) (*ArchivedFragment, error) {
	svc := m.Archive()
	if svc == nil {
		return nil, ErrArchiveFeatureRequired
	}
	return svc.LookupFragment(ctx, issue, category)
}
