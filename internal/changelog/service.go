package changelog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-relnotes/internal/fragments"
	"github.com/goliatone/go-relnotes/internal/logging"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

// Config controls changelog assembly and rendering defaults.
type Config struct {
	// Format is the default output flavour when RenderOptions leave it unset.
	Format interfaces.Format
	// Parser supplies defaults for HTML previews.
	Parser interfaces.ParseOptions
}

// Service implements interfaces.ChangelogService.
type Service struct {
	cfg    Config
	links  *LinkResolver
	parser interfaces.MarkdownParser
	logger interfaces.Logger
}

var _ interfaces.ChangelogService = (*Service)(nil)

// NewService constructs a changelog service. A nil parser falls back to a
// goldmark parser with the configured defaults; a nil resolver disables
// issue links.
func NewService(cfg Config, links *LinkResolver, parser interfaces.MarkdownParser, logger interfaces.Logger) *Service {
	if cfg.Format == "" {
		cfg.Format = interfaces.FormatRST
	}
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Service{
		cfg:    cfg,
		links:  links,
		parser: parser,
		logger: logger,
	}
}

// Build classifies fragments into ordered sections for the release described
// by opts. Sections follow category rank; entries within a section follow
// ascending issue number. Bodies are carried verbatim.
func (s *Service) Build(ctx context.Context, frags []*interfaces.Fragment, opts interfaces.BuildOptions) (*interfaces.ReleaseNotes, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		return nil, errors.New("changelog build: version is required")
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	grouped := map[interfaces.Category][]interfaces.ReleaseEntry{}
	for _, fragment := range frags {
		if fragment == nil {
			continue
		}
		entry, err := s.entryFor(fragment)
		if err != nil {
			return nil, err
		}
		grouped[fragment.Ref.Category] = append(grouped[fragment.Ref.Category], entry)
	}

	notes := &interfaces.ReleaseNotes{
		Version: version,
		Slug:    normaliseSlug(version),
		Date:    date,
	}

	for _, spec := range fragments.Specs() {
		entries, ok := grouped[spec.Category]
		if !ok {
			continue
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Issue < entries[j].Issue
		})
		notes.Sections = append(notes.Sections, interfaces.ReleaseSection{
			Category: spec.Category,
			Heading:  spec.Heading,
			Breaking: spec.Breaking,
			Entries:  entries,
		})
	}

	logging.WithFragmentContext(s.logger, "", "", version).Info("changelog.build.completed",
		"fragments", len(frags),
		"sections", len(notes.Sections),
	)
	return notes, nil
}

// Render emits the notes as an RST or Markdown document.
func (s *Service) Render(ctx context.Context, notes *interfaces.ReleaseNotes, opts interfaces.RenderOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if notes == nil {
		return nil, errors.New("changelog render: notes are nil")
	}

	format := opts.Format
	if format == "" {
		format = s.cfg.Format
	}

	switch format {
	case interfaces.FormatRST:
		return renderRST(notes), nil
	case interfaces.FormatMarkdown:
		return renderMarkdown(notes), nil
	default:
		return nil, fmt.Errorf("changelog render: unsupported format %q", format)
	}
}

// Preview renders the Markdown flavour of the notes into HTML.
func (s *Service) Preview(ctx context.Context, notes *interfaces.ReleaseNotes, opts interfaces.ParseOptions) ([]byte, error) {
	markdown, err := s.Render(ctx, notes, interfaces.RenderOptions{Format: interfaces.FormatMarkdown})
	if err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

func (s *Service) entryFor(fragment *interfaces.Fragment) (interfaces.ReleaseEntry, error) {
	entry := interfaces.ReleaseEntry{
		Issue: fragment.Ref.Issue,
		Body:  strings.TrimRight(string(fragment.Body), "\n"),
	}

	if s.links != nil {
		issueURL, err := s.links.IssueURL(fragment.Ref.Issue)
		if err != nil {
			return interfaces.ReleaseEntry{}, err
		}
		entry.IssueURL = issueURL

		for _, pr := range fragment.Meta.PRs {
			prURL, err := s.links.PRURL(pr)
			if err != nil {
				return interfaces.ReleaseEntry{}, err
			}
			if prURL != "" {
				entry.PRURLs = append(entry.PRURLs, prURL)
			}
		}
	}

	return entry, nil
}

func normaliseSlug(version string) string {
	normalised, err := slug.Normalize(version)
	if err != nil || normalised == "" {
		return strings.ToLower(strings.ReplaceAll(version, " ", "-"))
	}
	return normalised
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}
