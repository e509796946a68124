package archive

import (
	"context"
	"fmt"

	"github.com/goliatone/go-relnotes/internal/identity"
	"github.com/goliatone/go-relnotes/internal/logging"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
	"github.com/uptrace/bun"
)

// Service archives published releases and answers verbatim fragment lookups.
type Service struct {
	releases  *BunReleaseRepository
	fragments *BunFragmentRecordRepository
	logger    interfaces.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds an archive service over the given repositories.
func NewService(releases *BunReleaseRepository, fragments *BunFragmentRecordRepository, opts ...Option) *Service {
	svc := &Service{
		releases:  releases,
		fragments: fragments,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// EnsureSchema creates the archive tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Release)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create releases table: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*FragmentRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create release_fragments table: %w", err)
	}
	return nil
}

// ArchiveRelease persists the release summary plus a verbatim copy of every
// consumed fragment in one transaction; a failed archive leaves no rows
// behind. A version that was already archived is rejected so the archive
// stays append only.
func (s *Service) ArchiveRelease(ctx context.Context, notes *interfaces.ReleaseNotes, fragments []*interfaces.Fragment) (*interfaces.ArchivedRelease, error) {
	if notes == nil {
		return nil, fmt.Errorf("archive release: notes are required")
	}
	if notes.Version == "" {
		return nil, fmt.Errorf("archive release: version is required")
	}

	if existing, err := s.releases.GetByVersion(ctx, notes.Version); err == nil && existing != nil {
		return nil, fmt.Errorf("archive release: version %q already archived", notes.Version)
	}

	release := &Release{
		ID:         identity.ReleaseUUID(notes.Version),
		Version:    notes.Version,
		Slug:       notes.Slug,
		ReleasedAt: notes.Date,
		Fragments:  len(fragments),
	}

	records := make([]*FragmentRecord, 0, len(fragments))
	for _, fragment := range fragments {
		if fragment == nil {
			continue
		}
		records = append(records, &FragmentRecord{
			ID:        identity.FragmentUUID(release.ID, fragment.Ref.Issue, string(fragment.Ref.Category)),
			ReleaseID: release.ID,
			Version:   release.Version,
			Key:       fragment.Ref.Key(),
			Issue:     fragment.Ref.Issue,
			Category:  string(fragment.Ref.Category),
			Body:      fragment.Body,
			Checksum:  fragment.Checksum,
		})
	}

	created, err := s.releases.CreateWithFragments(ctx, release, records)
	if err != nil {
		return nil, fmt.Errorf("archive release: %w", err)
	}

	s.logger.Info("archive.release.stored",
		"version", created.Version,
		"fragments", len(fragments),
	)

	return releaseToArchived(created), nil
}

// LookupFragment recovers the verbatim body of one archived fragment.
func (s *Service) LookupFragment(ctx context.Context, issue int64, category interfaces.Category) (*interfaces.ArchivedFragment, error) {
	record, err := s.fragments.GetByIssueAndCategory(ctx, issue, string(category))
	if err != nil {
		return nil, err
	}
	return recordToArchived(record), nil
}

// LookupByIssue returns every archived fragment filed under the issue, one
// per category the issue shipped notes in.
func (s *Service) LookupByIssue(ctx context.Context, issue int64) ([]*interfaces.ArchivedFragment, error) {
	records, err := s.fragments.ListByIssue(ctx, issue)
	if err != nil {
		return nil, err
	}
	results := make([]*interfaces.ArchivedFragment, 0, len(records))
	for _, record := range records {
		results = append(results, recordToArchived(record))
	}
	return results, nil
}

// ListReleases returns archived releases, newest first.
func (s *Service) ListReleases(ctx context.Context) ([]*interfaces.ArchivedRelease, error) {
	records, err := s.releases.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*interfaces.ArchivedRelease, 0, len(records))
	for _, record := range records {
		results = append(results, releaseToArchived(record))
	}
	return results, nil
}

func releaseToArchived(release *Release) *interfaces.ArchivedRelease {
	return &interfaces.ArchivedRelease{
		ID:          release.ID,
		Version:     release.Version,
		Slug:        release.Slug,
		ReleasedAt:  release.ReleasedAt,
		Fragments:   release.Fragments,
		PublishedAt: release.PublishedAt,
	}
}

func recordToArchived(record *FragmentRecord) *interfaces.ArchivedFragment {
	return &interfaces.ArchivedFragment{
		ID:       record.ID,
		Release:  record.Version,
		Issue:    record.Issue,
		Category: interfaces.Category(record.Category),
		Body:     record.Body,
		Checksum: record.Checksum,
	}
}
