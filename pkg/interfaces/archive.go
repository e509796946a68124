package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ArchivedRelease summarises one published release held in the archive.
type ArchivedRelease struct {
	ID          uuid.UUID
	Version     string
	Slug        string
	ReleasedAt  time.Time
	Fragments   int
	PublishedAt time.Time
}

// ArchivedFragment is the persisted copy of a consumed fragment. Body is
// stored byte-for-byte so the original fragment text can be recovered
// verbatim after the source file has been pruned.
type ArchivedFragment struct {
	ID       uuid.UUID
	Release  string
	Issue    int64
	Category Category
	Body     []byte
	Checksum []byte
}

// ArchiveService persists published releases and answers fragment lookups.
type ArchiveService interface {
	ArchiveRelease(ctx context.Context, notes *ReleaseNotes, fragments []*Fragment) (*ArchivedRelease, error)
	LookupFragment(ctx context.Context, issue int64, category Category) (*ArchivedFragment, error)
	LookupByIssue(ctx context.Context, issue int64) ([]*ArchivedFragment, error)
	ListReleases(ctx context.Context) ([]*ArchivedRelease, error)
}
