package archive

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NotFoundError reports a missing release or fragment record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// BunReleaseRepository persists releases with optional read caching.
type BunReleaseRepository struct {
	db   *bun.DB
	repo repository.Repository[*Release]
}

func NewBunReleaseRepository(db *bun.DB) *BunReleaseRepository {
	return NewBunReleaseRepositoryWithCache(db, nil, nil)
}

func NewBunReleaseRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunReleaseRepository {
	base := NewReleaseRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunReleaseRepository{db: db, repo: wrapped}
}

// CreateWithFragments persists the release row and every fragment record in a
// single transaction. A mid-batch failure rolls the whole archive back, so a
// corrected retry starts from a clean slate.
func (r *BunReleaseRepository) CreateWithFragments(ctx context.Context, release *Release, records []*FragmentRecord) (*Release, error) {
	if r.db == nil {
		return nil, fmt.Errorf("release repository: database not configured")
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(release).Exec(ctx); err != nil {
			return fmt.Errorf("insert release %s: %w", release.Version, err)
		}
		for _, record := range records {
			if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
				return fmt.Errorf("insert fragment %s: %w", record.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return release, nil
}

func (r *BunReleaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*Release, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "release", id.String())
	}
	return result, nil
}

func (r *BunReleaseRepository) GetByVersion(ctx context.Context, version string) (*Release, error) {
	result, err := r.repo.GetByIdentifier(ctx, version)
	if err != nil {
		return nil, mapRepositoryError(err, "release", version)
	}
	return result, nil
}

func (r *BunReleaseRepository) List(ctx context.Context) ([]*Release, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.released_at DESC")
		}),
	)
	return records, err
}

// BunFragmentRecordRepository persists archived fragments with optional read caching.
type BunFragmentRecordRepository struct {
	repo repository.Repository[*FragmentRecord]
}

func NewBunFragmentRecordRepository(db *bun.DB) *BunFragmentRecordRepository {
	return NewBunFragmentRecordRepositoryWithCache(db, nil, nil)
}

func NewBunFragmentRecordRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunFragmentRecordRepository {
	base := NewFragmentRecordRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunFragmentRecordRepository{repo: wrapped}
}

// GetByIssueAndCategory resolves the archived copy of one fragment. When the
// same key was shipped in two releases the copy from the latest release wins:
// newest insert first, then the owning release's released_at, then version.
func (r *BunFragmentRecordRepository) GetByIssueAndCategory(ctx context.Context, issue int64, category string) (*FragmentRecord, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.issue = ?", issue).
				Where("?TableAlias.category = ?", category).
				Join("JOIN releases AS r ON r.id = ?TableAlias.release_id").
				OrderExpr("?TableAlias.created_at DESC").
				OrderExpr("r.released_at DESC").
				OrderExpr("?TableAlias.version DESC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "fragment", Key: fmt.Sprintf("%d.%s", issue, category)}
	}
	return records[0], nil
}

func (r *BunFragmentRecordRepository) ListByIssue(ctx context.Context, issue int64) ([]*FragmentRecord, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.issue = ?", issue).
				OrderExpr("?TableAlias.category ASC")
		}),
	)
	return records, err
}

func (r *BunFragmentRecordRepository) ListByRelease(ctx context.Context, releaseID uuid.UUID) ([]*FragmentRecord, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.release_id = ?", releaseID).
				OrderExpr("?TableAlias.issue ASC")
		}),
	)
	return records, err
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
