package archive

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewReleaseRepository(db *bun.DB) repository.Repository[*Release] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Release]{
		NewRecord: func() *Release { return &Release{} },
		GetID: func(r *Release) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Release, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "version"
		},
		GetIdentifierValue: func(r *Release) string {
			return r.Version
		},
	})
}

func NewFragmentRecordRepository(db *bun.DB) repository.Repository[*FragmentRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*FragmentRecord]{
		NewRecord: func() *FragmentRecord { return &FragmentRecord{} },
		GetID: func(fr *FragmentRecord) uuid.UUID {
			return fr.ID
		},
		SetID: func(fr *FragmentRecord, id uuid.UUID) {
			fr.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(fr *FragmentRecord) string {
			if fr == nil {
				return ""
			}
			return fr.Key
		},
	})
}
