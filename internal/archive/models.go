package archive

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Release records one published set of notes. Fragments reference it by
// version string so lookups work without joining on the UUID.
type Release struct {
	bun.BaseModel `bun:"table:releases,alias:r"`

	ID          uuid.UUID `bun:",pk,type:uuid"        json:"id"`
	Version     string    `bun:"version,notnull"      json:"version"`
	Slug        string    `bun:"slug,notnull"         json:"slug"`
	ReleasedAt  time.Time `bun:"released_at,notnull"  json:"released_at"`
	Fragments   int       `bun:"fragment_count,notnull,default:0" json:"fragment_count"`
	PublishedAt time.Time `bun:"published_at,nullzero,default:current_timestamp" json:"published_at"`

	Records []*FragmentRecord `bun:"rel:has-many,join:id=release_id" json:"records,omitempty"`
}

// FragmentRecord is the archived copy of one consumed fragment. Body is the
// verbatim fragment text; Checksum is the sha256 of the source file so a
// recovered body can be verified against the original.
type FragmentRecord struct {
	bun.BaseModel `bun:"table:release_fragments,alias:rf"`

	ID        uuid.UUID `bun:",pk,type:uuid"          json:"id"`
	ReleaseID uuid.UUID `bun:"release_id,notnull,type:uuid" json:"release_id"`
	Version   string    `bun:"version,notnull"        json:"version"`
	Key       string    `bun:"key,notnull"            json:"key"`
	Issue     int64     `bun:"issue,notnull"          json:"issue"`
	Category  string    `bun:"category,notnull"       json:"category"`
	Body      []byte    `bun:"body,notnull"           json:"body"`
	Checksum  []byte    `bun:"checksum"               json:"checksum,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`

	Release *Release `bun:"rel:belongs-to,join:release_id=id" json:"release,omitempty"`
}
