package identity

import (
	"fmt"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ReleaseUUID derives the archive identifier for a released version.
func ReleaseUUID(version string) uuid.UUID {
	return UUID("go-relnotes:release:" + strings.TrimSpace(version))
}

// FragmentUUID derives the archive identifier for an archived fragment.
// Keyed on release + issue + category so re-archiving a version is idempotent.
func FragmentUUID(releaseID uuid.UUID, issue int64, category string) uuid.UUID {
	return UUID(fmt.Sprintf("go-relnotes:fragment:%s:%d:%s", releaseID, issue, strings.ToLower(strings.TrimSpace(category))))
}
