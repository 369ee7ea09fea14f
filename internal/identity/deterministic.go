package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const projectNamespace = "go-portfolio:project:"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
// Keys are case-sensitive.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(false))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ProjectUUID returns the stable identifier for the project stored under slug.
func ProjectUUID(slug string) uuid.UUID {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return uuid.Nil
	}
	return UUID(projectNamespace + slug)
}
