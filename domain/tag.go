package domain

import (
	"context"
	"time"
)

const (
	// EnsureTagsLimit caps the number of distinct tags one article write may
	// register in a single call.
	EnsureTagsLimit = 30
)

// Tag is a global label shared across owners, addressed by slug.
type Tag struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

// TagInput is one tag candidate supplied by an article write.
type TagInput struct {
	Name string
	Slug string
}

// TagRepository persists the global tag table.
type TagRepository interface {
	// InsertIgnoreExisting inserts the given tags, skipping slugs that
	// already exist. A duplicate-insert race is success: another caller won.
	InsertIgnoreExisting(ctx context.Context, tags []Tag) error

	// GetBySlugs retrieves tags by their slugs; missing slugs are omitted.
	GetBySlugs(ctx context.Context, slugs []string) ([]Tag, error)
}

// TagUsecase is the registrar used by article writes: an idempotent
// "ensure these tags exist" decoupled from the article transaction.
type TagUsecase interface {
	// EnsureExist registers any unknown tags. Blank names or slugs are
	// silently dropped; at most EnsureTagsLimit distinct tags are accepted.
	// Never mutates existing tags.
	EnsureExist(ctx context.Context, actorID int64, tags []TagInput) error
}
