package domain

import (
	"context"
	"time"
)

// ArticleLike is one anonymous vote. The row's existence is the vote; there
// is at most one per (articleID, fingerprint).
type ArticleLike struct {
	ArticleID   int64
	Fingerprint string
	CreatedAt   time.Time
}

// LikeState is what both like and unlike return: the resulting count and
// whether the caller's fingerprint currently holds a like.
type LikeState struct {
	LikesCount int64 `json:"likes_count"`
	Liked      bool  `json:"liked"`
}

// ClientIdentity carries the anonymous transport-layer signals a fingerprint
// is derived from.
type ClientIdentity struct {
	IP        string
	UserAgent string
}

// LikeRepository persists like rows. The unique (articleID, fingerprint)
// constraint is the authoritative at-most-one-like guard.
type LikeRepository interface {
	// Add inserts a like row.
	// Returns ErrConflict when the pair already exists (another caller won).
	Add(ctx context.Context, like ArticleLike) error

	// Remove deletes the like row.
	// Returns ErrNotFound when no row existed.
	Remove(ctx context.Context, articleID int64, fingerprint string) error

	// Exists reports whether the fingerprint holds a like on the article.
	Exists(ctx context.Context, articleID int64, fingerprint string) (bool, error)

	// DeleteByArticle removes all like rows of one article. Idempotent.
	DeleteByArticle(ctx context.Context, articleID int64) error

	// DeleteByArticleIDs removes like rows in bulk for cascade purges.
	DeleteByArticleIDs(ctx context.Context, articleIDs []int64) error
}

// EngagementUsecase counts views and likes. View counting deduplicates by
// (IP, article) within a short window; like operations are idempotent per
// fingerprint and coalesced under concurrent duplicates.
type EngagementUsecase interface {
	// RecordView increments the article's view counter unless the same
	// (ip, article) pair was already counted within the dedup window.
	RecordView(ctx context.Context, articleID int64, ip string)

	// Like registers a vote for the client's fingerprint. Repeat calls are
	// no-ops reporting the current state.
	Like(ctx context.Context, articleID int64, ident ClientIdentity) (LikeState, error)

	// Unlike withdraws the vote; a no-op when none exists.
	Unlike(ctx context.Context, articleID int64, ident ClientIdentity) (LikeState, error)

	// GetLikeState reports the count and whether the client has liked.
	GetLikeState(ctx context.Context, articleID int64, ident ClientIdentity) (LikeState, error)
}
