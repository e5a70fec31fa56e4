package domain

import (
	"context"
	"time"
)

// ArticleStatus is the closed set of lifecycle states an article can be in.
// Purge removes the record entirely and is therefore not a status.
type ArticleStatus string

const (
	StatusDraft         ArticleStatus = "DRAFT"
	StatusEditing       ArticleStatus = "EDITING"
	StatusPublished     ArticleStatus = "PUBLISHED"
	StatusPendingDelete ArticleStatus = "PENDING_DELETE"
)

// Valid reports whether s is one of the known lifecycle states.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusEditing, StatusPublished, StatusPendingDelete:
		return true
	}
	return false
}

// Article is the root aggregate of the content engine. The body lives in a
// separate ArticleContent record so metadata writes don't rewrite large texts.
type Article struct {
	ID      int64  // Unique identifier
	OwnerID int64  // Owning author
	Slug    string // URL slug, unique per owner, [a-z0-9-]+
	Title   string // Article title

	CoverURL   string        // Opaque cover image URL from the upload service
	Tags       []string      // Tag slugs, order irrelevant
	CategoryID *int64        // Weak reference, nil when uncategorized
	Status     ArticleStatus // Current lifecycle state

	Views      int64 // View counter, mutated only via atomic increments
	LikesCount int64 // Like counter, mutated only via atomic increments

	// PreDeleteStatus caches the status to restore to after a soft delete.
	PreDeleteStatus ArticleStatus

	// FirstPublishedAt is set on the first publish and never cleared; it is
	// the article's stable public identity. PublishedAt moves on every publish.
	FirstPublishedAt *time.Time
	PublishedAt      *time.Time

	// Deletion metadata, present only while Status is PENDING_DELETE.
	DeletedAt         *time.Time
	DeletedBy         int64
	DeletedByRole     Role
	DeleteScheduledAt *time.Time // purge eligibility timestamp
	DeleteReason      string

	// Restore mediation, only meaningful when an admin deleted the article
	// and the owning author has asked for it back.
	RestoreRequestedAt      *time.Time
	RestoreRequestedMessage string

	AdminRemark string // free-text admin annotation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArticleDetail is the read-path projection: metadata plus rendered content.
type ArticleDetail struct {
	Article
	Content ArticleContent
}

// DeletionMeta carries everything a soft delete stamps onto the article.
type DeletionMeta struct {
	PreDeleteStatus   ArticleStatus
	DeletedAt         time.Time
	DeletedBy         int64
	DeletedByRole     Role
	DeleteScheduledAt time.Time
	DeleteReason      string
}

// ArticleRepository defines the contract for article metadata persistence.
// Status-changing methods are conditional single-row updates: when the
// precondition no longer holds zero rows match and ErrNotFound is returned,
// which is how concurrent transitions on the same article are arbitrated.
type ArticleRepository interface {
	// Store creates a new article and backfills ID/CreatedAt/UpdatedAt.
	Store(ctx context.Context, a *Article) error

	// GetByID retrieves a single article by its ID.
	// Returns ErrNotFound if the article doesn't exist.
	GetByID(ctx context.Context, id int64) (Article, error)

	// GetByOwnerSlug retrieves an article by its (owner, slug) pair.
	GetByOwnerSlug(ctx context.Context, ownerID int64, slug string) (Article, error)

	// SlugExists reports whether the owner already uses the given slug.
	SlugExists(ctx context.Context, ownerID int64, slug string) (bool, error)

	// FetchByOwner lists the owner's articles filtered by status set,
	// cursor-paginated by creation time. An empty status set means all.
	FetchByOwner(ctx context.Context, ownerID int64, statuses []ArticleStatus, cursor string, num int64) ([]Article, error)

	// FetchPublished lists PUBLISHED articles across all owners.
	FetchPublished(ctx context.Context, cursor string, num int64) ([]Article, error)

	// FetchPendingDelete lists soft-deleted articles for the recycle bin.
	// ownerID 0 means all owners (admin view).
	FetchPendingDelete(ctx context.Context, ownerID int64, limit int64) ([]Article, error)

	// FetchPurgeable lists PENDING_DELETE articles whose purge schedule has
	// passed the given instant. Consumed by the purge sweep.
	FetchPurgeable(ctx context.Context, now time.Time, limit int64) ([]Article, error)

	// UpdateMeta rewrites the mutable metadata fields (title, slug, cover,
	// tags, category, status) guarded by (id, ownerID, expected status).
	UpdateMeta(ctx context.Context, a *Article, expected ArticleStatus) error

	// SetStatus moves the article between non-delete states, guarded by the
	// expected current status.
	SetStatus(ctx context.Context, id int64, from, to ArticleStatus) error

	// MarkPublished transitions to PUBLISHED, stamping publishedAt and, when
	// firstPublished is non-nil, firstPublishedAt. Clears deletion metadata.
	MarkPublished(ctx context.Context, id int64, from ArticleStatus, publishedAt time.Time, firstPublished *time.Time) error

	// MarkDeleted transitions to PENDING_DELETE stamping the deletion
	// metadata. Fails if the article is already pending delete.
	MarkDeleted(ctx context.Context, id int64, meta DeletionMeta) error

	// Restore transitions from PENDING_DELETE back to the given status and
	// clears deletion and restore-request metadata.
	Restore(ctx context.Context, id int64, to ArticleStatus) error

	// SetRestoreRequested stamps the restore-request fields once; a repeated
	// call matches zero rows and returns ErrNotFound.
	SetRestoreRequested(ctx context.Context, id int64, at time.Time, message string) error

	// SetAdminRemark annotates the article.
	SetAdminRemark(ctx context.Context, id int64, remark string) error

	// AddViews increments the view counter by delta as an atomic update.
	AddViews(ctx context.Context, id int64, delta int64) error

	// AddLikes increments the like counter by one as an atomic update.
	AddLikes(ctx context.Context, id int64) error

	// DecrLikes decrements the like counter by one, clamped at zero.
	DecrLikes(ctx context.Context, id int64) error

	// Delete hard-deletes the metadata row.
	Delete(ctx context.Context, id int64) error

	// DetachCategory clears categoryID on every article referencing it.
	// Idempotent; safe to re-run after interruption.
	DetachCategory(ctx context.Context, categoryID int64) error

	// FetchIDsByOwner returns all article IDs belonging to the owner,
	// used by the owner cascade purge.
	FetchIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)

	// DeleteByOwner hard-deletes every article of the owner. Idempotent.
	DeleteByOwner(ctx context.Context, ownerID int64) error
}

// ArticleCache caches article detail projections for the read path.
type ArticleCache interface {
	GetDetail(ctx context.Context, id int64) (ArticleDetail, error)
	SetDetail(ctx context.Context, d *ArticleDetail) error

	// DeleteDetail drops the cached projection after any mutation.
	DeleteDetail(ctx context.Context, id int64) error
}

// ArticleDetailSource serves read-path projections, caching and coalescing
// concurrent loads of the same article.
type ArticleDetailSource interface {
	Detail(ctx context.Context, id int64) (ArticleDetail, error)
	DetailBySlug(ctx context.Context, ownerID int64, slug string) (ArticleDetail, error)

	// Invalidate drops the cached projection. Called after every mutation.
	Invalidate(ctx context.Context, id int64)
}

// CreateArticleInput is the payload for ArticleUsecase.Create.
type CreateArticleInput struct {
	Title      string
	Markdown   string
	Tags       []TagInput
	CategoryID *int64
	CoverURL   string
}

// UpdateArticleInput carries the mutable fields of an article edit. Nil
// pointers mean "leave unchanged".
type UpdateArticleInput struct {
	Title         *string
	Markdown      *string
	Tags          []TagInput // nil means unchanged
	CategoryID    *int64
	ClearCategory bool
	CoverURL      *string
}

// DeleteArticleInput tunes the author soft-delete path. GraceDays is
// caller-bounded 1..30 and ignored on the admin path, where the retention
// policy decides.
type DeleteArticleInput struct {
	GraceDays int
	Reason    string
}

// ArticleUsecase is the lifecycle state machine exposed to the API layer.
// Every call receives the resolved actor and trusts it.
type ArticleUsecase interface {
	Create(ctx context.Context, actor Actor, in CreateArticleInput) (Article, error)
	Update(ctx context.Context, actor Actor, id int64, in UpdateArticleInput) (Article, error)
	Publish(ctx context.Context, actor Actor, id int64) (Article, error)
	Unpublish(ctx context.Context, actor Actor, id int64) (Article, error)
	SaveDraft(ctx context.Context, actor Actor, id int64) (Article, error)

	// Delete soft-deletes published content and hard-deletes never-published
	// content, per the actor's role.
	Delete(ctx context.Context, actor Actor, id int64, in DeleteArticleInput) error

	// Restore returns a PENDING_DELETE article to its cached prior status.
	// Fails with ErrRestoreRequiresRequest when an admin deleted it and the
	// caller is the author.
	Restore(ctx context.Context, actor Actor, id int64) (Article, error)

	// RequestRestore lets the author contest an admin delete. Idempotent.
	RequestRestore(ctx context.Context, actor Actor, id int64, message string) error

	Purge(ctx context.Context, actor Actor, id int64) error
	SetAdminRemark(ctx context.Context, actor Actor, id int64, remark string) error

	// DetailByID serves the read path: lazy re-render when the stored
	// renderer version is stale, then a deduplicated view increment.
	// Non-PUBLISHED articles are visible only to their owner or an admin;
	// everyone else gets ErrNotFound. The viewer is the zero Actor for
	// anonymous reads.
	DetailByID(ctx context.Context, viewer Actor, id int64, viewerIP string) (ArticleDetail, error)
	DetailBySlug(ctx context.Context, viewer Actor, ownerID int64, slug string, viewerIP string) (ArticleDetail, error)

	FetchOwn(ctx context.Context, actor Actor, statuses []ArticleStatus, cursor string, num int64) ([]Article, string, error)
	FetchPublished(ctx context.Context, cursor string, num int64) ([]Article, string, error)
	FetchRecycleBin(ctx context.Context, actor Actor, limit int64) ([]Article, error)
}
