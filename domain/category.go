package domain

import (
	"context"
	"time"
)

// Category groups articles per owner. It follows the simpler soft-delete
// variant: no EDITING state, just live or pending delete.
type Category struct {
	ID      int64
	OwnerID int64
	Name    string
	Slug    string

	DeletedAt         *time.Time
	DeleteScheduledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deleted reports whether the category sits in the recycle bin.
func (c *Category) Deleted() bool {
	return c.DeletedAt != nil
}

// CategoryRepository defines the contract for category persistence.
type CategoryRepository interface {
	// Store creates a new category and backfills its ID.
	Store(ctx context.Context, c *Category) error

	// GetByID retrieves a category.
	// Returns ErrNotFound if the category doesn't exist.
	GetByID(ctx context.Context, id int64) (Category, error)

	// FetchByOwner lists the owner's live categories.
	FetchByOwner(ctx context.Context, ownerID int64) ([]Category, error)

	// Update renames the category, guarded by (id, ownerID).
	Update(ctx context.Context, c *Category) error

	// MarkDeleted soft-deletes the category and schedules its purge.
	// Guarded against double deletion; returns ErrNotFound when already gone.
	MarkDeleted(ctx context.Context, id int64, deletedAt, scheduledAt time.Time) error

	// Restore clears the deletion marks on a pending-delete category.
	Restore(ctx context.Context, id int64) error

	// FetchPurgeable lists categories whose purge schedule has passed.
	FetchPurgeable(ctx context.Context, now time.Time, limit int64) ([]Category, error)

	// Delete hard-deletes the category row.
	Delete(ctx context.Context, id int64) error
}

// CategoryUsecase is the category side of the lifecycle engine.
type CategoryUsecase interface {
	Create(ctx context.Context, actor Actor, name string) (Category, error)
	Update(ctx context.Context, actor Actor, id int64, name string) (Category, error)

	// Delete soft-deletes the category. Articles keep their reference until
	// purge, when they are detached.
	Delete(ctx context.Context, actor Actor, id int64) error

	Restore(ctx context.Context, actor Actor, id int64) (Category, error)

	// Purge hard-deletes the category after detaching it from every article.
	Purge(ctx context.Context, actor Actor, id int64) error

	FetchOwn(ctx context.Context, actor Actor) ([]Category, error)
}
