package domain

import (
	"context"
	"time"
)

// Role distinguishes the two actor classes of the platform.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
)

// Actor is the resolved identity attached to every lifecycle call. The
// engine trusts it; authentication happens upstream.
type Actor struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the actor holds admin authority.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// User represents an author or admin account. Accounts follow a simpler
// soft-delete variant of the article lifecycle: active or pending delete.
type User struct {
	ID       int64
	Name     string
	Username string
	Role     Role

	DeletedAt         *time.Time
	DeleteScheduledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRepository defines the contract for account persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByIDs retrieves users in bulk for list-detail fill.
	GetByIDs(ctx context.Context, ids []int64) ([]User, error)

	// MarkDeleted soft-deletes the account and schedules its purge.
	MarkDeleted(ctx context.Context, id int64, deletedAt, scheduledAt time.Time) error

	// Restore clears the deletion marks on a pending-delete account.
	Restore(ctx context.Context, id int64) error

	// FetchPurgeable lists accounts whose purge schedule has passed.
	FetchPurgeable(ctx context.Context, now time.Time, limit int64) ([]User, error)

	// Delete hard-deletes the account row.
	Delete(ctx context.Context, id int64) error
}

// UserUsecase is the account side of the lifecycle engine: the soft-delete
// variant plus the cascade purge of an author's content.
type UserUsecase interface {
	// Delete soft-deletes the account. Admin only.
	Delete(ctx context.Context, actor Actor, id int64) error

	// Restore undoes a pending account deletion. Admin only.
	Restore(ctx context.Context, actor Actor, id int64) error

	// Purge hard-deletes the account and cascades to all of the author's
	// articles, contents and like rows. Idempotent and re-runnable.
	Purge(ctx context.Context, actor Actor, id int64) error
}
