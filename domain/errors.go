package domain

import "errors"

var (
	// ErrInternalServerError is returned when an unexpected failure occurs.
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound is returned when a resource doesn't exist or isn't owned
	// by the acting user.
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict is returned when a duplicate slug or tag loses a race.
	ErrConflict = errors.New("your item already exists")
	// ErrBadParamInput is returned when the given request parameter is not valid.
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrForbidden is returned on a role or ownership mismatch.
	ErrForbidden = errors.New("operation not permitted for this actor")
	// ErrInvalidState is returned when an operation is not legal from the
	// article's current status.
	ErrInvalidState = errors.New("operation not allowed in current status")
	// ErrRestoreRequiresRequest is returned when an author tries to restore
	// admin-deleted content directly; the restore-request handshake applies.
	ErrRestoreRequiresRequest = errors.New("admin deleted this article, submit a restore request instead")
	// ErrMarkdownRequired is returned when publishing an article with an
	// empty body.
	ErrMarkdownRequired = errors.New("cannot publish an article without content")
	// ErrInvalidTitle is returned when a title slugs down to nothing even
	// after transliteration.
	ErrInvalidTitle = errors.New("title produces an empty slug")
	// ErrUnavailable is returned on storage or renderer timeout; retryable.
	ErrUnavailable = errors.New("dependency unavailable, retry later")
	// ErrCacheMiss is returned by caches when the key holds no value.
	ErrCacheMiss = errors.New("cache miss")
)
