package article

import "github.com/inkwell-cms/inkwell/domain"

// operation names a lifecycle request for the transition table.
type operation string

const (
	opUpdate    operation = "update"
	opPublish   operation = "publish"
	opUnpublish operation = "unpublish"
	opSaveDraft operation = "save_draft"
	opDelete    operation = "delete"
	opRestore   operation = "restore"
	opRequest   operation = "request_restore"
	opPurge     operation = "purge"
)

// allowedFrom is the transition table: which current statuses admit each
// operation. Validation happens here, in one place, instead of ad hoc
// conditionals at every call site.
var allowedFrom = map[operation]map[domain.ArticleStatus]bool{
	opUpdate: {
		domain.StatusDraft:     true,
		domain.StatusEditing:   true,
		domain.StatusPublished: true, // any change drops it back to EDITING
	},
	opPublish: {
		domain.StatusDraft:   true,
		domain.StatusEditing: true,
	},
	opUnpublish: {
		domain.StatusPublished: true,
	},
	opSaveDraft: {
		domain.StatusEditing: true,
	},
	opDelete: {
		domain.StatusDraft:     true,
		domain.StatusEditing:   true,
		domain.StatusPublished: true,
	},
	opRestore: {
		domain.StatusPendingDelete: true,
	},
	opRequest: {
		domain.StatusPendingDelete: true,
	},
	opPurge: {
		domain.StatusPendingDelete: true,
	},
}

// ensureTransition validates an operation against the current status.
func ensureTransition(op operation, from domain.ArticleStatus) error {
	if !allowedFrom[op][from] {
		return domain.ErrInvalidState
	}
	return nil
}
