package domain

import "context"

// SyncAction says what happened to an article, from the frontend's point of
// view: its public copy must be written or removed.
type SyncAction int8

const (
	SyncUpsert SyncAction = 1
	SyncRemove SyncAction = -1
)

func (a SyncAction) String() string {
	switch a {
	case SyncUpsert:
		return "UPSERT"
	case SyncRemove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// SyncEvent is emitted after a successful status transition. Consumption is
// fire-and-forget: a failed export never fails the transition that caused it.
type SyncEvent struct {
	Action    SyncAction
	ArticleID int64
}

// FrontendSyncWorker exports published content to the static-site source
// tree in the background.
type FrontendSyncWorker interface {
	Start(ctx context.Context)

	// Send enqueues an event; drops it when the queue is full.
	Send(event SyncEvent)
}
