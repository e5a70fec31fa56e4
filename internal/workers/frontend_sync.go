package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inkwell-cms/inkwell/domain"
)

// frontendSyncWorker mirrors published articles into a static-site source
// tree. Lifecycle transitions enqueue events; this worker drains them in
// batches and writes/removes one markdown file plus one rendered HTML file
// per article under the sync directory.
type frontendSyncWorker struct {
	reader domain.ArticleDetailSource
	dir    string
	ch     chan domain.SyncEvent
}

var _ domain.FrontendSyncWorker = (*frontendSyncWorker)(nil)

func NewFrontendSyncWorker(reader domain.ArticleDetailSource, dir string) *frontendSyncWorker {
	return &frontendSyncWorker{
		reader: reader,
		dir:    dir,
		ch:     make(chan domain.SyncEvent, 1024),
	}
}

// Send enqueues an event; the export is best-effort and never blocks the
// transition that produced it.
func (w *frontendSyncWorker) Send(event domain.SyncEvent) {
	select {
	case w.ch <- event:
	default:
		logrus.Infof("FrontendSyncWorker's channel is full, %s of article %d dropped", event.Action, event.ArticleID)
	}
}

func (w *frontendSyncWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	const batchSize = 100
	batch := make([]domain.SyncEvent, 0, batchSize)
	for {
		select {
		case event := <-w.ch:
			batch = append(batch, event)
			if len(batch) == batchSize {
				w.flush(ctx, batch)
				batch = make([]domain.SyncEvent, 0, batchSize)
			}
		case <-ticker.C:
			w.flush(ctx, batch)
			batch = make([]domain.SyncEvent, 0)
		case <-ctx.Done():
			logrus.Info("shutting down FrontendSyncWorker, flushing remaining events...")
			w.flush(context.WithoutCancel(ctx), batch)
			return
		}
	}
}

// flush applies the last event per article; earlier ones in the batch are
// superseded.
func (w *frontendSyncWorker) flush(ctx context.Context, batch []domain.SyncEvent) {
	if len(batch) == 0 {
		return
	}

	latest := make(map[int64]domain.SyncAction, len(batch))
	for i := range batch {
		latest[batch[i].ArticleID] = batch[i].Action
	}

	batchID := uuid.NewString()
	for articleID, action := range latest {
		var err error
		switch action {
		case domain.SyncUpsert:
			err = w.export(ctx, articleID)
		case domain.SyncRemove:
			err = w.remove(articleID)
		default:
			logrus.Errorf("unsupported sync action: %v", action)
			continue
		}
		if err != nil {
			logrus.Warnf("sync batch %s: %s of article %d failed: %v", batchID, action, articleID, err)
		}
	}
}

// frontMatter is the metadata block written next to each exported body.
type frontMatter struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Tags        []string   `json:"tags,omitempty"`
	CoverURL    string     `json:"cover_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func (w *frontendSyncWorker) export(ctx context.Context, articleID int64) error {
	detail, err := w.reader.Detail(ctx, articleID)
	if err != nil {
		return err
	}
	// The article may have left PUBLISHED between the event and the flush;
	// exporting a non-public state would leak it.
	if detail.Status != domain.StatusPublished {
		return w.remove(articleID)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	meta := frontMatter{
		ID:          detail.ID,
		Slug:        detail.Slug,
		Title:       detail.Title,
		Tags:        detail.Tags,
		CoverURL:    detail.CoverURL,
		PublishedAt: detail.PublishedAt,
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	if err := writeAtomic(w.metaPath(articleID), metaJSON); err != nil {
		return err
	}
	if err := writeAtomic(w.markdownPath(articleID), []byte(detail.Content.Markdown)); err != nil {
		return err
	}
	return writeAtomic(w.htmlPath(articleID), []byte(detail.Content.HTML))
}

func (w *frontendSyncWorker) remove(articleID int64) error {
	for _, p := range []string{w.metaPath(articleID), w.markdownPath(articleID), w.htmlPath(articleID)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (w *frontendSyncWorker) metaPath(articleID int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("%d.json", articleID))
}

func (w *frontendSyncWorker) markdownPath(articleID int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("%d.md", articleID))
}

func (w *frontendSyncWorker) htmlPath(articleID int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("%d.html", articleID))
}

// writeAtomic writes via a temp file and rename so the static-site builder
// never reads a half-written file.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// NoopSync satisfies the worker contract when no sync directory is
// configured.
type NoopSync struct{}

func (NoopSync) Start(context.Context) {}
func (NoopSync) Send(domain.SyncEvent) {}

var _ domain.FrontendSyncWorker = NoopSync{}
