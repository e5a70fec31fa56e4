package workers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/domain"
)

type stubReader struct {
	details map[int64]domain.ArticleDetail
}

func (r *stubReader) Detail(_ context.Context, id int64) (domain.ArticleDetail, error) {
	d, ok := r.details[id]
	if !ok {
		return domain.ArticleDetail{}, domain.ErrNotFound
	}
	return d, nil
}

func (r *stubReader) DetailBySlug(_ context.Context, _ int64, _ string) (domain.ArticleDetail, error) {
	return domain.ArticleDetail{}, domain.ErrNotFound
}

func (r *stubReader) Invalidate(context.Context, int64) {}

func publishedDetail(id int64, slug, markdown, html string) domain.ArticleDetail {
	now := time.Now()
	return domain.ArticleDetail{
		Article: domain.Article{
			ID:          id,
			Slug:        slug,
			Title:       "Title " + slug,
			Status:      domain.StatusPublished,
			PublishedAt: &now,
		},
		Content: domain.ArticleContent{ArticleID: id, Markdown: markdown, HTML: html},
	}
}

func TestExportWritesAllThreeFiles(t *testing.T) {
	dir := t.TempDir()
	reader := &stubReader{details: map[int64]domain.ArticleDetail{
		7: publishedDetail(7, "hello", "# Hello", "<h1>Hello</h1>"),
	}}
	w := NewFrontendSyncWorker(reader, dir)

	w.flush(context.Background(), []domain.SyncEvent{{Action: domain.SyncUpsert, ArticleID: 7}})

	md, err := os.ReadFile(filepath.Join(dir, "7.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Hello", string(md))

	html, err := os.ReadFile(filepath.Join(dir, "7.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>", string(html))

	raw, err := os.ReadFile(filepath.Join(dir, "7.json"))
	require.NoError(t, err)
	var meta frontMatter
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, int64(7), meta.ID)
	assert.Equal(t, "hello", meta.Slug)
}

func TestRemoveDeletesExportedFiles(t *testing.T) {
	dir := t.TempDir()
	reader := &stubReader{details: map[int64]domain.ArticleDetail{
		7: publishedDetail(7, "hello", "# Hello", "<h1>Hello</h1>"),
	}}
	w := NewFrontendSyncWorker(reader, dir)

	w.flush(context.Background(), []domain.SyncEvent{{Action: domain.SyncUpsert, ArticleID: 7}})
	w.flush(context.Background(), []domain.SyncEvent{{Action: domain.SyncRemove, ArticleID: 7}})

	for _, name := range []string{"7.json", "7.md", "7.html"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err), "expected %s to be gone", name)
	}

	// Removing what was never exported is fine.
	w.flush(context.Background(), []domain.SyncEvent{{Action: domain.SyncRemove, ArticleID: 42}})
}

func TestLastEventPerArticleWins(t *testing.T) {
	dir := t.TempDir()
	reader := &stubReader{details: map[int64]domain.ArticleDetail{
		7: publishedDetail(7, "hello", "# Hello", "<h1>Hello</h1>"),
	}}
	w := NewFrontendSyncWorker(reader, dir)

	w.flush(context.Background(), []domain.SyncEvent{
		{Action: domain.SyncUpsert, ArticleID: 7},
		{Action: domain.SyncRemove, ArticleID: 7},
	})

	_, err := os.Stat(filepath.Join(dir, "7.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpsertOfNonPublishedRemovesInstead(t *testing.T) {
	dir := t.TempDir()
	detail := publishedDetail(7, "hello", "# Hello", "<h1>Hello</h1>")
	reader := &stubReader{details: map[int64]domain.ArticleDetail{7: detail}}
	w := NewFrontendSyncWorker(reader, dir)

	w.flush(context.Background(), []domain.SyncEvent{{Action: domain.SyncUpsert, ArticleID: 7}})

	// The article left PUBLISHED before the event drained.
	detail.Status = domain.StatusEditing
	reader.details[7] = detail
	w.flush(context.Background(), []domain.SyncEvent{{Action: domain.SyncUpsert, ArticleID: 7}})

	_, err := os.Stat(filepath.Join(dir, "7.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestSendDropsWhenQueueFull(t *testing.T) {
	w := NewFrontendSyncWorker(&stubReader{}, t.TempDir())
	for i := 0; i < 2000; i++ {
		w.Send(domain.SyncEvent{Action: domain.SyncUpsert, ArticleID: int64(i)})
	}
	// No goroutine is draining; past capacity Send must not block.
	assert.Len(t, w.ch, 1024)
}
