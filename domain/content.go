package domain

import (
	"context"
	"time"
)

// Heading is one entry of an article's rendered outline.
type Heading struct {
	Level    int    `json:"level"`
	Text     string `json:"text"`
	AnchorID string `json:"anchor_id"`
}

// ArticleContent holds the body of an article: the markdown source plus the
// rendered output and the stamp identifying which renderer produced it.
type ArticleContent struct {
	ArticleID       int64
	Markdown        string
	HTML            string
	TOC             []Heading
	RendererVersion string
	RenderedAt      *time.Time
}

// Stale reports whether the stored output must be re-rendered: either nothing
// was rendered yet or a different renderer version produced it.
func (c *ArticleContent) Stale(currentVersion string) bool {
	return c.RenderedAt == nil || c.RendererVersion != currentVersion
}

// ArticleContentRepository persists article bodies, one row per article.
type ArticleContentRepository interface {
	// Store creates the content row for a new article.
	Store(ctx context.Context, c *ArticleContent) error

	// Get retrieves the content of an article.
	// Returns ErrNotFound if no content row exists.
	Get(ctx context.Context, articleID int64) (ArticleContent, error)

	// UpdateMarkdown replaces the markdown source and clears the render
	// stamp: the stored output no longer matches the source, so Stale must
	// report true until the next render. The old HTML stays as a fallback
	// for reads whose re-render fails.
	UpdateMarkdown(ctx context.Context, articleID int64, markdown string) error

	// SetRendered stores the rendered output and its version stamp.
	SetRendered(ctx context.Context, articleID int64, html string, toc []Heading, version string, renderedAt time.Time) error

	// Delete removes the content row. Used by purge cascades; idempotent.
	Delete(ctx context.Context, articleID int64) error

	// DeleteByArticleIDs removes content rows in bulk. Idempotent.
	DeleteByArticleIDs(ctx context.Context, articleIDs []int64) error
}

// RenderResult is the output of one renderer pass.
type RenderResult struct {
	HTML       string
	TOC        []Heading
	Version    string
	RenderedAt time.Time
}

// ContentRenderer converts markdown into sanitized HTML plus an outline.
type ContentRenderer interface {
	// Render transforms the source. themeHints only annotate code blocks
	// with styling metadata and never change the output structure.
	Render(ctx context.Context, markdown string, themeHints []string) (RenderResult, error)

	// Version identifies the current transformation, compared against the
	// stored stamp to decide re-rendering.
	Version() string
}
