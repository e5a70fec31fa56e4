package render

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/domain"
)

func TestRenderBasicMarkdown(t *testing.T) {
	r := New()

	res, err := r.Render(context.Background(), "# Title\n\nSome *emphasis* here.", nil)
	require.NoError(t, err)

	assert.Contains(t, res.HTML, `<h1 id="title">Title</h1>`)
	assert.Contains(t, res.HTML, "<em>emphasis</em>")
	assert.Equal(t, Version, res.Version)
	assert.False(t, res.RenderedAt.IsZero())
}

func TestRenderStripsScripts(t *testing.T) {
	r := New()

	src := "hello\n\n<script>alert(1)</script>\n\n<p onclick=\"evil()\">click</p>"
	res, err := r.Render(context.Background(), src, nil)
	require.NoError(t, err)

	assert.NotContains(t, res.HTML, "<script")
	assert.NotContains(t, res.HTML, "onclick")
	assert.Contains(t, res.HTML, "hello")
}

func TestRenderOutline(t *testing.T) {
	r := New()

	src := "# Intro\n\n## Setup\n\ntext\n\n## Setup\n\n### Deep Dive\n"
	res, err := r.Render(context.Background(), src, nil)
	require.NoError(t, err)

	require.Len(t, res.TOC, 4)
	assert.Equal(t, domain.Heading{Level: 1, Text: "Intro", AnchorID: "intro"}, res.TOC[0])
	assert.Equal(t, domain.Heading{Level: 2, Text: "Setup", AnchorID: "setup"}, res.TOC[1])
	// Repeated heading text gets -2, -3, ... within the document.
	assert.Equal(t, domain.Heading{Level: 2, Text: "Setup", AnchorID: "setup-2"}, res.TOC[2])
	assert.Equal(t, domain.Heading{Level: 3, Text: "Deep Dive", AnchorID: "deep-dive"}, res.TOC[3])

	assert.Contains(t, res.HTML, `id="setup-2"`)
}

func TestRenderAnchorsMatchSlugAlgorithm(t *testing.T) {
	r := New()

	res, err := r.Render(context.Background(), "## 你好世界\n", nil)
	require.NoError(t, err)

	require.Len(t, res.TOC, 1)
	assert.Equal(t, "ni-hao-shi-jie", res.TOC[0].AnchorID)
}

func TestRenderThemeHintDecoratesCodeBlocks(t *testing.T) {
	r := New()

	src := "```go\nfmt.Println(\"hi\")\n```\n"
	res, err := r.Render(context.Background(), src, []string{"GitHub Dark"})
	require.NoError(t, err)

	assert.Contains(t, res.HTML, `<pre class="theme-github-dark">`)
	assert.Contains(t, res.HTML, `class="language-go"`)

	// Hints never change the structure, only the class.
	bare, err := r.Render(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Contains(t, bare.HTML, "<pre><code")
}

func TestRenderCancelledContext(t *testing.T) {
	r := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, "# x", nil)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestRenderStampsInjectedClock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewWithClock(func() time.Time { return now })

	res, err := r.Render(context.Background(), "plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, now, res.RenderedAt)
}

func TestStale(t *testing.T) {
	now := time.Now()
	fresh := domain.ArticleContent{RendererVersion: Version, RenderedAt: &now}
	assert.False(t, fresh.Stale(Version))

	old := domain.ArticleContent{RendererVersion: "goldmark-gfm/1", RenderedAt: &now}
	assert.True(t, old.Stale(Version))

	never := domain.ArticleContent{}
	assert.True(t, never.Stale(Version))
}
