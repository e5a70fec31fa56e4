// Package render converts author-supplied markdown into sanitized HTML and a
// heading outline. Output carries a renderer version stamp; stored content is
// re-rendered only when that stamp no longer matches Version.
package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/slug"
)

// Version identifies the current transformation. Bump it whenever the
// markdown pipeline or the sanitizer policy changes in an output-visible way.
const Version = "goldmark-gfm/2"

// anchorFallback names headings whose text slugs down to nothing.
const anchorFallback = "section"

// Renderer is the markdown rendering pipeline. Safe for concurrent use.
type Renderer struct {
	policy *bluemonday.Policy
	nowFn  func() time.Time
}

var _ domain.ContentRenderer = (*Renderer)(nil)

// New creates a renderer with the production sanitizer policy.
func New() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("class").OnElements("pre", "code")

	return &Renderer{
		policy: policy,
		nowFn:  time.Now,
	}
}

// NewWithClock creates a renderer with an injected clock, for tests.
func NewWithClock(nowFn func() time.Time) *Renderer {
	r := New()
	r.nowFn = nowFn
	return r
}

// Version implements domain.ContentRenderer.
func (r *Renderer) Version() string {
	return Version
}

// Render transforms markdown into sanitized HTML plus the heading outline.
// themeHints only decorate code blocks with a styling class.
func (r *Renderer) Render(ctx context.Context, markdown string, themeHints []string) (domain.RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RenderResult{}, domain.ErrUnavailable
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(newCodeBlockRenderer(themeHints), 100),
			),
		),
	)

	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	toc := stampAnchors(doc, source)

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return domain.RenderResult{}, fmt.Errorf("render markdown: %w", err)
	}

	return domain.RenderResult{
		HTML:       r.policy.Sanitize(buf.String()),
		TOC:        toc,
		Version:    Version,
		RenderedAt: r.nowFn(),
	}, nil
}

// stampAnchors assigns every heading an id attribute derived from its text
// by the slugging algorithm, de-duplicated within the document by appending
// -2, -3, ... on repeat. Returns the ordered outline.
func stampAnchors(doc ast.Node, source []byte) []domain.Heading {
	var toc []domain.Heading
	seen := map[string]int{}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		headingText := textOf(h, source)
		base, err := slug.Make(headingText)
		if err != nil {
			base = anchorFallback
		}

		seen[base]++
		anchor := base
		if seen[base] > 1 {
			anchor = fmt.Sprintf("%s-%d", base, seen[base])
		}

		h.SetAttribute([]byte("id"), []byte(anchor))
		toc = append(toc, domain.Heading{
			Level:    h.Level,
			Text:     headingText,
			AnchorID: anchor,
		})
		return ast.WalkSkipChildren, nil
	})

	return toc
}

// textOf collects the plain text under a node, dropping inline markup.
func textOf(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// codeBlockRenderer replaces the default fenced-code-block output so theme
// hints can decorate the <pre> tag. The structure stays identical to the
// stock goldmark output.
type codeBlockRenderer struct {
	themeClass string
}

func newCodeBlockRenderer(themeHints []string) *codeBlockRenderer {
	var class string
	if len(themeHints) > 0 {
		// Only the first hint decorates output; the rest are advisory.
		if s, err := slug.Make(themeHints[0]); err == nil {
			class = "theme-" + s
		}
	}
	return &codeBlockRenderer{themeClass: class}
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkContinue, nil
	}

	if r.themeClass != "" {
		_, _ = fmt.Fprintf(w, `<pre class="%s">`, r.themeClass)
	} else {
		_, _ = w.WriteString("<pre>")
	}
	_, _ = w.WriteString("<code")
	if lang := n.Language(source); lang != nil {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML(lang))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	return ast.WalkContinue, nil
}
