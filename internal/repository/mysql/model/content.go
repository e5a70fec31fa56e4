package model

import (
	"encoding/json"
	"time"

	"github.com/inkwell-cms/inkwell/domain"
)

type ArticleContent struct {
	ArticleID       int64      `gorm:"column:article_id;primaryKey"`
	Markdown        string     `gorm:"type:longtext"`
	HTML            string     `gorm:"column:html;type:longtext"`
	TOC             string     `gorm:"column:toc;type:text"` // JSON-encoded outline
	RendererVersion string     `gorm:"type:varchar(64)"`
	RenderedAt      *time.Time `gorm:"type:datetime"`
}

func (ArticleContent) TableName() string {
	return "article_content"
}

func (m *ArticleContent) ToDomain() domain.ArticleContent {
	var toc []domain.Heading
	if m.TOC != "" {
		_ = json.Unmarshal([]byte(m.TOC), &toc)
	}
	return domain.ArticleContent{
		ArticleID:       m.ArticleID,
		Markdown:        m.Markdown,
		HTML:            m.HTML,
		TOC:             toc,
		RendererVersion: m.RendererVersion,
		RenderedAt:      m.RenderedAt,
	}
}

func NewArticleContentFromDomain(c *domain.ArticleContent) *ArticleContent {
	return &ArticleContent{
		ArticleID:       c.ArticleID,
		Markdown:        c.Markdown,
		HTML:            c.HTML,
		TOC:             EncodeTOC(c.TOC),
		RendererVersion: c.RendererVersion,
		RenderedAt:      c.RenderedAt,
	}
}

// EncodeTOC serializes the heading outline for the text column.
func EncodeTOC(toc []domain.Heading) string {
	if len(toc) == 0 {
		return ""
	}
	data, _ := json.Marshal(toc)
	return string(data)
}
