package response

import (
	"time"

	"github.com/inkwell-cms/inkwell/domain"
)

const timeFormat = "2006-01-02 15:04:05"

type Article struct {
	ID         int64    `json:"id"`
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	CoverURL   string   `json:"cover_url,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	CategoryID *int64   `json:"category_id,omitempty"`

	Views      int64 `json:"views"`
	LikesCount int64 `json:"likes_count"`

	FirstPublishedAt string `json:"first_published_at,omitempty"`
	PublishedAt      string `json:"published_at,omitempty"`

	DeletedAt         string `json:"deleted_at,omitempty"`
	DeletedByRole     string `json:"deleted_by_role,omitempty"`
	DeleteScheduledAt string `json:"delete_scheduled_at,omitempty"`
	DeleteReason      string `json:"delete_reason,omitempty"`

	RestoreRequestedAt      string `json:"restore_requested_at,omitempty"`
	RestoreRequestedMessage string `json:"restore_requested_message,omitempty"`

	AdminRemark string `json:"admin_remark,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FromDomain: Domain -> Response
func NewArticleFromDomain(a *domain.Article) Article {
	return Article{
		ID:         a.ID,
		Slug:       a.Slug,
		Title:      a.Title,
		Status:     string(a.Status),
		CoverURL:   a.CoverURL,
		Tags:       a.Tags,
		CategoryID: a.CategoryID,
		Views:      a.Views,
		LikesCount: a.LikesCount,

		FirstPublishedAt: formatTime(a.FirstPublishedAt),
		PublishedAt:      formatTime(a.PublishedAt),

		DeletedAt:         formatTime(a.DeletedAt),
		DeletedByRole:     string(a.DeletedByRole),
		DeleteScheduledAt: formatTime(a.DeleteScheduledAt),
		DeleteReason:      a.DeleteReason,

		RestoreRequestedAt:      formatTime(a.RestoreRequestedAt),
		RestoreRequestedMessage: a.RestoreRequestedMessage,

		AdminRemark: a.AdminRemark,

		CreatedAt: a.CreatedAt.Format(timeFormat),
		UpdatedAt: a.UpdatedAt.Format(timeFormat),
	}
}

type ArticleDetail struct {
	Article
	Markdown string           `json:"markdown"`
	HTML     string           `json:"html"`
	TOC      []domain.Heading `json:"toc"`
}

func NewArticleDetailFromDomain(d *domain.ArticleDetail) ArticleDetail {
	return ArticleDetail{
		Article:  NewArticleFromDomain(&d.Article),
		Markdown: d.Content.Markdown,
		HTML:     d.Content.HTML,
		TOC:      d.Content.TOC,
	}
}

type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	DeletedAt string `json:"deleted_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

func NewCategoryFromDomain(c *domain.Category) Category {
	return Category{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		DeletedAt: formatTime(c.DeletedAt),
		CreatedAt: c.CreatedAt.Format(timeFormat),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeFormat)
}
