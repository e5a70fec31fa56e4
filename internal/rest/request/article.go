package request

import "github.com/inkwell-cms/inkwell/domain"

type Tag struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"omitempty,slug"`
}

type CreateArticle struct {
	Title      string `json:"title" binding:"required,max=200"`
	Markdown   string `json:"markdown"`
	Tags       []Tag  `json:"tags" binding:"max=30"`
	CategoryID *int64 `json:"category_id"`
	CoverURL   string `json:"cover_url" binding:"omitempty,url"`
}

// ToDomain: Request -> Domain
func (r *CreateArticle) ToDomain() domain.CreateArticleInput {
	return domain.CreateArticleInput{
		Title:      r.Title,
		Markdown:   r.Markdown,
		Tags:       tagsToDomain(r.Tags),
		CategoryID: r.CategoryID,
		CoverURL:   r.CoverURL,
	}
}

// UpdateArticle is a partial update; absent fields stay untouched.
type UpdateArticle struct {
	Title         *string `json:"title" binding:"omitempty,max=200"`
	Markdown      *string `json:"markdown"`
	Tags          []Tag   `json:"tags" binding:"max=30"`
	CategoryID    *int64  `json:"category_id"`
	ClearCategory bool    `json:"clear_category"`
	CoverURL      *string `json:"cover_url" binding:"omitempty,url"`
}

func (r *UpdateArticle) ToDomain() domain.UpdateArticleInput {
	return domain.UpdateArticleInput{
		Title:         r.Title,
		Markdown:      r.Markdown,
		Tags:          tagsToDomain(r.Tags),
		CategoryID:    r.CategoryID,
		ClearCategory: r.ClearCategory,
		CoverURL:      r.CoverURL,
	}
}

type DeleteArticle struct {
	GraceDays int    `json:"grace_days" binding:"omitempty,gte=1,lte=30"`
	Reason    string `json:"reason" binding:"max=500"`
}

func (r *DeleteArticle) ToDomain() domain.DeleteArticleInput {
	return domain.DeleteArticleInput{GraceDays: r.GraceDays, Reason: r.Reason}
}

type RestoreRequest struct {
	Message string `json:"message" binding:"max=500"`
}

type AdminRemark struct {
	Remark string `json:"remark" binding:"max=500"`
}

type Category struct {
	Name string `json:"name" binding:"required,max=100"`
}

func tagsToDomain(tags []Tag) []domain.TagInput {
	if tags == nil {
		return nil
	}
	out := make([]domain.TagInput, len(tags))
	for i, t := range tags {
		out[i] = domain.TagInput{Name: t.Name, Slug: t.Slug}
	}
	return out
}
