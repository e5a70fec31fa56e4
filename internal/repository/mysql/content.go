package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/repository/mysql/model"
)

type contentRepository struct {
	DB *gorm.DB
}

var _ domain.ArticleContentRepository = (*contentRepository)(nil)

// NewContentRepository creates the article body persistence layer.
func NewContentRepository(db *gorm.DB) *contentRepository {
	return &contentRepository{db}
}

func (m *contentRepository) Store(ctx context.Context, c *domain.ArticleContent) error {
	contentModel := model.NewArticleContentFromDomain(c)
	result := m.DB.WithContext(ctx).Create(contentModel)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return domain.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (m *contentRepository) Get(ctx context.Context, articleID int64) (res domain.ArticleContent, err error) {
	var content model.ArticleContent
	err = m.DB.WithContext(ctx).First(&content, "article_id = ?", articleID).Error
	if err != nil {
		return res, domain.ErrNotFound
	}
	res = content.ToDomain()
	return
}

func (m *contentRepository) UpdateMarkdown(ctx context.Context, articleID int64, markdown string) error {
	// The stored output was rendered from the previous markdown, so the
	// render stamp is cleared; the next publish or detail read re-renders.
	result := m.DB.WithContext(ctx).
		Model(&model.ArticleContent{}).
		Where("article_id = ?", articleID).
		Updates(map[string]any{
			"markdown":         markdown,
			"renderer_version": "",
			"rendered_at":      nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *contentRepository) SetRendered(ctx context.Context, articleID int64, html string, toc []domain.Heading, version string, renderedAt time.Time) error {
	result := m.DB.WithContext(ctx).
		Model(&model.ArticleContent{}).
		Where("article_id = ?", articleID).
		Updates(map[string]any{
			"html":             html,
			"toc":              model.EncodeTOC(toc),
			"renderer_version": version,
			"rendered_at":      renderedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *contentRepository) Delete(ctx context.Context, articleID int64) error {
	return m.DB.WithContext(ctx).
		Where("article_id = ?", articleID).
		Delete(&model.ArticleContent{}).Error
}

func (m *contentRepository) DeleteByArticleIDs(ctx context.Context, articleIDs []int64) error {
	if len(articleIDs) == 0 {
		return nil
	}
	return m.DB.WithContext(ctx).
		Where("article_id IN ?", articleIDs).
		Delete(&model.ArticleContent{}).Error
}
