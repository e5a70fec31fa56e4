package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/repository/mysql/model"
)

type likeRepository struct {
	DB *gorm.DB
}

var _ domain.LikeRepository = (*likeRepository)(nil)

// NewLikeRepository creates the like-row persistence layer. The unique
// (article_id, fingerprint) index is the authoritative one-like-per-client
// guard; everything above it is optimization.
func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{db}
}

func (m *likeRepository) Add(ctx context.Context, like domain.ArticleLike) error {
	likeModel := model.NewArticleLikeFromDomain(like)
	result := m.DB.WithContext(ctx).Create(&likeModel)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return domain.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (m *likeRepository) Remove(ctx context.Context, articleID int64, fingerprint string) error {
	result := m.DB.WithContext(ctx).
		Where("article_id = ? AND fingerprint = ?", articleID, fingerprint).
		Delete(&model.ArticleLike{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *likeRepository) Exists(ctx context.Context, articleID int64, fingerprint string) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.ArticleLike{}).
		Where("article_id = ? AND fingerprint = ?", articleID, fingerprint).
		Count(&count).Error
	return count > 0, err
}

func (m *likeRepository) DeleteByArticle(ctx context.Context, articleID int64) error {
	return m.DB.WithContext(ctx).
		Where("article_id = ?", articleID).
		Delete(&model.ArticleLike{}).Error
}

func (m *likeRepository) DeleteByArticleIDs(ctx context.Context, articleIDs []int64) error {
	if len(articleIDs) == 0 {
		return nil
	}
	return m.DB.WithContext(ctx).
		Where("article_id IN ?", articleIDs).
		Delete(&model.ArticleLike{}).Error
}
