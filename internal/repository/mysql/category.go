package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/repository/mysql/model"
)

type categoryRepository struct {
	DB *gorm.DB
}

var _ domain.CategoryRepository = (*categoryRepository)(nil)

// NewCategoryRepository creates the category persistence layer.
func NewCategoryRepository(db *gorm.DB) *categoryRepository {
	return &categoryRepository{db}
}

func (m *categoryRepository) Store(ctx context.Context, c *domain.Category) error {
	categoryModel := model.NewCategoryFromDomain(c)
	result := m.DB.WithContext(ctx).Create(categoryModel)
	if result.Error != nil {
		return result.Error
	}
	c.ID = categoryModel.ID
	c.CreatedAt = categoryModel.CreatedAt
	c.UpdatedAt = categoryModel.UpdatedAt
	return nil
}

func (m *categoryRepository) GetByID(ctx context.Context, id int64) (res domain.Category, err error) {
	var category model.Category
	err = m.DB.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		return res, domain.ErrNotFound
	}
	res = category.ToDomain()
	return
}

func (m *categoryRepository) FetchByOwner(ctx context.Context, ownerID int64) ([]domain.Category, error) {
	var rows []model.Category
	err := m.DB.WithContext(ctx).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Category, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (m *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL", c.ID, c.OwnerID).
		Updates(map[string]any{
			"name": c.Name,
			"slug": c.Slug,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *categoryRepository) MarkDeleted(ctx context.Context, id int64, deletedAt, scheduledAt time.Time) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{
			"deleted_at":          deletedAt,
			"delete_scheduled_at": scheduledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *categoryRepository) Restore(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{
			"deleted_at":          nil,
			"delete_scheduled_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *categoryRepository) FetchPurgeable(ctx context.Context, now time.Time, limit int64) ([]domain.Category, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []model.Category
	err := m.DB.WithContext(ctx).
		Where("deleted_at IS NOT NULL").
		Where("delete_scheduled_at <= ?", now).
		Limit(int(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Category, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (m *categoryRepository) Delete(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Delete(&model.Category{}, id).Error
}
