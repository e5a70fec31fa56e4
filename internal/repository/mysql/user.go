package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/repository/mysql/model"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository creates the account persistence layer.
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db}
}

func (m *userRepository) GetByID(ctx context.Context, id int64) (res domain.User, err error) {
	var user model.User
	err = m.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return res, domain.ErrNotFound
	}
	res = user.ToDomain()
	return
}

func (m *userRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []model.User
	err := m.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.User, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (m *userRepository) MarkDeleted(ctx context.Context, id int64, deletedAt, scheduledAt time.Time) error {
	result := m.DB.WithContext(ctx).
		Model(&model.User{}).
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

func (m *userRepository) Restore(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).
		Model(&model.User{}).
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

func (m *userRepository) FetchPurgeable(ctx context.Context, now time.Time, limit int64) ([]domain.User, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []model.User
	err := m.DB.WithContext(ctx).
		Where("deleted_at IS NOT NULL").
		Where("delete_scheduled_at <= ?", now).
		Limit(int(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.User, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (m *userRepository) Delete(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Delete(&model.User{}, id).Error
}
