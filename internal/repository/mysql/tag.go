package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/repository/mysql/model"
)

type tagRepository struct {
	DB *gorm.DB
}

var _ domain.TagRepository = (*tagRepository)(nil)

// NewTagRepository creates the global tag table persistence layer.
func NewTagRepository(db *gorm.DB) *tagRepository {
	return &tagRepository{db}
}

func (m *tagRepository) InsertIgnoreExisting(ctx context.Context, tags []domain.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	rows := make([]model.Tag, len(tags))
	for i, t := range tags {
		rows[i] = model.NewTagFromDomain(t)
	}

	// DoNothing resolves duplicate-insert races: a unique-constraint hit
	// means another caller registered the slug first, which is success.
	return m.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func (m *tagRepository) GetBySlugs(ctx context.Context, slugs []string) ([]domain.Tag, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	var rows []model.Tag
	err := m.DB.WithContext(ctx).
		Where("slug IN ?", slugs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Tag, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}
