package model

import (
	"time"

	"github.com/inkwell-cms/inkwell/domain"
)

type Category struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	OwnerID int64  `gorm:"column:owner_id;not null;index"`
	Name    string `gorm:"type:varchar(64);not null"`
	Slug    string `gorm:"type:varchar(64);not null"`

	DeletedAt         *time.Time `gorm:"type:datetime"`
	DeleteScheduledAt *time.Time `gorm:"type:datetime;index"`

	CreatedAt time.Time `gorm:"type:datetime"`
	UpdatedAt time.Time `gorm:"type:datetime"`
}

func (Category) TableName() string {
	return "category"
}

func (m *Category) ToDomain() domain.Category {
	return domain.Category{
		ID:                m.ID,
		OwnerID:           m.OwnerID,
		Name:              m.Name,
		Slug:              m.Slug,
		DeletedAt:         m.DeletedAt,
		DeleteScheduledAt: m.DeleteScheduledAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func NewCategoryFromDomain(c *domain.Category) *Category {
	return &Category{
		ID:                c.ID,
		OwnerID:           c.OwnerID,
		Name:              c.Name,
		Slug:              c.Slug,
		DeletedAt:         c.DeletedAt,
		DeleteScheduledAt: c.DeleteScheduledAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
