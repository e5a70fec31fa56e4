package model

import (
	"time"

	"github.com/inkwell-cms/inkwell/domain"
)

type Tag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(64);not null"`
	Slug      string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Tag) TableName() string {
	return "tag"
}

func (m *Tag) ToDomain() domain.Tag {
	return domain.Tag{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
	}
}

func NewTagFromDomain(t domain.Tag) Tag {
	return Tag{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
	}
}
