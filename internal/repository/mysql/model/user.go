package model

import (
	"time"

	"github.com/inkwell-cms/inkwell/domain"
)

type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"type:varchar(64);not null"`
	Username string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Role     string `gorm:"type:varchar(10);not null"`

	DeletedAt         *time.Time `gorm:"type:datetime"`
	DeleteScheduledAt *time.Time `gorm:"type:datetime;index"`

	CreatedAt time.Time `gorm:"type:datetime"`
	UpdatedAt time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "user"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:                m.ID,
		Name:              m.Name,
		Username:          m.Username,
		Role:              domain.Role(m.Role),
		DeletedAt:         m.DeletedAt,
		DeleteScheduledAt: m.DeleteScheduledAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func NewUserFromDomain(u *domain.User) *User {
	return &User{
		ID:                u.ID,
		Name:              u.Name,
		Username:          u.Username,
		Role:              string(u.Role),
		DeletedAt:         u.DeletedAt,
		DeleteScheduledAt: u.DeleteScheduledAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}
