package model

import (
	"encoding/json"
	"time"

	"github.com/inkwell-cms/inkwell/domain"
)

type Article struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	OwnerID int64  `gorm:"column:owner_id;not null;uniqueIndex:idx_owner_slug,priority:1;index:idx_owner_status"`
	Slug    string `gorm:"type:varchar(255);not null;uniqueIndex:idx_owner_slug,priority:2"`
	Title   string `gorm:"type:varchar(255);not null"`

	CoverURL   string `gorm:"type:varchar(512)"`
	Tags       string `gorm:"type:text"` // JSON-encoded slug list
	CategoryID *int64 `gorm:"column:category_id;index"`

	Status          string `gorm:"type:varchar(20);not null;index:idx_owner_status"`
	PreDeleteStatus string `gorm:"type:varchar(20)"`

	Views      int64 `gorm:"default:0"`
	LikesCount int64 `gorm:"column:likes_count;default:0"`

	FirstPublishedAt *time.Time `gorm:"type:datetime"`
	PublishedAt      *time.Time `gorm:"type:datetime"`

	DeletedAt         *time.Time `gorm:"type:datetime"`
	DeletedBy         int64
	DeletedByRole     string     `gorm:"type:varchar(10)"`
	DeleteScheduledAt *time.Time `gorm:"type:datetime;index"`
	DeleteReason      string     `gorm:"type:varchar(512)"`

	RestoreRequestedAt      *time.Time `gorm:"type:datetime"`
	RestoreRequestedMessage string     `gorm:"type:varchar(512)"`

	AdminRemark string `gorm:"type:varchar(512)"`

	CreatedAt time.Time `gorm:"type:datetime"`
	UpdatedAt time.Time `gorm:"type:datetime"`
}

func (Article) TableName() string {
	return "article"
}

func (m *Article) ToDomain() domain.Article {
	var tags []string
	if m.Tags != "" {
		_ = json.Unmarshal([]byte(m.Tags), &tags)
	}
	return domain.Article{
		ID:                      m.ID,
		OwnerID:                 m.OwnerID,
		Slug:                    m.Slug,
		Title:                   m.Title,
		CoverURL:                m.CoverURL,
		Tags:                    tags,
		CategoryID:              m.CategoryID,
		Status:                  domain.ArticleStatus(m.Status),
		PreDeleteStatus:         domain.ArticleStatus(m.PreDeleteStatus),
		Views:                   m.Views,
		LikesCount:              m.LikesCount,
		FirstPublishedAt:        m.FirstPublishedAt,
		PublishedAt:             m.PublishedAt,
		DeletedAt:               m.DeletedAt,
		DeletedBy:               m.DeletedBy,
		DeletedByRole:           domain.Role(m.DeletedByRole),
		DeleteScheduledAt:       m.DeleteScheduledAt,
		DeleteReason:            m.DeleteReason,
		RestoreRequestedAt:      m.RestoreRequestedAt,
		RestoreRequestedMessage: m.RestoreRequestedMessage,
		AdminRemark:             m.AdminRemark,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

func NewArticleFromDomain(a *domain.Article) *Article {
	return &Article{
		ID:                      a.ID,
		OwnerID:                 a.OwnerID,
		Slug:                    a.Slug,
		Title:                   a.Title,
		CoverURL:                a.CoverURL,
		Tags:                    EncodeTags(a.Tags),
		CategoryID:              a.CategoryID,
		Status:                  string(a.Status),
		PreDeleteStatus:         string(a.PreDeleteStatus),
		Views:                   a.Views,
		LikesCount:              a.LikesCount,
		FirstPublishedAt:        a.FirstPublishedAt,
		PublishedAt:             a.PublishedAt,
		DeletedAt:               a.DeletedAt,
		DeletedBy:               a.DeletedBy,
		DeletedByRole:           string(a.DeletedByRole),
		DeleteScheduledAt:       a.DeleteScheduledAt,
		DeleteReason:            a.DeleteReason,
		RestoreRequestedAt:      a.RestoreRequestedAt,
		RestoreRequestedMessage: a.RestoreRequestedMessage,
		AdminRemark:             a.AdminRemark,
		CreatedAt:               a.CreatedAt,
		UpdatedAt:               a.UpdatedAt,
	}
}

// EncodeTags serializes the slug set for the text column. Empty sets store
// as the empty string, not "null".
func EncodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	data, _ := json.Marshal(tags)
	return string(data)
}
