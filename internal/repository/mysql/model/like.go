package model

import (
	"time"

	"github.com/inkwell-cms/inkwell/domain"
)

type ArticleLike struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ArticleID   int64     `gorm:"column:article_id;not null;uniqueIndex:idx_article_fp,priority:1"`
	Fingerprint string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_article_fp,priority:2"`
	CreatedAt   time.Time `gorm:"type:datetime"`
}

func (ArticleLike) TableName() string {
	return "article_likes"
}

func (m *ArticleLike) ToDomain() domain.ArticleLike {
	return domain.ArticleLike{
		ArticleID:   m.ArticleID,
		Fingerprint: m.Fingerprint,
		CreatedAt:   m.CreatedAt,
	}
}

func NewArticleLikeFromDomain(l domain.ArticleLike) ArticleLike {
	return ArticleLike{
		ArticleID:   l.ArticleID,
		Fingerprint: l.Fingerprint,
		CreatedAt:   l.CreatedAt,
	}
}
