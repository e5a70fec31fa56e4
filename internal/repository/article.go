package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/inkwell-cms/inkwell/domain"
)

// articleReader coordinates the detail read path: cache first, then a
// singleflight-guarded database load so a burst of misses on one article
// produces a single pair of queries.
type articleReader struct {
	articles domain.ArticleRepository
	contents domain.ArticleContentRepository
	cache    domain.ArticleCache
	group    singleflight.Group
}

var _ domain.ArticleDetailSource = (*articleReader)(nil)

// NewArticleReader creates the coordinating read-path repository.
func NewArticleReader(articles domain.ArticleRepository, contents domain.ArticleContentRepository, cache domain.ArticleCache) *articleReader {
	return &articleReader{
		articles: articles,
		contents: contents,
		cache:    cache,
	}
}

func (r *articleReader) Detail(ctx context.Context, id int64) (domain.ArticleDetail, error) {
	detail, err := r.cache.GetDetail(ctx, id)
	if err == nil {
		return detail, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("article cache get error: %v", err)
	}

	result, err, _ := r.group.Do("article:"+strconv.FormatInt(id, 10), func() (interface{}, error) {
		article, err := r.articles.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		content, err := r.contents.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		d := domain.ArticleDetail{Article: article, Content: content}

		go func(d domain.ArticleDetail) {
			if err := r.cache.SetDetail(context.Background(), &d); err != nil {
				logrus.Warnf("failed to set article cache: %v", err)
			}
		}(d)

		return d, nil
	})
	if err != nil {
		return domain.ArticleDetail{}, err
	}
	return result.(domain.ArticleDetail), nil
}

func (r *articleReader) DetailBySlug(ctx context.Context, ownerID int64, slug string) (domain.ArticleDetail, error) {
	article, err := r.articles.GetByOwnerSlug(ctx, ownerID, slug)
	if err != nil {
		return domain.ArticleDetail{}, err
	}
	return r.Detail(ctx, article.ID)
}

func (r *articleReader) Invalidate(ctx context.Context, id int64) {
	if err := r.cache.DeleteDetail(ctx, id); err != nil {
		logrus.Warnf("failed to invalidate article %d cache: %v", id, err)
	}
}
