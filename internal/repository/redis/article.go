package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell-cms/inkwell/domain"
)

const (
	KeyArticleDetail = "article:detail:%d"

	detailTTL = 10 * time.Minute
)

type articleCache struct {
	client *redis.Client
}

var _ domain.ArticleCache = (*articleCache)(nil)

// NewArticleCache creates the Redis-backed detail cache.
func NewArticleCache(client *redis.Client) *articleCache {
	return &articleCache{client}
}

func (c *articleCache) GetDetail(ctx context.Context, id int64) (res domain.ArticleDetail, err error) {
	key := fmt.Sprintf(KeyArticleDetail, id)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ArticleDetail{}, domain.ErrCacheMiss
	} else if err != nil {
		return domain.ArticleDetail{}, err
	}
	if err = json.Unmarshal(data, &res); err != nil {
		return domain.ArticleDetail{}, err
	}
	return
}

func (c *articleCache) SetDetail(ctx context.Context, d *domain.ArticleDetail) (err error) {
	key := fmt.Sprintf(KeyArticleDetail, d.ID)
	data, err := json.Marshal(d)
	if err != nil {
		return
	}
	err = c.client.Set(ctx, key, data, detailTTL).Err()
	return
}

func (c *articleCache) DeleteDetail(ctx context.Context, id int64) error {
	key := fmt.Sprintf(KeyArticleDetail, id)
	return c.client.Del(ctx, key).Err()
}
