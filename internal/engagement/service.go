// Package engagement counts views and likes. Both counters tolerate bursty
// duplicate requests: views are deduplicated per (ip, article) inside a short
// window, likes are keyed by an anonymous fingerprint with concurrent
// duplicates coalesced into a single write.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/metrics"
)

// Options tunes the two in-process caches. Zero values fall back to the
// historical defaults.
type Options struct {
	ViewDedupWindow time.Duration
	InflightTTL     time.Duration

	// NowFn injects the clock for tests.
	NowFn func() time.Time
}

// ArticleCounters is the slice of the article repository the engagement
// service writes through. Counter mutations are atomic store operations.
type ArticleCounters interface {
	GetByID(ctx context.Context, id int64) (domain.Article, error)
	AddViews(ctx context.Context, id int64, delta int64) error
	AddLikes(ctx context.Context, id int64) error
	DecrLikes(ctx context.Context, id int64) error
}

type Service struct {
	articles ArticleCounters
	likes    domain.LikeRepository
	fp       *Fingerprinter

	dedup    *viewDedup
	inflight *inflightMap
	nowFn    func() time.Time
}

var _ domain.EngagementUsecase = (*Service)(nil)

// NewService creates the engagement service.
func NewService(articles ArticleCounters, likes domain.LikeRepository, fp *Fingerprinter, opts Options) *Service {
	if opts.ViewDedupWindow <= 0 {
		opts.ViewDedupWindow = 10 * time.Second
	}
	if opts.InflightTTL <= 0 {
		opts.InflightTTL = 3 * time.Second
	}
	if opts.NowFn == nil {
		opts.NowFn = time.Now
	}
	return &Service{
		articles: articles,
		likes:    likes,
		fp:       fp,
		dedup:    newViewDedup(opts.ViewDedupWindow, opts.NowFn),
		inflight: newInflightMap(opts.InflightTTL, opts.NowFn),
		nowFn:    opts.NowFn,
	}
}

// Start runs the periodic sweep of both in-process caches until the context
// is cancelled.
func (s *Service) Start(ctx context.Context) {
	ticker := time.NewTicker(s.inflight.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.dedup.sweep()
			s.inflight.sweep()
		case <-ctx.Done():
			logrus.Info("shutting down engagement sweeper")
			return
		}
	}
}

// RecordView counts one view unless the same (ip, article) pair was already
// counted inside the dedup window. Failures only log; a lost view is cheaper
// than a failed page read.
func (s *Service) RecordView(ctx context.Context, articleID int64, ip string) {
	if ip == "" {
		return
	}
	if !s.dedup.shouldCount(ip, articleID) {
		metrics.ViewsDeduplicated.Inc()
		return
	}
	metrics.ViewsCounted.Inc()
	if err := s.articles.AddViews(ctx, articleID, 1); err != nil {
		logrus.Errorf("failed to add view for article %d: %v", articleID, err)
	}
}

// Like registers the client's vote. Idempotent per fingerprint; concurrent
// identical calls share one write through the in-flight map.
func (s *Service) Like(ctx context.Context, articleID int64, ident domain.ClientIdentity) (domain.LikeState, error) {
	fingerprint := s.fp.Fingerprint(ident)
	key := inflightKey("like", articleID, fingerprint)

	state, err := s.inflight.do(key, func() (domain.LikeState, error) {
		err := s.likes.Add(ctx, domain.ArticleLike{
			ArticleID:   articleID,
			Fingerprint: fingerprint,
			CreatedAt:   s.nowFn(),
		})
		switch {
		case err == nil:
			if err := s.articles.AddLikes(ctx, articleID); err != nil {
				return domain.LikeState{}, err
			}
		case errors.Is(err, domain.ErrConflict):
			// Already liked, the row is the vote; nothing to write.
		default:
			return domain.LikeState{}, err
		}
		return s.state(ctx, articleID, true)
	})
	metrics.LikeOpsTotal.WithLabelValues("like", resultLabel(err)).Inc()
	return state, err
}

// Unlike withdraws the vote; a no-op when none exists.
func (s *Service) Unlike(ctx context.Context, articleID int64, ident domain.ClientIdentity) (domain.LikeState, error) {
	fingerprint := s.fp.Fingerprint(ident)
	key := inflightKey("unlike", articleID, fingerprint)

	state, err := s.inflight.do(key, func() (domain.LikeState, error) {
		err := s.likes.Remove(ctx, articleID, fingerprint)
		switch {
		case err == nil:
			if err := s.articles.DecrLikes(ctx, articleID); err != nil {
				return domain.LikeState{}, err
			}
		case errors.Is(err, domain.ErrNotFound):
			// No like to withdraw.
		default:
			return domain.LikeState{}, err
		}
		return s.state(ctx, articleID, false)
	})
	metrics.LikeOpsTotal.WithLabelValues("unlike", resultLabel(err)).Inc()
	return state, err
}

// GetLikeState reports the count and whether the client has liked.
func (s *Service) GetLikeState(ctx context.Context, articleID int64, ident domain.ClientIdentity) (domain.LikeState, error) {
	fingerprint := s.fp.Fingerprint(ident)

	liked, err := s.likes.Exists(ctx, articleID, fingerprint)
	if err != nil {
		return domain.LikeState{}, err
	}
	return s.state(ctx, articleID, liked)
}

func (s *Service) state(ctx context.Context, articleID int64, liked bool) (domain.LikeState, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return domain.LikeState{}, err
	}
	return domain.LikeState{LikesCount: article.LikesCount, Liked: liked}, nil
}

func inflightKey(op string, articleID int64, fingerprint string) string {
	return fmt.Sprintf("%s:%d:%s", op, articleID, fingerprint)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
