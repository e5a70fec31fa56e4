// Package jobs holds the scheduled maintenance sweeps, run under a cron
// scheduler from main.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/metrics"
)

// sweepBatch bounds one sweep pass; anything left over is picked up by the
// next scheduled run.
const sweepBatch = 200

// Purger hard-deletes everything whose recycle-bin grace has expired:
// articles, categories and user accounts. Every step is idempotent so an
// interrupted sweep simply re-runs.
type Purger struct {
	articles   domain.ArticleRepository
	contents   domain.ArticleContentRepository
	likes      domain.LikeRepository
	categories domain.CategoryRepository
	users      domain.UserRepository
	reader     domain.ArticleDetailSource
	syncer     domain.FrontendSyncWorker
	nowFn      func() time.Time
}

func NewPurger(
	articles domain.ArticleRepository,
	contents domain.ArticleContentRepository,
	likes domain.LikeRepository,
	categories domain.CategoryRepository,
	users domain.UserRepository,
	reader domain.ArticleDetailSource,
	syncer domain.FrontendSyncWorker,
) *Purger {
	return &Purger{
		articles:   articles,
		contents:   contents,
		likes:      likes,
		categories: categories,
		users:      users,
		reader:     reader,
		syncer:     syncer,
		nowFn:      time.Now,
	}
}

// WithClock overrides the sweep clock, for tests.
func (p *Purger) WithClock(nowFn func() time.Time) *Purger {
	p.nowFn = nowFn
	return p
}

// Run executes one full sweep. It satisfies cron.Job's no-argument shape;
// errors are logged, never propagated, so one bad row can't stall the
// schedule.
func (p *Purger) Run() {
	ctx := context.Background()
	now := p.nowFn()

	p.sweepArticles(ctx, now)
	p.sweepCategories(ctx, now)
	p.sweepUsers(ctx, now)
}

func (p *Purger) sweepArticles(ctx context.Context, now time.Time) {
	due, err := p.articles.FetchPurgeable(ctx, now, sweepBatch)
	if err != nil {
		logrus.Errorf("purge sweep: listing purgeable articles failed: %v", err)
		return
	}

	purged := 0
	for _, ar := range due {
		if err := p.purgeArticle(ctx, ar.ID); err != nil {
			logrus.Errorf("purge sweep: article %d failed: %v", ar.ID, err)
			continue
		}
		purged++
	}
	if purged > 0 {
		metrics.PurgedTotal.WithLabelValues("article").Add(float64(purged))
		logrus.Infof("purge sweep: removed %d expired articles", purged)
	}
}

// purgeArticle cascades children-first so a partial run leaves no orphans
// that a re-run can't clean up.
func (p *Purger) purgeArticle(ctx context.Context, id int64) error {
	if err := p.likes.DeleteByArticle(ctx, id); err != nil {
		return err
	}
	if err := p.contents.Delete(ctx, id); err != nil {
		return err
	}
	if err := p.articles.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	p.reader.Invalidate(ctx, id)
	p.syncer.Send(domain.SyncEvent{Action: domain.SyncRemove, ArticleID: id})
	return nil
}

func (p *Purger) sweepCategories(ctx context.Context, now time.Time) {
	due, err := p.categories.FetchPurgeable(ctx, now, sweepBatch)
	if err != nil {
		logrus.Errorf("purge sweep: listing purgeable categories failed: %v", err)
		return
	}

	for _, c := range due {
		if err := p.articles.DetachCategory(ctx, c.ID); err != nil {
			logrus.Errorf("purge sweep: detaching category %d failed: %v", c.ID, err)
			continue
		}
		if err := p.categories.Delete(ctx, c.ID); err != nil {
			logrus.Errorf("purge sweep: category %d failed: %v", c.ID, err)
			continue
		}
		metrics.PurgedTotal.WithLabelValues("category").Inc()
	}
}

func (p *Purger) sweepUsers(ctx context.Context, now time.Time) {
	due, err := p.users.FetchPurgeable(ctx, now, sweepBatch)
	if err != nil {
		logrus.Errorf("purge sweep: listing purgeable users failed: %v", err)
		return
	}

	for _, u := range due {
		if err := p.purgeUser(ctx, u.ID); err != nil {
			logrus.Errorf("purge sweep: user %d failed: %v", u.ID, err)
			continue
		}
		metrics.PurgedTotal.WithLabelValues("user").Inc()
	}
}

func (p *Purger) purgeUser(ctx context.Context, id int64) error {
	ids, err := p.articles.FetchIDsByOwner(ctx, id)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		if err := p.likes.DeleteByArticleIDs(ctx, ids); err != nil {
			return err
		}
		if err := p.contents.DeleteByArticleIDs(ctx, ids); err != nil {
			return err
		}
	}
	if err := p.articles.DeleteByOwner(ctx, id); err != nil {
		return err
	}
	for _, articleID := range ids {
		p.reader.Invalidate(ctx, articleID)
		p.syncer.Send(domain.SyncEvent{Action: domain.SyncRemove, ArticleID: articleID})
	}
	return p.users.Delete(ctx, id)
}
