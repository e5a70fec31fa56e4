// Package user implements account lifecycle: soft delete with a scheduled
// purge, and the cascade that removes an author's entire body of work.
package user

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inkwell-cms/inkwell/domain"
)

type Service struct {
	users     domain.UserRepository
	articles  domain.ArticleRepository
	contents  domain.ArticleContentRepository
	likes     domain.LikeRepository
	retention int
	nowFn     func() time.Time
}

var _ domain.UserUsecase = (*Service)(nil)

// NewService wires the account usecase. retentionDays is the shared
// soft-delete grace from the retention policy.
func NewService(
	users domain.UserRepository,
	articles domain.ArticleRepository,
	contents domain.ArticleContentRepository,
	likes domain.LikeRepository,
	retentionDays int,
) *Service {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &Service{
		users:     users,
		articles:  articles,
		contents:  contents,
		likes:     likes,
		retention: retentionDays,
		nowFn:     time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(nowFn func() time.Time) *Service {
	s.nowFn = nowFn
	return s
}

func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.DeletedAt != nil {
		return domain.ErrInvalidState
	}

	now := s.nowFn()
	return s.users.MarkDeleted(ctx, id, now, now.AddDate(0, 0, s.retention))
}

func (s *Service) Restore(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.DeletedAt == nil {
		return domain.ErrInvalidState
	}
	return s.users.Restore(ctx, id)
}

// Purge removes the account and everything it owns. Children go before
// parents so an interrupted run can be re-executed from the top.
func (s *Service) Purge(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	ids, err := s.articles.FetchIDsByOwner(ctx, id)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		if err := s.likes.DeleteByArticleIDs(ctx, ids); err != nil {
			return err
		}
		if err := s.contents.DeleteByArticleIDs(ctx, ids); err != nil {
			return err
		}
	}
	if err := s.articles.DeleteByOwner(ctx, id); err != nil {
		return err
	}

	logrus.Infof("purged user %d with %d articles", id, len(ids))
	return s.users.Delete(ctx, id)
}
