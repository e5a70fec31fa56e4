// Package category implements the category side of the lifecycle engine:
// the soft-delete window mirrors articles but with no editing states.
package category

import (
	"context"
	"strings"
	"time"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/slug"
)

type Service struct {
	categories domain.CategoryRepository
	articles   domain.ArticleRepository
	retention  int
	nowFn      func() time.Time
}

var _ domain.CategoryUsecase = (*Service)(nil)

// NewService wires the category usecase. retentionDays is the soft-delete
// grace shared with admin article deletes.
func NewService(categories domain.CategoryRepository, articles domain.ArticleRepository, retentionDays int) *Service {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &Service{
		categories: categories,
		articles:   articles,
		retention:  retentionDays,
		nowFn:      time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(nowFn func() time.Time) *Service {
	s.nowFn = nowFn
	return s
}

func (s *Service) load(ctx context.Context, actor domain.Actor, id int64) (domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	if !actor.IsAdmin() && c.OwnerID != actor.ID {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, domain.ErrBadParamInput
	}
	categorySlug, err := slug.Make(name)
	if err != nil {
		return domain.Category{}, err
	}

	c := domain.Category{OwnerID: actor.ID, Name: name, Slug: categorySlug}
	if err := s.categories.Store(ctx, &c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, domain.ErrBadParamInput
	}

	c, err := s.load(ctx, actor, id)
	if err != nil {
		return domain.Category{}, err
	}
	if c.Deleted() {
		return domain.Category{}, domain.ErrInvalidState
	}

	c.Name = name
	// The slug follows the name; categories have no public permalink identity
	// the way first-published articles do.
	newSlug, err := slug.Make(name)
	if err != nil {
		return domain.Category{}, err
	}
	c.Slug = newSlug

	if err := s.categories.Update(ctx, &c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if c.Deleted() {
		return domain.ErrInvalidState
	}

	now := s.nowFn()
	return s.categories.MarkDeleted(ctx, c.ID, now, now.AddDate(0, 0, s.retention))
}

func (s *Service) Restore(ctx context.Context, actor domain.Actor, id int64) (domain.Category, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return domain.Category{}, err
	}
	if !c.Deleted() {
		return domain.Category{}, domain.ErrInvalidState
	}

	if err := s.categories.Restore(ctx, c.ID); err != nil {
		return domain.Category{}, err
	}
	c.DeletedAt = nil
	c.DeleteScheduledAt = nil
	return c, nil
}

func (s *Service) Purge(ctx context.Context, actor domain.Actor, id int64) error {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !c.Deleted() {
		return domain.ErrInvalidState
	}

	// Detach first so a failure between the two steps leaves no article
	// pointing at a missing category.
	if err := s.articles.DetachCategory(ctx, c.ID); err != nil {
		return err
	}
	return s.categories.Delete(ctx, c.ID)
}

func (s *Service) FetchOwn(ctx context.Context, actor domain.Actor) ([]domain.Category, error) {
	return s.categories.FetchByOwner(ctx, actor.ID)
}
