package tag

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/slug"
)

type Service struct {
	tagRepo domain.TagRepository
	nowFn   func() time.Time
}

var _ domain.TagUsecase = (*Service)(nil)

// NewService creates the tag registrar.
func NewService(t domain.TagRepository) *Service {
	return &Service{tagRepo: t, nowFn: time.Now}
}

// SanitizeInputs drops blank candidates, normalizes slugs, de-duplicates and
// caps the batch at EnsureTagsLimit. Shared with article writes so the tags
// stored on an article always match what the registrar saw.
func SanitizeInputs(tags []domain.TagInput) []domain.TagInput {
	out := make([]domain.TagInput, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		name := strings.TrimSpace(t.Name)
		raw := strings.TrimSpace(t.Slug)
		if raw == "" {
			raw = name
		}
		if name == "" || raw == "" {
			continue
		}
		s, err := slug.Make(raw)
		if err != nil {
			continue
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, domain.TagInput{Name: name, Slug: s})
		if len(out) == domain.EnsureTagsLimit {
			break
		}
	}
	return out
}

// EnsureExist registers any unknown tags from the batch. Duplicate-insert
// races resolve as success; existing tags are never mutated here.
func (s *Service) EnsureExist(ctx context.Context, actorID int64, tags []domain.TagInput) error {
	sanitized := SanitizeInputs(tags)
	if len(sanitized) == 0 {
		return nil
	}

	slugs := make([]string, len(sanitized))
	for i, t := range sanitized {
		slugs[i] = t.Slug
	}

	existing, err := s.tagRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.Slug] = true
	}

	now := s.nowFn()
	var missing []domain.Tag
	for _, t := range sanitized {
		if known[t.Slug] {
			continue
		}
		missing = append(missing, domain.Tag{Name: t.Name, Slug: t.Slug, CreatedAt: now})
	}
	if len(missing) == 0 {
		return nil
	}

	logrus.Debugf("actor %d registering %d new tags", actorID, len(missing))
	return s.tagRepo.InsertIgnoreExisting(ctx, missing)
}
