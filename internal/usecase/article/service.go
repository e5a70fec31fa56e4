// Package article implements the content lifecycle state machine: the status
// transitions every article moves through, shared between the owning author
// and the admin with different authority on the delete/restore side.
package article

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/metrics"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/internal/slug"
	"github.com/inkwell-cms/inkwell/internal/usecase/tag"
)

// Policy carries the tunables the state machine consults.
type Policy struct {
	// RetentionDays applies to admin soft deletes; one of 7/15/30 per the
	// global retention policy.
	RetentionDays int

	// AuthorGraceDefault applies when an author delete supplies no grace
	// period. Caller-supplied values are bounded 1..30.
	AuthorGraceDefault int

	// ThemeHints pass through to the renderer.
	ThemeHints []string
}

type Service struct {
	articles domain.ArticleRepository
	contents domain.ArticleContentRepository
	reader   domain.ArticleDetailSource
	tags     domain.TagUsecase
	likes    domain.LikeRepository
	renderer domain.ContentRenderer
	engage   domain.EngagementUsecase
	syncer   domain.FrontendSyncWorker
	slugs    *slug.Generator
	policy   Policy
	nowFn    func() time.Time
}

var _ domain.ArticleUsecase = (*Service)(nil)

// NewService wires the lifecycle state machine.
func NewService(
	articles domain.ArticleRepository,
	contents domain.ArticleContentRepository,
	reader domain.ArticleDetailSource,
	tags domain.TagUsecase,
	likes domain.LikeRepository,
	renderer domain.ContentRenderer,
	engage domain.EngagementUsecase,
	syncer domain.FrontendSyncWorker,
	policy Policy,
) *Service {
	if policy.AuthorGraceDefault <= 0 {
		policy.AuthorGraceDefault = 7
	}
	if policy.RetentionDays <= 0 {
		policy.RetentionDays = 7
	}
	return &Service{
		articles: articles,
		contents: contents,
		reader:   reader,
		tags:     tags,
		likes:    likes,
		renderer: renderer,
		engage:   engage,
		syncer:   syncer,
		slugs:    slug.NewGenerator(articles),
		policy:   policy,
		nowFn:    time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(nowFn func() time.Time) *Service {
	s.nowFn = nowFn
	return s
}

// load fetches the article and applies the ownership rule: an author only
// sees their own articles, reported as not-found rather than forbidden.
func (s *Service) load(ctx context.Context, actor domain.Actor, id int64) (domain.Article, error) {
	ar, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return domain.Article{}, err
	}
	if !actor.IsAdmin() && ar.OwnerID != actor.ID {
		return domain.Article{}, domain.ErrNotFound
	}
	return ar, nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, in domain.CreateArticleInput) (domain.Article, error) {
	articleSlug, err := s.slugs.ForTitle(ctx, actor.ID, in.Title)
	if err != nil {
		return domain.Article{}, err
	}

	tags := tag.SanitizeInputs(in.Tags)
	if len(tags) > 0 {
		if err := s.tags.EnsureExist(ctx, actor.ID, tags); err != nil {
			return domain.Article{}, err
		}
	}

	ar := domain.Article{
		OwnerID:    actor.ID,
		Slug:       articleSlug,
		Title:      in.Title,
		CoverURL:   in.CoverURL,
		Tags:       tagSlugs(tags),
		CategoryID: in.CategoryID,
		Status:     domain.StatusDraft,
	}
	if err := s.articles.Store(ctx, &ar); err != nil {
		return domain.Article{}, err
	}

	content := domain.ArticleContent{ArticleID: ar.ID, Markdown: in.Markdown}
	if err := s.contents.Store(ctx, &content); err != nil {
		// Compensating rollback; a crash between the two writes leaves an
		// orphan metadata row, an accepted gap in lieu of a transaction.
		if derr := s.articles.Delete(ctx, ar.ID); derr != nil {
			logrus.Errorf("rollback of article %d after content failure also failed: %v", ar.ID, derr)
		}
		return domain.Article{}, err
	}
	return ar, nil
}

func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, in domain.UpdateArticleInput) (domain.Article, error) {
	ar, err := s.load(ctx, actor, id)
	if err != nil {
		return domain.Article{}, err
	}
	if err := ensureTransition(opUpdate, ar.Status); err != nil {
		return domain.Article{}, err
	}

	prev := ar.Status
	changed := false

	if in.Title != nil && *in.Title != ar.Title {
		ar.Title = *in.Title
		changed = true
		// The slug is regenerated only while the article has never been
		// published; after that it is a stable public identity.
		if ar.FirstPublishedAt == nil {
			newSlug, err := s.slugs.ForTitle(ctx, ar.OwnerID, ar.Title)
			if err != nil {
				return domain.Article{}, err
			}
			ar.Slug = newSlug
		}
	}
	if in.CoverURL != nil && *in.CoverURL != ar.CoverURL {
		ar.CoverURL = *in.CoverURL
		changed = true
	}
	if in.ClearCategory {
		if ar.CategoryID != nil {
			ar.CategoryID = nil
			changed = true
		}
	} else if in.CategoryID != nil && (ar.CategoryID == nil || *ar.CategoryID != *in.CategoryID) {
		ar.CategoryID = in.CategoryID
		changed = true
	}
	if in.Tags != nil {
		sanitized := tag.SanitizeInputs(in.Tags)
		slugs := tagSlugs(sanitized)
		if !sameTagSet(ar.Tags, slugs) {
			if err := s.tags.EnsureExist(ctx, actor.ID, sanitized); err != nil {
				return domain.Article{}, err
			}
			ar.Tags = slugs
			changed = true
		}
	}

	markdownChanged := false
	if in.Markdown != nil {
		content, err := s.contents.Get(ctx, ar.ID)
		if err != nil {
			return domain.Article{}, err
		}
		markdownChanged = content.Markdown != *in.Markdown
	}

	if !changed && !markdownChanged {
		return ar, nil
	}

	if prev == domain.StatusPublished {
		ar.Status = domain.StatusEditing
	}
	if err := s.articles.UpdateMeta(ctx, &ar, prev); err != nil {
		return domain.Article{}, err
	}
	if markdownChanged {
		if err := s.contents.UpdateMarkdown(ctx, ar.ID, *in.Markdown); err != nil {
			return domain.Article{}, err
		}
	}

	s.reader.Invalidate(ctx, ar.ID)
	if prev == domain.StatusPublished {
		// Dropped out of PUBLISHED; the public copy goes away.
		s.syncer.Send(domain.SyncEvent{Action: domain.SyncRemove, ArticleID: ar.ID})
	}
	return ar, nil
}

func (s *Service) Publish(ctx context.Context, actor domain.Actor, id int64) (domain.Article, error) {
	ar, err := s.load(ctx, actor, id)
	if err != nil {
		return domain.Article{}, err
	}
	if err := ensureTransition(opPublish, ar.Status); err != nil {
		return domain.Article{}, err
	}

	content, err := s.contents.Get(ctx, ar.ID)
	if err != nil {
		return domain.Article{}, err
	}
	if strings.TrimSpace(content.Markdown) == "" {
		return domain.Article{}, domain.ErrMarkdownRequired
	}

	if content.Stale(s.renderer.Version()) {
		res, err := s.renderer.Render(ctx, content.Markdown, s.policy.ThemeHints)
		if err != nil {
			return domain.Article{}, err
		}
		metrics.RendersTotal.WithLabelValues("publish").Inc()
		if err := s.contents.SetRendered(ctx, ar.ID, res.HTML, res.TOC, res.Version, res.RenderedAt); err != nil {
			return domain.Article{}, err
		}
	}

	now := s.nowFn()
	var first *time.Time
	if ar.FirstPublishedAt == nil {
		first = &now
	}
	if err := s.articles.MarkPublished(ctx, ar.ID, ar.Status, now, first); err != nil {
		return domain.Article{}, err
	}

	ar.Status = domain.StatusPublished
	ar.PublishedAt = &now
	if first != nil {
		ar.FirstPublishedAt = first
	}

	s.reader.Invalidate(ctx, ar.ID)
	s.syncer.Send(domain.SyncEvent{Action: domain.SyncUpsert, ArticleID: ar.ID})
	return ar, nil
}

func (s *Service) Unpublish(ctx context.Context, actor domain.Actor, id int64) (domain.Article, error) {
	ar, err := s.load(ctx, actor, id)
	if err != nil {
		return domain.Article{}, err
	}
	if err := ensureTransition(opUnpublish, ar.Status); err != nil {
		return domain.Article{}, err
	}

	if err := s.articles.SetStatus(ctx, ar.ID, domain.StatusPublished, domain.StatusEditing); err != nil {
		return domain.Article{}, err
	}
	ar.Status = domain.StatusEditing

	s.reader.Invalidate(ctx, ar.ID)
	s.syncer.Send(domain.SyncEvent{Action: domain.SyncRemove, ArticleID: ar.ID})
	return ar, nil
}

func (s *Service) SaveDraft(ctx context.Context, actor domain.Actor, id int64) (domain.Article, error) {
	ar, err := s.load(ctx, actor, id)
	if err != nil {
		return domain.Article{}, err
	}
	if err := ensureTransition(opSaveDraft, ar.Status); err != nil {
		return domain.Article{}, err
	}

	if err := s.articles.SetStatus(ctx, ar.ID, domain.StatusEditing, domain.StatusDraft); err != nil {
		return domain.Article{}, err
	}
	ar.Status = domain.StatusDraft

	s.reader.Invalidate(ctx, ar.ID)
	return ar, nil
}

func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64, in domain.DeleteArticleInput) error {
	ar, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := ensureTransition(opDelete, ar.Status); err != nil {
		return err
	}

	if ar.Status == domain.StatusPublished {
		graceDays, err := s.graceDays(actor, in.GraceDays)
		if err != nil {
			return err
		}
		now := s.nowFn()
		meta := domain.DeletionMeta{
			PreDeleteStatus:   ar.Status,
			DeletedAt:         now,
			DeletedBy:         actor.ID,
			DeletedByRole:     actor.Role,
			DeleteScheduledAt: now.AddDate(0, 0, graceDays),
			DeleteReason:      in.Reason,
		}
		if err := s.articles.MarkDeleted(ctx, ar.ID, meta); err != nil {
			return err
		}
	} else {
		// Never-public content purges immediately; parking it in the
		// recycle bin serves no recovery purpose.
		if err := s.hardDelete(ctx, ar.ID); err != nil {
			return err
		}
	}

	s.reader.Invalidate(ctx, ar.ID)
	s.syncer.Send(domain.SyncEvent{Action: domain.SyncRemove, ArticleID: ar.ID})
	return nil
}

func (s *Service) graceDays(actor domain.Actor, requested int) (int, error) {
	// Admin deletes follow the retention policy; the caller has no say.
	if actor.IsAdmin() {
		return s.policy.RetentionDays, nil
	}
	if requested == 0 {
		return s.policy.AuthorGraceDefault, nil
	}
	if requested < 1 || requested > 30 {
		return 0, domain.ErrBadParamInput
	}
	return requested, nil
}

func (s *Service) Restore(ctx context.Context, actor domain.Actor, id int64) (domain.Article, error) {
	ar, err := s.load(ctx, actor, id)
	if err != nil {
		return domain.Article{}, err
	}
	if err := ensureTransition(opRestore, ar.Status); err != nil {
		return domain.Article{}, err
	}
	if !actor.IsAdmin() && ar.DeletedByRole == domain.RoleAdmin {
		// The author can't unilaterally undo a moderation action; the
		// specific error lets the caller branch into requestRestore.
		return domain.Article{}, domain.ErrRestoreRequiresRequest
	}

	to := ar.PreDeleteStatus
	if !to.Valid() || to == domain.StatusPendingDelete {
		to = domain.StatusPublished
	}
	if err := s.articles.Restore(ctx, ar.ID, to); err != nil {
		return domain.Article{}, err
	}

	ar.Status = to
	ar.PreDeleteStatus = ""
	ar.DeletedAt = nil
	ar.DeletedBy = 0
	ar.DeletedByRole = ""
	ar.DeleteScheduledAt = nil
	ar.DeleteReason = ""
	ar.RestoreRequestedAt = nil
	ar.RestoreRequestedMessage = ""

	s.reader.Invalidate(ctx, ar.ID)
	if to == domain.StatusPublished {
		s.syncer.Send(domain.SyncEvent{Action: domain.SyncUpsert, ArticleID: ar.ID})
	}
	return ar, nil
}

func (s *Service) RequestRestore(ctx context.Context, actor domain.Actor, id int64, message string) error {
	ar, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ar.OwnerID != actor.ID {
		return domain.ErrNotFound
	}
	if err := ensureTransition(opRequest, ar.Status); err != nil {
		return err
	}
	if ar.DeletedByRole != domain.RoleAdmin {
		return domain.ErrInvalidState
	}
	if ar.RestoreRequestedAt != nil {
		return nil // already requested, idempotent
	}

	err = s.articles.SetRestoreRequested(ctx, ar.ID, s.nowFn(), message)
	if errors.Is(err, domain.ErrNotFound) {
		// Lost a race against an identical request; same outcome.
		return nil
	}
	return err
}

func (s *Service) Purge(ctx context.Context, actor domain.Actor, id int64) error {
	ar, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := ensureTransition(opPurge, ar.Status); err != nil {
		return err
	}
	if !actor.IsAdmin() && ar.DeletedByRole == domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.hardDelete(ctx, ar.ID); err != nil {
		return err
	}

	s.reader.Invalidate(ctx, ar.ID)
	s.syncer.Send(domain.SyncEvent{Action: domain.SyncRemove, ArticleID: ar.ID})
	return nil
}

// hardDelete removes the article and everything hanging off it. Children go
// first so an interrupted run can be re-executed safely.
func (s *Service) hardDelete(ctx context.Context, id int64) error {
	if err := s.likes.DeleteByArticle(ctx, id); err != nil {
		return err
	}
	if err := s.contents.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) SetAdminRemark(ctx context.Context, actor domain.Actor, id int64, remark string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.articles.SetAdminRemark(ctx, id, remark); err != nil {
		return err
	}
	s.reader.Invalidate(ctx, id)
	return nil
}

func (s *Service) DetailByID(ctx context.Context, viewer domain.Actor, id int64, viewerIP string) (domain.ArticleDetail, error) {
	detail, err := s.reader.Detail(ctx, id)
	if err != nil {
		return domain.ArticleDetail{}, err
	}
	return s.finishDetail(ctx, viewer, detail, viewerIP)
}

func (s *Service) DetailBySlug(ctx context.Context, viewer domain.Actor, ownerID int64, articleSlug string, viewerIP string) (domain.ArticleDetail, error) {
	detail, err := s.reader.DetailBySlug(ctx, ownerID, articleSlug)
	if err != nil {
		return domain.ArticleDetail{}, err
	}
	return s.finishDetail(ctx, viewer, detail, viewerIP)
}

// finishDetail applies the visibility rule and the read-path side effects:
// lazy re-render when the stored renderer version is stale, then the
// deduplicated view count. Only PUBLISHED articles are public; drafts,
// edits, and binned articles exist only for their owner and admins.
func (s *Service) finishDetail(ctx context.Context, viewer domain.Actor, detail domain.ArticleDetail, viewerIP string) (domain.ArticleDetail, error) {
	if detail.Status != domain.StatusPublished && !viewer.IsAdmin() && detail.OwnerID != viewer.ID {
		return domain.ArticleDetail{}, domain.ErrNotFound
	}
	if detail.Content.Stale(s.renderer.Version()) && strings.TrimSpace(detail.Content.Markdown) != "" {
		res, err := s.renderer.Render(ctx, detail.Content.Markdown, s.policy.ThemeHints)
		if err != nil {
			// Serve the stale copy rather than failing the read.
			logrus.Warnf("lazy re-render of article %d failed: %v", detail.ID, err)
		} else {
			metrics.RendersTotal.WithLabelValues("lazy").Inc()
			if err := s.contents.SetRendered(ctx, detail.ID, res.HTML, res.TOC, res.Version, res.RenderedAt); err != nil {
				logrus.Warnf("failed to persist re-render of article %d: %v", detail.ID, err)
			}
			detail.Content.HTML = res.HTML
			detail.Content.TOC = res.TOC
			detail.Content.RendererVersion = res.Version
			renderedAt := res.RenderedAt
			detail.Content.RenderedAt = &renderedAt
			s.reader.Invalidate(ctx, detail.ID)
		}
	}

	if detail.Status == domain.StatusPublished {
		s.engage.RecordView(ctx, detail.ID, viewerIP)
	}
	return detail, nil
}

func (s *Service) FetchOwn(ctx context.Context, actor domain.Actor, statuses []domain.ArticleStatus, cursor string, num int64) ([]domain.Article, string, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, "", domain.ErrBadParamInput
		}
	}
	res, err := s.articles.FetchByOwner(ctx, actor.ID, statuses, cursor, num)
	if err != nil {
		return nil, "", err
	}
	return res, nextCursor(res), nil
}

func (s *Service) FetchPublished(ctx context.Context, cursor string, num int64) ([]domain.Article, string, error) {
	res, err := s.articles.FetchPublished(ctx, cursor, num)
	if err != nil {
		return nil, "", err
	}
	return res, nextCursor(res), nil
}

func (s *Service) FetchRecycleBin(ctx context.Context, actor domain.Actor, limit int64) ([]domain.Article, error) {
	ownerID := actor.ID
	if actor.IsAdmin() {
		ownerID = 0 // all owners
	}
	return s.articles.FetchPendingDelete(ctx, ownerID, limit)
}

func nextCursor(res []domain.Article) string {
	if len(res) == 0 {
		return ""
	}
	return repository.EncodeCursor(res[len(res)-1].CreatedAt)
}

func tagSlugs(tags []domain.TagInput) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Slug
	}
	return out
}

func sameTagSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	return true
}
