package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/internal/repository/mysql/model"
)

type articleRepository struct {
	DB *gorm.DB
}

var _ domain.ArticleRepository = (*articleRepository)(nil)

// NewArticleRepository creates the article metadata persistence layer.
func NewArticleRepository(db *gorm.DB) *articleRepository {
	return &articleRepository{db}
}

func (m *articleRepository) Store(ctx context.Context, a *domain.Article) error {
	articleModel := model.NewArticleFromDomain(a)
	result := m.DB.WithContext(ctx).Create(articleModel)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return domain.ErrConflict
		}
		return result.Error
	}
	a.ID = articleModel.ID
	a.CreatedAt = articleModel.CreatedAt
	a.UpdatedAt = articleModel.UpdatedAt
	return nil
}

func (m *articleRepository) GetByID(ctx context.Context, id int64) (res domain.Article, err error) {
	var article model.Article
	err = m.DB.WithContext(ctx).First(&article, "id = ?", id).Error
	if err != nil {
		return res, domain.ErrNotFound
	}
	res = article.ToDomain()
	return
}

func (m *articleRepository) GetByOwnerSlug(ctx context.Context, ownerID int64, slug string) (res domain.Article, err error) {
	var article model.Article
	err = m.DB.WithContext(ctx).First(&article, "owner_id = ? AND slug = ?", ownerID, slug).Error
	if err != nil {
		return res, domain.ErrNotFound
	}
	res = article.ToDomain()
	return
}

func (m *articleRepository) SlugExists(ctx context.Context, ownerID int64, slug string) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("owner_id = ? AND slug = ?", ownerID, slug).
		Count(&count).Error
	return count > 0, err
}

func (m *articleRepository) FetchByOwner(ctx context.Context, ownerID int64, statuses []domain.ArticleStatus, cursor string, num int64) ([]domain.Article, error) {
	decodedCursor, err := repository.DecodeCursor(cursor)
	if err != nil && cursor != "" {
		return nil, domain.ErrBadParamInput
	}
	repository.PageVerify(&num)

	q := m.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("created_at > ?", decodedCursor)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var articles []model.Article
	err = q.Order("created_at").Limit(int(num)).Find(&articles).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Article, len(articles))
	for i := range articles {
		res[i] = articles[i].ToDomain()
	}
	return res, nil
}

func (m *articleRepository) FetchPublished(ctx context.Context, cursor string, num int64) ([]domain.Article, error) {
	decodedCursor, err := repository.DecodeCursor(cursor)
	if err != nil && cursor != "" {
		return nil, domain.ErrBadParamInput
	}
	repository.PageVerify(&num)

	var articles []model.Article
	err = m.DB.WithContext(ctx).
		Where("status = ?", domain.StatusPublished).
		Where("created_at > ?", decodedCursor).
		Order("created_at").
		Limit(int(num)).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Article, len(articles))
	for i := range articles {
		res[i] = articles[i].ToDomain()
	}
	return res, nil
}

func (m *articleRepository) FetchPendingDelete(ctx context.Context, ownerID int64, limit int64) ([]domain.Article, error) {
	repository.PageVerify(&limit)

	q := m.DB.WithContext(ctx).Where("status = ?", domain.StatusPendingDelete)
	if ownerID != 0 {
		q = q.Where("owner_id = ?", ownerID)
	}

	var articles []model.Article
	err := q.Order("deleted_at desc").Limit(int(limit)).Find(&articles).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Article, len(articles))
	for i := range articles {
		res[i] = articles[i].ToDomain()
	}
	return res, nil
}

func (m *articleRepository) FetchPurgeable(ctx context.Context, now time.Time, limit int64) ([]domain.Article, error) {
	if limit <= 0 {
		limit = 100
	}

	var articles []model.Article
	err := m.DB.WithContext(ctx).
		Where("status = ?", domain.StatusPendingDelete).
		Where("delete_scheduled_at <= ?", now).
		Order("delete_scheduled_at").
		Limit(int(limit)).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Article, len(articles))
	for i := range articles {
		res[i] = articles[i].ToDomain()
	}
	return res, nil
}

func (m *articleRepository) UpdateMeta(ctx context.Context, a *domain.Article, expected domain.ArticleStatus) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ? AND owner_id = ? AND status = ?", a.ID, a.OwnerID, expected).
		Updates(map[string]any{
			"title":       a.Title,
			"slug":        a.Slug,
			"cover_url":   a.CoverURL,
			"tags":        model.EncodeTags(a.Tags),
			"category_id": a.CategoryID,
			"status":      string(a.Status),
		})
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return domain.ErrConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) SetStatus(ctx context.Context, id int64, from, to domain.ArticleStatus) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", string(to))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) MarkPublished(ctx context.Context, id int64, from domain.ArticleStatus, publishedAt time.Time, firstPublished *time.Time) error {
	changes := map[string]any{
		"status":                    string(domain.StatusPublished),
		"published_at":              publishedAt,
		"pre_delete_status":         "",
		"deleted_at":                nil,
		"deleted_by":                0,
		"deleted_by_role":           "",
		"delete_scheduled_at":       nil,
		"delete_reason":             "",
		"restore_requested_at":      nil,
		"restore_requested_message": "",
	}
	if firstPublished != nil {
		changes["first_published_at"] = *firstPublished
	}

	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ? AND status = ?", id, from).
		Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) MarkDeleted(ctx context.Context, id int64, meta domain.DeletionMeta) error {
	// The expected prior status is the guard, which also keeps the
	// preDeleteStatus invariant exact under racing transitions.
	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ? AND status = ?", id, meta.PreDeleteStatus).
		Updates(map[string]any{
			"status":                    string(domain.StatusPendingDelete),
			"pre_delete_status":         string(meta.PreDeleteStatus),
			"deleted_at":                meta.DeletedAt,
			"deleted_by":                meta.DeletedBy,
			"deleted_by_role":           string(meta.DeletedByRole),
			"delete_scheduled_at":       meta.DeleteScheduledAt,
			"delete_reason":             meta.DeleteReason,
			"restore_requested_at":      nil,
			"restore_requested_message": "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) Restore(ctx context.Context, id int64, to domain.ArticleStatus) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ? AND status = ?", id, domain.StatusPendingDelete).
		Updates(map[string]any{
			"status":                    string(to),
			"pre_delete_status":         "",
			"deleted_at":                nil,
			"deleted_by":                0,
			"deleted_by_role":           "",
			"delete_scheduled_at":       nil,
			"delete_reason":             "",
			"restore_requested_at":      nil,
			"restore_requested_message": "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) SetRestoreRequested(ctx context.Context, id int64, at time.Time, message string) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ? AND status = ? AND deleted_by_role = ? AND restore_requested_at IS NULL",
			id, domain.StatusPendingDelete, domain.RoleAdmin).
		Updates(map[string]any{
			"restore_requested_at":      at,
			"restore_requested_message": message,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) SetAdminRemark(ctx context.Context, id int64, remark string) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ?", id).
		Update("admin_remark", remark)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) AddViews(ctx context.Context, id int64, delta int64) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) AddLikes(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ?", id).
		Update("likes_count", gorm.Expr("likes_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) DecrLikes(ctx context.Context, id int64) error {
	// The likes_count > 0 guard clamps at zero; matching no row here just
	// means the counter was already zero.
	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ? AND likes_count > 0", id).
		Update("likes_count", gorm.Expr("likes_count - 1"))
	return result.Error
}

func (m *articleRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.Article{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) DetachCategory(ctx context.Context, categoryID int64) error {
	return m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error
}

func (m *articleRepository) FetchIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	err := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error
	return ids, err
}

func (m *articleRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	return m.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Article{}).Error
}
