package category_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/usecase/category"
)

type memCategories struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Category
}

func newMemCategories() *memCategories {
	return &memCategories{nextID: 1, rows: map[int64]domain.Category{}}
}

func (m *memCategories) Store(_ context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id int64) (domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *memCategories) FetchByOwner(_ context.Context, ownerID int64) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, c := range m.rows {
		if c.OwnerID == ownerID && c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCategories) Update(_ context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[c.ID]
	if !ok || cur.OwnerID != c.OwnerID {
		return domain.ErrNotFound
	}
	cur.Name = c.Name
	cur.Slug = c.Slug
	m.rows[c.ID] = cur
	return nil
}

func (m *memCategories) MarkDeleted(_ context.Context, id int64, deletedAt, scheduledAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || c.DeletedAt != nil {
		return domain.ErrNotFound
	}
	c.DeletedAt = &deletedAt
	c.DeleteScheduledAt = &scheduledAt
	m.rows[id] = c
	return nil
}

func (m *memCategories) Restore(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || c.DeletedAt == nil {
		return domain.ErrNotFound
	}
	c.DeletedAt = nil
	c.DeleteScheduledAt = nil
	m.rows[id] = c
	return nil
}

func (m *memCategories) FetchPurgeable(_ context.Context, now time.Time, _ int64) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, c := range m.rows {
		if c.DeleteScheduledAt != nil && !c.DeleteScheduledAt.After(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCategories) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// detachRecorder implements just enough of the article repository for the
// category purge path.
type detachRecorder struct {
	domain.ArticleRepository
	mu       sync.Mutex
	detached []int64
}

func (d *detachRecorder) DetachCategory(_ context.Context, categoryID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detached = append(d.detached, categoryID)
	return nil
}

var (
	author = domain.Actor{ID: 1, Role: domain.RoleAuthor}
	rival  = domain.Actor{ID: 2, Role: domain.RoleAuthor}
)

func newService(repo *memCategories, articles *detachRecorder) *category.Service {
	return category.NewService(repo, articles, 15)
}

func TestCreateAndRename(t *testing.T) {
	repo := newMemCategories()
	svc := newService(repo, &detachRecorder{})
	ctx := context.Background()

	c, err := svc.Create(ctx, author, "Cloud Native")
	require.NoError(t, err)
	assert.Equal(t, "cloud-native", c.Slug)

	renamed, err := svc.Update(ctx, author, c.ID, "Platform Engineering")
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineering", renamed.Name)
	assert.Equal(t, "platform-engineering", renamed.Slug)
}

func TestCreateBlankNameRejected(t *testing.T) {
	svc := newService(newMemCategories(), &detachRecorder{})
	_, err := svc.Create(context.Background(), author, "   ")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestOwnershipHidesForeignCategories(t *testing.T) {
	repo := newMemCategories()
	svc := newService(repo, &detachRecorder{})
	ctx := context.Background()

	c, err := svc.Create(ctx, author, "Mine")
	require.NoError(t, err)

	_, err = svc.Update(ctx, rival, c.ID, "Stolen")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = svc.Delete(ctx, rival, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteRestoreRoundTrip(t *testing.T) {
	repo := newMemCategories()
	svc := newService(repo, &detachRecorder{})
	ctx := context.Background()

	c, err := svc.Create(ctx, author, "Ephemeral")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, author, c.ID))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	assert.WithinDuration(t, got.DeletedAt.AddDate(0, 0, 15), *got.DeleteScheduledAt, time.Second)

	// Gone from the live listing while pending delete.
	live, err := svc.FetchOwn(ctx, author)
	require.NoError(t, err)
	assert.Empty(t, live)

	// Double delete is a state error, not a silent no-op.
	assert.ErrorIs(t, svc.Delete(ctx, author, c.ID), domain.ErrInvalidState)

	restored, err := svc.Restore(ctx, author, c.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	live, err = svc.FetchOwn(ctx, author)
	require.NoError(t, err)
	assert.Len(t, live, 1)
}

func TestPurgeDetachesArticlesFirst(t *testing.T) {
	repo := newMemCategories()
	articles := &detachRecorder{}
	svc := newService(repo, articles)
	ctx := context.Background()

	c, err := svc.Create(ctx, author, "Doomed")
	require.NoError(t, err)

	// Purging a live category is rejected.
	assert.ErrorIs(t, svc.Purge(ctx, author, c.ID), domain.ErrInvalidState)

	require.NoError(t, svc.Delete(ctx, author, c.ID))
	require.NoError(t, svc.Purge(ctx, author, c.ID))

	assert.Equal(t, []int64{c.ID}, articles.detached)
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
