package user_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/usecase/user"
)

type memUsers struct {
	mu   sync.Mutex
	rows map[int64]domain.User
}

func newMemUsers(users ...domain.User) *memUsers {
	m := &memUsers{rows: map[int64]domain.User{}}
	for _, u := range users {
		m.rows[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByID(_ context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByIDs(_ context.Context, ids []int64) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, id := range ids {
		if u, ok := m.rows[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) MarkDeleted(_ context.Context, id int64, deletedAt, scheduledAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok || u.DeletedAt != nil {
		return domain.ErrNotFound
	}
	u.DeletedAt = &deletedAt
	u.DeleteScheduledAt = &scheduledAt
	m.rows[id] = u
	return nil
}

func (m *memUsers) Restore(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok || u.DeletedAt == nil {
		return domain.ErrNotFound
	}
	u.DeletedAt = nil
	u.DeleteScheduledAt = nil
	m.rows[id] = u
	return nil
}

func (m *memUsers) FetchPurgeable(_ context.Context, now time.Time, _ int64) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.rows {
		if u.DeleteScheduledAt != nil && !u.DeleteScheduledAt.After(now) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// cascadeRecorder captures the cascade calls the purge issues, embedding the
// interface so only the methods under test need bodies.
type cascadeRecorder struct {
	domain.ArticleRepository

	ownerIDs      []int64
	deletedOwners []int64
}

func (c *cascadeRecorder) FetchIDsByOwner(_ context.Context, ownerID int64) ([]int64, error) {
	c.ownerIDs = append(c.ownerIDs, ownerID)
	return []int64{10, 11}, nil
}

func (c *cascadeRecorder) DeleteByOwner(_ context.Context, ownerID int64) error {
	c.deletedOwners = append(c.deletedOwners, ownerID)
	return nil
}

type likeBatchRecorder struct {
	domain.LikeRepository
	batches [][]int64
}

func (r *likeBatchRecorder) DeleteByArticleIDs(_ context.Context, ids []int64) error {
	r.batches = append(r.batches, ids)
	return nil
}

type contentBatchRecorder struct {
	domain.ArticleContentRepository
	batches [][]int64
}

func (r *contentBatchRecorder) DeleteByArticleIDs(_ context.Context, ids []int64) error {
	r.batches = append(r.batches, ids)
	return nil
}

var (
	admin  = domain.Actor{ID: 99, Role: domain.RoleAdmin}
	author = domain.Actor{ID: 1, Role: domain.RoleAuthor}
)

func TestDeleteRequiresAdmin(t *testing.T) {
	users := newMemUsers(domain.User{ID: 1, Username: "alice", Role: domain.RoleAuthor})
	svc := user.NewService(users, &cascadeRecorder{}, &contentBatchRecorder{}, &likeBatchRecorder{}, 15)

	err := svc.Delete(context.Background(), author, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteRestoreRoundTrip(t *testing.T) {
	users := newMemUsers(domain.User{ID: 1, Username: "alice", Role: domain.RoleAuthor})
	svc := user.NewService(users, &cascadeRecorder{}, &contentBatchRecorder{}, &likeBatchRecorder{}, 15)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, admin, 1))

	got, err := users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	assert.WithinDuration(t, got.DeletedAt.AddDate(0, 0, 15), *got.DeleteScheduledAt, time.Second)

	assert.ErrorIs(t, svc.Delete(ctx, admin, 1), domain.ErrInvalidState)

	require.NoError(t, svc.Restore(ctx, admin, 1))
	got, err = users.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got.DeletedAt)

	assert.ErrorIs(t, svc.Restore(ctx, admin, 1), domain.ErrInvalidState)
}

func TestPurgeCascadesChildrenFirst(t *testing.T) {
	users := newMemUsers(domain.User{ID: 1, Username: "alice", Role: domain.RoleAuthor})
	articles := &cascadeRecorder{}
	likes := &likeBatchRecorder{}
	contents := &contentBatchRecorder{}
	svc := user.NewService(users, articles, contents, likes, 15)
	ctx := context.Background()

	require.NoError(t, svc.Purge(ctx, admin, 1))

	assert.Equal(t, []int64{1}, articles.ownerIDs)
	require.Len(t, likes.batches, 1)
	assert.Equal(t, []int64{10, 11}, likes.batches[0])
	require.Len(t, contents.batches, 1)
	assert.Equal(t, []int64{10, 11}, contents.batches[0])
	assert.Equal(t, []int64{1}, articles.deletedOwners)

	_, err := users.GetByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurgeRequiresAdmin(t *testing.T) {
	users := newMemUsers(domain.User{ID: 1, Username: "alice", Role: domain.RoleAuthor})
	svc := user.NewService(users, &cascadeRecorder{}, &contentBatchRecorder{}, &likeBatchRecorder{}, 15)

	err := svc.Purge(context.Background(), author, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
