package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-cms/inkwell/domain"
)

// The fakes embed the repository interfaces so only the methods a sweep
// touches need bodies.

type fakeArticles struct {
	domain.ArticleRepository

	purgeable  []domain.Article
	ownerIDs   map[int64][]int64
	deleted    []int64
	detached   []int64
	wipedOwner []int64
}

func (f *fakeArticles) FetchPurgeable(_ context.Context, _ time.Time, _ int64) ([]domain.Article, error) {
	return f.purgeable, nil
}

func (f *fakeArticles) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeArticles) DetachCategory(_ context.Context, categoryID int64) error {
	f.detached = append(f.detached, categoryID)
	return nil
}

func (f *fakeArticles) FetchIDsByOwner(_ context.Context, ownerID int64) ([]int64, error) {
	return f.ownerIDs[ownerID], nil
}

func (f *fakeArticles) DeleteByOwner(_ context.Context, ownerID int64) error {
	f.wipedOwner = append(f.wipedOwner, ownerID)
	return nil
}

type fakeContents struct {
	domain.ArticleContentRepository
	deleted []int64
	batches [][]int64
}

func (f *fakeContents) Delete(_ context.Context, articleID int64) error {
	f.deleted = append(f.deleted, articleID)
	return nil
}

func (f *fakeContents) DeleteByArticleIDs(_ context.Context, ids []int64) error {
	f.batches = append(f.batches, ids)
	return nil
}

type fakeLikes struct {
	domain.LikeRepository
	deleted []int64
	batches [][]int64
}

func (f *fakeLikes) DeleteByArticle(_ context.Context, articleID int64) error {
	f.deleted = append(f.deleted, articleID)
	return nil
}

func (f *fakeLikes) DeleteByArticleIDs(_ context.Context, ids []int64) error {
	f.batches = append(f.batches, ids)
	return nil
}

type fakeCategories struct {
	domain.CategoryRepository
	purgeable []domain.Category
	deleted   []int64
}

func (f *fakeCategories) FetchPurgeable(_ context.Context, _ time.Time, _ int64) ([]domain.Category, error) {
	return f.purgeable, nil
}

func (f *fakeCategories) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUsers struct {
	domain.UserRepository
	purgeable []domain.User
	deleted   []int64
}

func (f *fakeUsers) FetchPurgeable(_ context.Context, _ time.Time, _ int64) ([]domain.User, error) {
	return f.purgeable, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeReader struct {
	domain.ArticleDetailSource
	invalidated []int64
}

func (f *fakeReader) Invalidate(_ context.Context, id int64) {
	f.invalidated = append(f.invalidated, id)
}

type fakeSyncer struct {
	events []domain.SyncEvent
}

func (f *fakeSyncer) Start(context.Context) {}

func (f *fakeSyncer) Send(e domain.SyncEvent) {
	f.events = append(f.events, e)
}

func newSweepFixture() (*Purger, *fakeArticles, *fakeContents, *fakeLikes, *fakeCategories, *fakeUsers, *fakeReader, *fakeSyncer) {
	articles := &fakeArticles{ownerIDs: map[int64][]int64{}}
	contents := &fakeContents{}
	likes := &fakeLikes{}
	categories := &fakeCategories{}
	users := &fakeUsers{}
	reader := &fakeReader{}
	syncer := &fakeSyncer{}
	p := NewPurger(articles, contents, likes, categories, users, reader, syncer)
	return p, articles, contents, likes, categories, users, reader, syncer
}

func TestSweepPurgesExpiredArticles(t *testing.T) {
	p, articles, contents, likes, _, _, reader, syncer := newSweepFixture()
	articles.purgeable = []domain.Article{{ID: 7}, {ID: 9}}

	p.Run()

	assert.Equal(t, []int64{7, 9}, likes.deleted)
	assert.Equal(t, []int64{7, 9}, contents.deleted)
	assert.Equal(t, []int64{7, 9}, articles.deleted)
	assert.Equal(t, []int64{7, 9}, reader.invalidated)
	assert.Len(t, syncer.events, 2)
	for _, e := range syncer.events {
		assert.Equal(t, domain.SyncRemove, e.Action)
	}
}

func TestSweepDetachesCategoriesBeforeDelete(t *testing.T) {
	p, articles, _, _, categories, _, _, _ := newSweepFixture()
	categories.purgeable = []domain.Category{{ID: 3}}

	p.Run()

	assert.Equal(t, []int64{3}, articles.detached)
	assert.Equal(t, []int64{3}, categories.deleted)
}

func TestSweepCascadesUserPurge(t *testing.T) {
	p, articles, contents, likes, _, users, _, syncer := newSweepFixture()
	users.purgeable = []domain.User{{ID: 1}}
	articles.ownerIDs[1] = []int64{10, 11}

	p.Run()

	assert.Equal(t, [][]int64{{10, 11}}, likes.batches)
	assert.Equal(t, [][]int64{{10, 11}}, contents.batches)
	assert.Equal(t, []int64{1}, articles.wipedOwner)
	assert.Equal(t, []int64{1}, users.deleted)
	assert.Len(t, syncer.events, 2)
}

func TestSweepWithNothingDueIsQuiet(t *testing.T) {
	p, articles, contents, likes, categories, users, _, syncer := newSweepFixture()

	p.Run()

	assert.Empty(t, articles.deleted)
	assert.Empty(t, contents.deleted)
	assert.Empty(t, likes.deleted)
	assert.Empty(t, categories.deleted)
	assert.Empty(t, users.deleted)
	assert.Empty(t, syncer.events)
}

func TestSweepUserWithNoArticlesSkipsBatches(t *testing.T) {
	p, articles, contents, likes, _, users, _, _ := newSweepFixture()
	users.purgeable = []domain.User{{ID: 2}}

	p.Run()

	assert.Empty(t, likes.batches)
	assert.Empty(t, contents.batches)
	assert.Equal(t, []int64{2}, articles.wipedOwner)
	assert.Equal(t, []int64{2}, users.deleted)
}
