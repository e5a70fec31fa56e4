package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/rest"
	"github.com/inkwell-cms/inkwell/internal/rest/middleware"
)

// stubUsecase returns canned results; each test swaps in what it needs.
type stubUsecase struct {
	domain.ArticleUsecase

	article    domain.Article
	detail     domain.ArticleDetail
	err        error
	gotActor   domain.Actor
	gotViewer  domain.Actor
	gotInput   domain.CreateArticleInput
	gotDelete  domain.DeleteArticleInput
	gotMessage string
}

func (s *stubUsecase) Create(_ context.Context, actor domain.Actor, in domain.CreateArticleInput) (domain.Article, error) {
	s.gotActor = actor
	s.gotInput = in
	return s.article, s.err
}

func (s *stubUsecase) Publish(_ context.Context, actor domain.Actor, _ int64) (domain.Article, error) {
	s.gotActor = actor
	return s.article, s.err
}

func (s *stubUsecase) Delete(_ context.Context, actor domain.Actor, _ int64, in domain.DeleteArticleInput) error {
	s.gotActor = actor
	s.gotDelete = in
	return s.err
}

func (s *stubUsecase) Restore(_ context.Context, actor domain.Actor, _ int64) (domain.Article, error) {
	s.gotActor = actor
	return s.article, s.err
}

func (s *stubUsecase) RequestRestore(_ context.Context, actor domain.Actor, _ int64, message string) error {
	s.gotActor = actor
	s.gotMessage = message
	return s.err
}

func (s *stubUsecase) DetailByID(_ context.Context, viewer domain.Actor, _ int64, _ string) (domain.ArticleDetail, error) {
	s.gotViewer = viewer
	return s.detail, s.err
}

func newRouter(svc domain.ArticleUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := rest.NewArticleHandler(svc)

	router.GET("/articles/:id", middleware.OptionalActor(), h.GetByID)
	authorized := router.Group("/")
	authorized.Use(middleware.Actor())
	{
		authorized.POST("/articles", h.Create)
		authorized.POST("/articles/:id/publish", h.Publish)
		authorized.DELETE("/articles/:id", h.Delete)
		authorized.POST("/articles/:id/restore", h.Restore)
		authorized.POST("/articles/:id/restore-request", h.RequestRestore)
	}
	return router
}

func asAuthor(req *http.Request) *http.Request {
	req.Header.Set(middleware.UserIDHeader, "1")
	req.Header.Set(middleware.UserRoleHeader, "author")
	return req
}

func TestCreateResolvesActorFromHeaders(t *testing.T) {
	svc := &stubUsecase{article: domain.Article{ID: 5, Title: "T", Status: domain.StatusDraft}}
	router := newRouter(svc)

	body := `{"title":"T","markdown":"# hi"}`
	req := asAuthor(httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(1), svc.gotActor.ID)
	assert.Equal(t, domain.RoleAuthor, svc.gotActor.Role)
	assert.Equal(t, "T", svc.gotInput.Title)
}

func TestCreateRejectsMissingTitle(t *testing.T) {
	router := newRouter(&stubUsecase{})

	req := asAuthor(httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{"markdown":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRejectsAnonymous(t *testing.T) {
	router := newRouter(&stubUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{"title":"T"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"invalid state", domain.ErrInvalidState, http.StatusConflict},
		{"markdown required", domain.ErrMarkdownRequired, http.StatusBadRequest},
		{"internal", domain.ErrInternalServerError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(&stubUsecase{err: tc.err})

			req := asAuthor(httptest.NewRequest(http.MethodPost, "/articles/3/publish", nil))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRestoreOfAdminDeleteMapsToConflict(t *testing.T) {
	router := newRouter(&stubUsecase{err: domain.ErrRestoreRequiresRequest})

	req := asAuthor(httptest.NewRequest(http.MethodPost, "/articles/3/restore", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrRestoreRequiresRequest.Error())
}

func TestDeleteWithEmptyBodyUsesDefaults(t *testing.T) {
	svc := &stubUsecase{}
	router := newRouter(svc)

	req := asAuthor(httptest.NewRequest(http.MethodDelete, "/articles/3", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, svc.gotDelete.GraceDays)
}

func TestDeleteWithGraceDays(t *testing.T) {
	svc := &stubUsecase{}
	router := newRouter(svc)

	body := `{"grace_days":3,"reason":"rewrite"}`
	req := asAuthor(httptest.NewRequest(http.MethodDelete, "/articles/3", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 3, svc.gotDelete.GraceDays)
	assert.Equal(t, "rewrite", svc.gotDelete.Reason)
}

func TestRequestRestoreAccepted(t *testing.T) {
	svc := &stubUsecase{}
	router := newRouter(svc)

	body := `{"message":"please"}`
	req := asAuthor(httptest.NewRequest(http.MethodPost, "/articles/3/restore-request", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "please", svc.gotMessage)
}

func TestGetByIDBadParam(t *testing.T) {
	router := newRouter(&stubUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/articles/not-a-number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByIDServesDetail(t *testing.T) {
	svc := &stubUsecase{detail: domain.ArticleDetail{
		Article: domain.Article{ID: 3, Slug: "hello", Status: domain.StatusPublished},
		Content: domain.ArticleContent{Markdown: "# h", HTML: "<h1>h</h1>"},
	}}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/articles/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// gin HTML-escapes JSON output, so decode instead of matching raw text.
	var body struct {
		Slug string `json:"slug"`
		HTML string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "hello", body.Slug)
	assert.Equal(t, "<h1>h</h1>", body.HTML)

	// No identity headers: the stub saw an anonymous viewer.
	assert.Zero(t, svc.gotViewer)
}

func TestGetByIDForwardsViewerIdentity(t *testing.T) {
	svc := &stubUsecase{detail: domain.ArticleDetail{
		Article: domain.Article{ID: 3, OwnerID: 1, Status: domain.StatusDraft},
	}}
	router := newRouter(svc)

	req := asAuthor(httptest.NewRequest(http.MethodGet, "/articles/3", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), svc.gotViewer.ID)
	assert.Equal(t, domain.RoleAuthor, svc.gotViewer.Role)
}
