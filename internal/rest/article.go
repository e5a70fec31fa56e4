package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/metrics"
	"github.com/inkwell-cms/inkwell/internal/rest/middleware"
	"github.com/inkwell-cms/inkwell/internal/rest/request"
	"github.com/inkwell-cms/inkwell/internal/rest/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

const (
	DefaultPageNum = 10
	PageMinNum     = 5
	PageMaxNum     = 50

	DefaultBinLimit = 50
	BinMax          = 200
)

// ArticleHandler represent the http handler for the article lifecycle
type ArticleHandler struct {
	Service domain.ArticleUsecase
}

func NewArticleHandler(svc domain.ArticleUsecase) *ArticleHandler {
	return &ArticleHandler{
		Service: svc,
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

func mustActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return domain.Actor{}, false
	}
	return actor, true
}

// Create stores a new draft
func (a *ArticleHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req request.CreateArticle
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	art, err := a.Service.Create(c.Request.Context(), actor, req.ToDomain())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response.NewArticleFromDomain(&art))
}

// Update applies a partial edit to the article
func (a *ArticleHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.UpdateArticle
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	art, err := a.Service.Update(c.Request.Context(), actor, id, req.ToDomain())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewArticleFromDomain(&art))
}

// transition runs one of the plain status transitions and renders the result.
func (a *ArticleHandler) transition(c *gin.Context, op string, fn func(actor domain.Actor, id int64) (domain.Article, error)) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	art, err := fn(actor, id)
	metrics.ObserveTransition(op, err)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewArticleFromDomain(&art))
}

func (a *ArticleHandler) Publish(c *gin.Context) {
	a.transition(c, "publish", func(actor domain.Actor, id int64) (domain.Article, error) {
		return a.Service.Publish(c.Request.Context(), actor, id)
	})
}

func (a *ArticleHandler) Unpublish(c *gin.Context) {
	a.transition(c, "unpublish", func(actor domain.Actor, id int64) (domain.Article, error) {
		return a.Service.Unpublish(c.Request.Context(), actor, id)
	})
}

func (a *ArticleHandler) SaveDraft(c *gin.Context) {
	a.transition(c, "save_draft", func(actor domain.Actor, id int64) (domain.Article, error) {
		return a.Service.SaveDraft(c.Request.Context(), actor, id)
	})
}

func (a *ArticleHandler) Restore(c *gin.Context) {
	a.transition(c, "restore", func(actor domain.Actor, id int64) (domain.Article, error) {
		return a.Service.Restore(c.Request.Context(), actor, id)
	})
}

// Delete soft-deletes published articles and hard-deletes drafts
func (a *ArticleHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	// An empty body means the default grace period.
	var req request.DeleteArticle
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	err := a.Service.Delete(c.Request.Context(), actor, id, req.ToDomain())
	metrics.ObserveTransition("delete", err)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestRestore lets the author contest an admin delete
func (a *ArticleHandler) RequestRestore(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.RestoreRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	err := a.Service.RequestRestore(c.Request.Context(), actor, id, req.Message)
	metrics.ObserveTransition("request_restore", err)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusAccepted)
}

// Purge removes a recycle-bin article immediately
func (a *ArticleHandler) Purge(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := a.Service.Purge(c.Request.Context(), actor, id)
	metrics.ObserveTransition("purge", err)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// SetAdminRemark annotates an article; admin only
func (a *ArticleHandler) SetAdminRemark(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.AdminRemark
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Service.SetAdminRemark(c.Request.Context(), actor, id, req.Remark); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetByID serves the article detail read path
func (a *ArticleHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	viewer, _ := middleware.GetActor(c)
	detail, err := a.Service.DetailByID(c.Request.Context(), viewer, id, c.ClientIP())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewArticleDetailFromDomain(&detail))
}

// GetBySlug serves the public permalink read path
func (a *ArticleHandler) GetBySlug(c *gin.Context) {
	ownerID, err := strconv.ParseInt(c.Param("owner"), 10, 64)
	if err != nil || ownerID <= 0 {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}
	slug := c.Param("slug")

	viewer, _ := middleware.GetActor(c)
	detail, err := a.Service.DetailBySlug(c.Request.Context(), viewer, ownerID, slug, c.ClientIP())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewArticleDetailFromDomain(&detail))
}

// FetchPublished lists PUBLISHED articles across all owners
func (a *ArticleHandler) FetchPublished(c *gin.Context) {
	num := pageNum(c)
	cursor := c.Query("cursor")

	listAr, nextCursor, err := a.Service.FetchPublished(c.Request.Context(), cursor, num)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Article, len(listAr))
	for i := range listAr {
		res[i] = response.NewArticleFromDomain(&listAr[i])
	}
	c.Header(`X-cursor`, nextCursor)
	c.JSON(http.StatusOK, res)
}

// FetchOwn lists the caller's articles, optionally filtered by status
func (a *ArticleHandler) FetchOwn(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	num := pageNum(c)
	cursor := c.Query("cursor")

	var statuses []domain.ArticleStatus
	if s := c.Query("status"); s != "" {
		for _, part := range strings.Split(s, ",") {
			statuses = append(statuses, domain.ArticleStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}

	listAr, nextCursor, err := a.Service.FetchOwn(c.Request.Context(), actor, statuses, cursor, num)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Article, len(listAr))
	for i := range listAr {
		res[i] = response.NewArticleFromDomain(&listAr[i])
	}
	c.Header(`X-cursor`, nextCursor)
	c.JSON(http.StatusOK, res)
}

// FetchRecycleBin lists soft-deleted articles; admins see every owner's
func (a *ArticleHandler) FetchRecycleBin(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	limit, err := strconv.ParseInt(c.Query("limit"), 10, 64)
	if err != nil || limit <= 0 || limit > BinMax {
		limit = DefaultBinLimit
	}

	listAr, err := a.Service.FetchRecycleBin(c.Request.Context(), actor, limit)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Article, len(listAr))
	for i := range listAr {
		res[i] = response.NewArticleFromDomain(&listAr[i])
	}
	c.JSON(http.StatusOK, res)
}

func pageNum(c *gin.Context) int64 {
	num, err := strconv.Atoi(c.Query("num"))
	if err != nil || num < PageMinNum || num > PageMaxNum {
		return DefaultPageNum
	}
	return int64(num)
}

// getStatusCode maps domain errors onto HTTP status codes
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadParamInput),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrMarkdownRequired):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrRestoreRequiresRequest):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
