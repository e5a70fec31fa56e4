package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/rest/request"
	"github.com/inkwell-cms/inkwell/internal/rest/response"
)

// CategoryHandler represent the http handler for categories
type CategoryHandler struct {
	Service domain.CategoryUsecase
}

func NewCategoryHandler(svc domain.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{
		Service: svc,
	}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req request.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.Service.Create(c.Request.Context(), actor, req.Name)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response.NewCategoryFromDomain(&cat))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.Service.Update(c.Request.Context(), actor, id, req.Name)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewCategoryFromDomain(&cat))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), actor, id); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) Restore(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	cat, err := h.Service.Restore(c.Request.Context(), actor, id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewCategoryFromDomain(&cat))
}

func (h *CategoryHandler) Purge(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Service.Purge(c.Request.Context(), actor, id); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) FetchOwn(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	list, err := h.Service.FetchOwn(c.Request.Context(), actor)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Category, len(list))
	for i := range list {
		res[i] = response.NewCategoryFromDomain(&list[i])
	}
	c.JSON(http.StatusOK, res)
}
