package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/domain"
)

// UserHandler serves the admin-only account lifecycle endpoints.
type UserHandler struct {
	Service domain.UserUsecase
}

func NewUserHandler(svc domain.UserUsecase) *UserHandler {
	return &UserHandler{
		Service: svc,
	}
}

// Delete soft-deletes an account
func (h *UserHandler) Delete(c *gin.Context) {
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

// Restore undoes a pending account deletion
func (h *UserHandler) Restore(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Service.Restore(c.Request.Context(), actor, id); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Purge hard-deletes an account and everything it owns
func (h *UserHandler) Purge(c *gin.Context) {
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
