package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/domain"
)

// EngagementHandler serves the anonymous like endpoints. Identity is the
// request fingerprint, no login required.
type EngagementHandler struct {
	Service domain.EngagementUsecase
}

func NewEngagementHandler(svc domain.EngagementUsecase) *EngagementHandler {
	return &EngagementHandler{
		Service: svc,
	}
}

func clientIdentity(c *gin.Context) domain.ClientIdentity {
	return domain.ClientIdentity{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// Like registers the caller's vote; repeats are no-ops
func (h *EngagementHandler) Like(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	state, err := h.Service.Like(c.Request.Context(), id, clientIdentity(c))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

// Unlike withdraws the caller's vote; a no-op when none exists
func (h *EngagementHandler) Unlike(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	state, err := h.Service.Unlike(c.Request.Context(), id, clientIdentity(c))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetLikeState reports the count and whether the caller has liked
func (h *EngagementHandler) GetLikeState(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	state, err := h.Service.GetLikeState(c.Request.Context(), id, clientIdentity(c))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}
