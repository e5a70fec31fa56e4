package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/rest/middleware"
)

func actorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Actor())
	router.GET("/whoami", func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": string(actor.Role)})
	})
	return router
}

func TestActor_ResolvesFromHeaders(t *testing.T) {
	router := actorRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.UserIDHeader, "42")
	req.Header.Set(middleware.UserRoleHeader, "author")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"role":"author"}`, w.Body.String())
}

func TestActor_RejectsMissingIdentity(t *testing.T) {
	router := actorRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActor_RejectsUnknownRole(t *testing.T) {
	router := actorRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.UserIDHeader, "42")
	req.Header.Set(middleware.UserRoleHeader, "superuser")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func optionalActorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.OptionalActor())
	router.GET("/whoami", func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": string(actor.Role)})
	})
	return router
}

func TestOptionalActor_ResolvesFromHeaders(t *testing.T) {
	router := optionalActorRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.UserIDHeader, "42")
	req.Header.Set(middleware.UserRoleHeader, "admin")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"role":"admin"}`, w.Body.String())
}

func TestOptionalActor_PassesAnonymousThrough(t *testing.T) {
	router := optionalActorRouter()

	for _, headers := range []map[string]string{
		{},
		{middleware.UserIDHeader: "not-a-number", middleware.UserRoleHeader: "author"},
		{middleware.UserIDHeader: "42", middleware.UserRoleHeader: "superuser"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Actor(), middleware.RequireAdmin())
	router.GET("/admin-only", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set(middleware.UserIDHeader, "1")
	req.Header.Set(middleware.UserRoleHeader, string(domain.RoleAuthor))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set(middleware.UserIDHeader, "1")
	req.Header.Set(middleware.UserRoleHeader, string(domain.RoleAdmin))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": middleware.GetRequestID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	requestID := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, requestID, 36)
}

func TestRequestID_UsesClientProvidedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(middleware.RequestIDHeader, "gateway-id-12345")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "gateway-id-12345", w.Header().Get(middleware.RequestIDHeader))
}
