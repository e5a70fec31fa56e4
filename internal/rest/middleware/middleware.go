// Package middleware provides the HTTP middleware stack: CORS, request
// timeout, request IDs, actor resolution and Prometheus instrumentation.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell-cms/inkwell/domain"
	"github.com/inkwell-cms/inkwell/internal/metrics"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the context key for request ID
	RequestIDKey = "request_id"

	// Identity headers stamped by the upstream gateway after authentication.
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"

	actorKey = "actor"
)

// CORS allows cross-origin requests from the authoring frontend.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SetRequestContextWithTimeout bounds every request's context.
func SetRequestContextWithTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestID attaches a unique ID to each request. A client-provided
// X-Request-ID is kept so the gateway's ID survives into our logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID retrieves the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// Metrics records Prometheus metrics for HTTP requests.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// Actor resolves the calling identity from the gateway's trusted headers and
// rejects requests without one. Authentication itself happens upstream.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader(UserIDHeader), 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		role := domain.Role(c.GetHeader(UserRoleHeader))
		if role != domain.RoleAdmin && role != domain.RoleAuthor {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown role"})
			return
		}

		c.Set(actorKey, domain.Actor{ID: id, Role: role})
		c.Next()
	}
}

// OptionalActor resolves the calling identity when the gateway stamped one,
// and lets anonymous requests through. Used on public read routes so owners
// and admins still see their non-public articles.
func OptionalActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader(UserIDHeader), 10, 64)
		role := domain.Role(c.GetHeader(UserRoleHeader))
		if err == nil && id > 0 && (role == domain.RoleAdmin || role == domain.RoleAuthor) {
			c.Set(actorKey, domain.Actor{ID: id, Role: role})
		}
		c.Next()
	}
}

// RequireAdmin aborts unless the resolved actor holds admin authority.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domain.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

// GetActor retrieves the resolved actor from the gin context.
func GetActor(c *gin.Context) (domain.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
