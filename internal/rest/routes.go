package rest

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inkwell-cms/inkwell/internal/rest/middleware"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// RegisterValidations installs the custom binding validations on gin's
// validator engine. Call once before serving.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || slugPattern.MatchString(s)
		})
	}
}

// Handlers bundles everything RegisterRoutes wires up.
type Handlers struct {
	Article    *ArticleHandler
	Engagement *EngagementHandler
	Category   *CategoryHandler
	User       *UserHandler
}

// RegisterRoutes attaches all endpoints. Public reads need no identity;
// everything that mutates runs behind the actor middleware.
func RegisterRoutes(route *gin.Engine, h Handlers) {
	route.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public read path. OptionalActor lets owners and admins read their
	// non-PUBLISHED articles through the same routes.
	route.GET("/articles", h.Article.FetchPublished)
	route.GET("/articles/:id", middleware.OptionalActor(), h.Article.GetByID)
	route.GET("/authors/:owner/articles/:slug", middleware.OptionalActor(), h.Article.GetBySlug)

	// Anonymous engagement, keyed by fingerprint
	route.POST("/articles/:id/like", h.Engagement.Like)
	route.DELETE("/articles/:id/like", h.Engagement.Unlike)
	route.GET("/articles/:id/like", h.Engagement.GetLikeState)

	authorized := route.Group("/")
	authorized.Use(middleware.Actor())
	{
		authorized.GET("/my/articles", h.Article.FetchOwn)
		authorized.GET("/my/recycle-bin", h.Article.FetchRecycleBin)

		authorized.POST("/articles", h.Article.Create)
		authorized.PATCH("/articles/:id", h.Article.Update)
		authorized.POST("/articles/:id/publish", h.Article.Publish)
		authorized.POST("/articles/:id/unpublish", h.Article.Unpublish)
		authorized.POST("/articles/:id/draft", h.Article.SaveDraft)
		authorized.DELETE("/articles/:id", h.Article.Delete)
		authorized.POST("/articles/:id/restore", h.Article.Restore)
		authorized.POST("/articles/:id/restore-request", h.Article.RequestRestore)
		authorized.DELETE("/articles/:id/purge", h.Article.Purge)

		authorized.GET("/categories", h.Category.FetchOwn)
		authorized.POST("/categories", h.Category.Create)
		authorized.PATCH("/categories/:id", h.Category.Update)
		authorized.DELETE("/categories/:id", h.Category.Delete)
		authorized.POST("/categories/:id/restore", h.Category.Restore)
		authorized.DELETE("/categories/:id/purge", h.Category.Purge)
	}

	admin := route.Group("/admin")
	admin.Use(middleware.Actor(), middleware.RequireAdmin())
	{
		admin.PUT("/articles/:id/remark", h.Article.SetAdminRemark)
		admin.DELETE("/users/:id", h.User.Delete)
		admin.POST("/users/:id/restore", h.User.Restore)
		admin.DELETE("/users/:id/purge", h.User.Purge)
	}
}
