package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"wp-dispatch/cmd/api/handlers"
	"wp-dispatch/cmd/api/middleware"
	"wp-dispatch/cmd/api/services"
	_ "wp-dispatch/docs"
)

// Deps 는 라우터가 사용하는 서비스 묶음이다.
type Deps struct {
	Blogs   *services.BlogService
	Users   *services.UserService
	Publish *services.PublishService
	Favicon services.FaviconResolver

	// Ping 은 /health 에서 저장소 연결을 확인한다. nil 이면 생략한다.
	Ping func(ctx context.Context) error
	// Session 이 nil 이면 /api/v1 은 인증 없이 열린다.
	Session        middleware.TokenParser
	WebhookSecret  string
	MaxUploadBytes int64
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.RequestLogging())
	r.MaxMultipartMemory = d.MaxUploadBytes

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "storage": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/api/webhooks", handlers.IdentityWebhookHandler(d.Users, d.WebhookSecret))

	// v1 routes
	api := r.Group("/api/v1")
	api.Use(middleware.SessionAuth(d.Session))
	{
		wp := api.Group("/wordpress")
		wp.GET("", handlers.WordPressStatusHandler())
		wp.POST("/posts/:id", handlers.PublishPostHandler(d.Publish, d.MaxUploadBytes))
		wp.GET("/test/:id", handlers.TestConnectionHandler(d.Publish))
		wp.GET("/diagnostics/:id", handlers.DiagnosticsHandler(d.Publish))

		api.GET("/blogs", handlers.ListBlogsHandler(d.Blogs))
		api.POST("/blogs", handlers.CreateBlogHandler(d.Blogs))
		api.GET("/blogs/:id", handlers.GetBlogHandler(d.Blogs))
		api.PUT("/blogs/:id", handlers.UpdateBlogHandler(d.Blogs))
		api.DELETE("/blogs/:id", handlers.DeleteBlogHandler(d.Blogs))
		api.GET("/me/blogs", handlers.ListMyBlogsHandler(d.Users, d.Blogs))

		api.GET("/users", handlers.ListUsersHandler(d.Users))
		api.POST("/users", handlers.CreateUserHandler(d.Users))
		api.GET("/users/:id", handlers.GetUserHandler(d.Users))
		api.PUT("/users/:id", handlers.UpdateUserHandler(d.Users))
		api.DELETE("/users/:id", handlers.DeleteUserHandler(d.Users))
		api.GET("/users/:id/blogs", handlers.ListUserBlogsHandler(d.Blogs))

		api.POST("/utils/extract-favicon", handlers.ExtractFaviconHandler(d.Favicon))
	}

	return r
}
