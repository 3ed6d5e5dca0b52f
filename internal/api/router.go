package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/rbacblog/blog-api/internal/api/handler"
	"github.com/rbacblog/blog-api/internal/api/middleware"
	"github.com/rbacblog/blog-api/internal/core/domain"
)

// Dependencies carries everything the router needs, wired up in main.
type Dependencies struct {
	Logger        zerolog.Logger
	Auth          *handler.AuthHandler
	Posts         *handler.PostHandler
	Health        *handler.HealthHandler
	Readiness     *handler.ReadinessHandler
	Authenticator *middleware.Authenticator
	// Metrics is the registry for HTTP metrics. When nil the process-wide
	// default registry is used; tests pass their own to avoid duplicate
	// collector registration across router instances.
	Metrics *prometheus.Registry
}

// NewRouter builds the echo instance with all routes and middleware attached.
//
// Route protection levels:
//   - public: register, login, post reads, health, metrics, swagger
//   - authenticated: me, logout
//   - admin only: post create, update, delete
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	if deps.Metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "blog",
			Registerer: deps.Metrics,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.Metrics,
		}))
	} else {
		e.Use(echoprometheus.NewMiddleware("blog"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	e.GET("/health", deps.Health.Liveness)
	e.GET("/health/ready", deps.Readiness.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authRequired := deps.Authenticator.Middleware()
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	auth := e.Group("/api/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)
	auth.GET("/me", deps.Auth.Me, authRequired)
	auth.POST("/logout", deps.Auth.Logout, authRequired)

	posts := e.Group("/api/posts")
	posts.GET("", deps.Posts.List)
	posts.GET("/:id", deps.Posts.Get)
	posts.POST("", deps.Posts.Create, authRequired, adminOnly)
	posts.PATCH("/:id", deps.Posts.Update, authRequired, adminOnly)
	posts.DELETE("/:id", deps.Posts.Delete, authRequired, adminOnly)

	return e
}
