package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/rolemanagement/usermanager/docs"
	"github.com/rolemanagement/usermanager/internal/api/handler"
	"github.com/rolemanagement/usermanager/internal/api/middleware"
	"github.com/rolemanagement/usermanager/internal/core/domain"
	"github.com/rolemanagement/usermanager/internal/core/ports"
	"github.com/rolemanagement/usermanager/internal/core/service"
)

// uploadBodyLimit leaves room for multipart framing around a max-size image.
const uploadBodyLimit = "6M"

// Dependencies are the services and probes the router wires into handlers.
type Dependencies struct {
	Log          zerolog.Logger
	Users        ports.UserService
	Auth         ports.AuthService
	Pingers      map[string]handler.Pinger
	CookieSecure bool
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "usermanager",
		Registerer: deps.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users, deps.CookieSecure)
	userHandler := handler.NewUserHandler(deps.Users)
	profileHandler := handler.NewProfileHandler(deps.Users)
	uploadHandler := handler.NewUploadHandler(deps.Users)
	validateHandler := handler.NewValidateHandler()

	authenticated := middleware.Authenticate(deps.Auth)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	uploadLimit := echomiddleware.BodyLimit(uploadBodyLimit)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session, authenticated)

	// --- Public files ---
	e.GET(service.UploadURLPrefix+":key", uploadHandler.Serve)

	v1 := e.Group("/v1", authenticated)

	// --- Self service ---
	v1.GET("/profile", profileHandler.Get)
	v1.PUT("/profile", profileHandler.Update)
	v1.POST("/uploads", uploadHandler.Upload, uploadLimit)
	v1.POST("/validate/create", validateHandler.Create)
	v1.POST("/validate/update", validateHandler.Update)

	// --- Admin user management ---
	users := v1.Group("/users", adminOnly)
	users.GET("", userHandler.List)
	users.GET("/stats", userHandler.Stats)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.POST("/:id/avatar", userHandler.UploadAvatar, uploadLimit)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Pingers)

	e.GET("/health", healthHandler.Liveness)           // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
