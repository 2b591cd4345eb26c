package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/marketplace/classifieds/docs"
	"github.com/marketplace/classifieds/internal/api/handler"
	"github.com/marketplace/classifieds/internal/api/middleware"
	"github.com/marketplace/classifieds/internal/core/ports"
)

const metricsNamespace = "classifieds"

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Auth     ports.AuthService
	Sessions ports.SessionService
	Listings ports.ListingService
	Cookie   *middleware.SessionCookie

	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handler.DependencyCheck

	// Registerer and Gatherer back the HTTP metrics and /metrics.
	// Nil means the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Registerer: d.Registerer,
	}))
	e.Use(middleware.Session(d.Cookie, d.Sessions))

	// --- Operational endpoints ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireUser := middleware.RequireUser()

	// --- Accounts ---
	auth := handler.NewAuthHandler(d.Auth, d.Sessions, d.Cookie, d.Logger.With().Str("component", "auth").Logger())
	e.GET("/login", auth.LoginForm)
	e.POST("/login", auth.Login)
	e.GET("/logout", auth.Logout)
	e.GET("/signup", auth.SignupForm)
	e.POST("/signup", auth.Signup)
	e.GET("/adminaccess", auth.AdminForm, requireUser)
	e.POST("/adminaccess", auth.GrantAdmin, requireUser)

	// --- Posts ---
	posts := handler.NewPostHandler(d.Listings)
	e.GET("/", posts.Index)
	e.GET("/post/:id", posts.Show)
	e.GET("/createpost", posts.CreateForm, requireUser)
	e.POST("/createpost", posts.Create, requireUser)
	e.GET("/update/:id", posts.EditForm, requireUser)
	e.POST("/update/:id", posts.Update, requireUser)
	e.GET("/yourlistings/:id", posts.OwnerListings)

	// --- Categories ---
	categories := handler.NewCategoryHandler(d.Listings)
	e.GET("/categories", categories.List)
	e.GET("/categories/:id", categories.Show)
	e.GET("/createcategory", categories.CreateForm)
	e.POST("/createcategory", categories.Create)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
