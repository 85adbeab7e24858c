package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	// Registers the OpenAPI document served under /swagger.
	_ "github.com/freelanza/freelanza-backend/docs"
	"github.com/freelanza/freelanza-backend/internal/api/handler"
	"github.com/freelanza/freelanza-backend/internal/api/middleware"
	"github.com/freelanza/freelanza-backend/internal/core/domain"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Auth        ports.AuthService
	Clients     ports.ClientService
	Freelancers ports.FreelancerService
	// Health serves /health and /health/ready. Optional.
	Health HealthProbes
	Logger zerolog.Logger
	// Metrics receives the HTTP collectors and backs /metrics. Defaults to
	// the global registry, which also holds the account metrics.
	Metrics *prometheus.Registry
	// LoginRatePerMinute caps token requests per client IP. Zero disables the limit.
	LoginRatePerMinute int
}

// HealthProbes answers liveness and readiness checks.
type HealthProbes interface {
	Liveness(c echo.Context) error
	Readiness(c echo.Context) error
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "freelanza",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	profileHandler := handler.NewProfileHandler(deps.Clients, deps.Freelancers)
	requireAuth := middleware.Auth(deps.Auth)

	v1 := e.Group("/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/token", authHandler.Token, loginRateLimiter(deps.LoginRatePerMinute)...)
	auth.GET("/validate", authHandler.Validate)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.PUT("/password", authHandler.ChangePassword, requireAuth)

	// --- Profile routes ---
	clients := v1.Group("/clients", requireAuth)
	clients.GET("/me", profileHandler.ClientMe, middleware.RBAC(domain.RoleClient))
	clients.GET("/:username", profileHandler.GetClient)

	freelancers := v1.Group("/freelancers", requireAuth)
	freelancers.GET("/me", profileHandler.FreelancerMe, middleware.RBAC(domain.RoleFreelancer))
	freelancers.GET("/:username", profileHandler.GetFreelancer)

	// --- Health probes (no auth required) ---
	if deps.Health != nil {
		e.GET("/health", deps.Health.Liveness)        // liveness  – is the process alive?
		e.GET("/health/ready", deps.Health.Readiness) // readiness – are dependencies up?
	}

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// loginRateLimiter throttles token requests per client IP so passwords
// cannot be brute forced through /v1/auth/token.
func loginRateLimiter(perMinute int) []echo.MiddlewareFunc {
	if perMinute <= 0 {
		return nil
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})}
}
