package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql" // pool pinged by the health check

	"github.com/labstack/echo/v4"                             // Echo web framework for routing
	"github.com/prometheus/client_golang/prometheus"          // metrics registry
	"github.com/prometheus/client_golang/prometheus/promhttp" // /metrics exposition

	"github.com/pwarnimont/filmdb2/internal/handler"    // HTTP handlers
	"github.com/pwarnimont/filmdb2/internal/middleware" // JWT authentication and role enforcement
	"github.com/pwarnimont/filmdb2/internal/model"      // roles
)

// RegisterRoutes registers routes that do not require authentication: the
// health check and the Prometheus scrape endpoint.  A nil gatherer leaves
// /metrics unregistered.
func RegisterRoutes(e *echo.Echo, db *sql.DB, gatherer prometheus.Gatherer) {
	e.GET("/healthz", handler.Health(db))
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// RegisterAuth registers all authentication-related routes.  Operations
// that do not need a session live under /v1/auth; /v1/me requires a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	// logout accepts a refresh token in the body or a bearer header and
	// therefore sits outside the JWT group
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	auth.GET("/me", a.Me)
}
