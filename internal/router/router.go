package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/handler"
	"github.com/tsering10/OP-Final-Project/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account lifecycle endpoints.
// Unauthenticated operations live under /v1/auth; /v1/me requires a
// session.  The rate limit middleware (rl) guards the credential
// endpoints against brute forcing and may be nil in tests.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rl echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if rl != nil {
		g.Use(rl)
	}
	g.POST("/register", a.Register)
	g.POST("/register-chef", a.RegisterChef)
	g.GET("/activate/:token", a.Activate)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Logout with a bearer token revokes every session of the user.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the guest browse endpoints.  The response
// cache middleware may be nil when Redis is unavailable.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/recipes", p.LatestRecipes)
	g.GET("/search/recipes", p.SearchRecipes)
	g.GET("/workshops", p.ListWorkshops)
	g.GET("/workshops/:id", p.GetWorkshop)
}
