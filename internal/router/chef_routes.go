package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/handler"
	"github.com/tsering10/OP-Final-Project/internal/middleware"
)

// RegisterChef registers CHEF-scoped endpoints under /v1/chef.
// All routes require a valid JWT and the CHEF role; ownership of the
// touched rows is enforced in the repositories.
func RegisterChef(e *echo.Echo, h *handler.ChefHandler, jwtSecret string) {
	g := e.Group(
		"/v1/chef",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CHEF"),
	)

	// ---- Categories ----
	g.GET("/categories", h.ListCategories)
	g.POST("/categories", h.CreateCategory)
	g.GET("/categories/:id", h.GetCategory)
	g.PUT("/categories/:id", h.UpdateCategory)
	g.DELETE("/categories/:id", h.DeleteCategory)

	// ---- Recipes ----
	g.GET("/recipes", h.ListRecipes)
	g.POST("/recipes", h.CreateRecipe)
	g.GET("/recipes/:id", h.GetRecipe)
	g.PUT("/recipes/:id", h.UpdateRecipe)
	g.DELETE("/recipes/:id", h.DeleteRecipe)

	// ---- Workshops ----
	g.GET("/workshops", h.ListWorkshops)
	g.POST("/workshops", h.CreateWorkshop)
	g.GET("/workshops/:id", h.GetWorkshop)
	g.PUT("/workshops/:id", h.UpdateWorkshop)
	g.DELETE("/workshops/:id", h.DeleteWorkshop)
	g.GET("/workshops/:id/registrations", h.WorkshopRoster)

	// ---- Profile / dashboard ----
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/dashboard", h.Dashboard)
}
