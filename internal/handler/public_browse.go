package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/repository"
)

// PublicHandler serves the guest-facing browse endpoints: the latest
// recipe feed, recipe search and the workshop catalogue.  These routes
// sit behind the Redis response cache.
type PublicHandler struct {
	Recipes   *repository.RecipeRepo
	Workshops *repository.WorkshopRepo
	Regs      *repository.RegistrationRepo
}

func NewPublicHandler(rec *repository.RecipeRepo, w *repository.WorkshopRepo,
	reg *repository.RegistrationRepo) *PublicHandler {
	return &PublicHandler{Recipes: rec, Workshops: w, Regs: reg}
}

func (h *PublicHandler) reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// LatestRecipes returns the most recently published recipes across all
// chefs, the content of the home feed.
func (h *PublicHandler) LatestRecipes(c echo.Context) error {
	_, limit := pageParams(c, 12, 50)

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	recipes, err := h.Recipes.ListLatest(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list recipes failed"})
	}
	views := make([]recipeView, 0, len(recipes))
	for _, rec := range recipes {
		views = append(views, toRecipeView(rec))
	}
	return c.JSON(http.StatusOK, echo.Map{"recipes": views})
}

// SearchRecipes performs the public recipe search across title,
// ingredients and category name.
func (h *PublicHandler) SearchRecipes(c echo.Context) error {
	page, pageSize := pageParams(c, 20, 100)
	q := repository.RecipeSearchQuery{
		Term:     strings.TrimSpace(c.QueryParam("q")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Page:     page,
		PageSize: pageSize,
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	hits, total, err := h.Recipes.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"recipes":   hits,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ListWorkshops returns the public workshop catalogue, newest date
// first.  Capacity here is the live remaining-seats figure.
func (h *PublicHandler) ListWorkshops(c echo.Context) error {
	page, pageSize := pageParams(c, 20, 100)

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	workshops, total, err := h.Workshops.ListPaged(ctx, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list workshops failed"})
	}
	views := make([]workshopView, 0, len(workshops))
	for _, w := range workshops {
		views = append(views, toWorkshopView(w))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"workshops": views,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetWorkshop returns the public detail view of one workshop together
// with the number of seats already taken.
func (h *PublicHandler) GetWorkshop(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	w, err := h.Workshops.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrWorkshopNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load workshop failed"})
	}
	attendees, err := h.Regs.CountActiveByWorkshop(ctx, w.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load workshop failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"workshop":  toWorkshopView(w),
		"attendees": attendees,
	})
}
