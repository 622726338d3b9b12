package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type chefProfileReq struct {
	ChefName  string `json:"chef_name"`
	Bio       string `json:"bio"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateProfile updates the chef display profile and the underlying user
// names in one request, the way the profile form submits them.
func (h *ChefHandler) UpdateProfile(c echo.Context) error {
	var req chefProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ChefName = strings.TrimSpace(req.ChefName)
	if req.ChefName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "chef_name required"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	if err := h.Chefs.Update(ctx, chef.ID, req.ChefName, strings.TrimSpace(req.Bio)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	if err := h.Users.UpdateNames(ctx, chef.UserID,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

// Dashboard returns the chef's headline counts plus the first page of
// their recipes, mirroring the landing page of the content builder.
func (h *ChefHandler) Dashboard(c echo.Context) error {
	page, pageSize := pageParams(c, 10, 50)

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}

	categories, err := h.Categories.CountByChef(ctx, chef.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load dashboard failed"})
	}
	recipesTotal, err := h.Recipes.CountByChef(ctx, chef.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load dashboard failed"})
	}
	recipes, _, err := h.Recipes.ListByChefPaged(ctx, chef.ID, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load dashboard failed"})
	}
	workshops, err := h.Workshops.ListByChef(ctx, chef.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load dashboard failed"})
	}

	views := make([]recipeView, 0, len(recipes))
	for _, rec := range recipes {
		views = append(views, toRecipeView(rec))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"chef": echo.Map{
			"id":        chef.ID,
			"chef_name": chef.ChefName,
			"bio":       chef.Bio,
		},
		"counts": echo.Map{
			"categories": categories,
			"recipes":    recipesTotal,
			"workshops":  len(workshops),
		},
		"recipes":   views,
		"page":      page,
		"page_size": pageSize,
	})
}
