package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/repository"
	"github.com/tsering10/OP-Final-Project/internal/utils"
)

type recipeReq struct {
	CategoryID   uint64  `json:"category_id"`
	Title        string  `json:"title"`
	Ingredients  string  `json:"ingredients"`
	Instructions string  `json:"instructions"`
	PrepMinutes  uint32  `json:"prep_minutes"`
	ImageURL     *string `json:"image_url"`
	ExternalLink *string `json:"external_link"`
}

type recipeView struct {
	ID           uint64  `json:"id"`
	CategoryID   uint64  `json:"category_id"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Ingredients  string  `json:"ingredients"`
	Instructions string  `json:"instructions"`
	PrepMinutes  uint32  `json:"prep_minutes"`
	ImageURL     *string `json:"image_url,omitempty"`
	ExternalLink *string `json:"external_link,omitempty"`
}

func toRecipeView(r repository.Recipe) recipeView {
	return recipeView{
		ID:           r.ID,
		CategoryID:   r.CategoryID,
		Title:        r.Title,
		Slug:         r.Slug,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		PrepMinutes:  r.PrepMinutes,
		ImageURL:     r.ImageURL,
		ExternalLink: r.ExternalLink,
	}
}

func (h *ChefHandler) validateRecipeReq(req *recipeReq) string {
	req.Title = strings.TrimSpace(req.Title)
	switch {
	case req.Title == "":
		return "title required"
	case utils.Slugify(req.Title) == "":
		return "title must contain letters or digits"
	case req.CategoryID == 0:
		return "category_id required"
	case strings.TrimSpace(req.Ingredients) == "":
		return "ingredients required"
	case strings.TrimSpace(req.Instructions) == "":
		return "instructions required"
	}
	return ""
}

// CreateRecipe files a recipe under one of the chef's own categories.
func (h *ChefHandler) CreateRecipe(c echo.Context) error {
	var req recipeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := h.validateRecipeReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	// The category must belong to the same chef; a foreign category id is
	// reported as not found, never as forbidden, to avoid leaking tenancy.
	if _, err := h.Categories.GetByIDAndChef(ctx, req.CategoryID, chef.ID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load category failed"})
	}

	rec := repository.Recipe{
		ChefID:       chef.ID,
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Slug:         utils.Slugify(req.Title),
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepMinutes:  req.PrepMinutes,
		ImageURL:     req.ImageURL,
		ExternalLink: req.ExternalLink,
	}
	if err := h.Recipes.Create(ctx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create recipe failed"})
	}
	return c.JSON(http.StatusCreated, toRecipeView(rec))
}

// ListRecipes pages through the chef's recipes.
func (h *ChefHandler) ListRecipes(c echo.Context) error {
	page, pageSize := pageParams(c, 20, 100)

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	recipes, total, err := h.Recipes.ListByChefPaged(ctx, chef.ID, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list recipes failed"})
	}
	views := make([]recipeView, 0, len(recipes))
	for _, rec := range recipes {
		views = append(views, toRecipeView(rec))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"recipes":   views,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetRecipe returns one of the chef's recipes.
func (h *ChefHandler) GetRecipe(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	rec, err := h.Recipes.GetByIDAndChef(ctx, id, chef.ID)
	if err != nil {
		if err == repository.ErrRecipeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load recipe failed"})
	}
	return c.JSON(http.StatusOK, toRecipeView(rec))
}

// UpdateRecipe replaces the editable fields, including moving the recipe
// to another of the chef's categories.
func (h *ChefHandler) UpdateRecipe(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req recipeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := h.validateRecipeReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	if _, err := h.Categories.GetByIDAndChef(ctx, req.CategoryID, chef.ID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load category failed"})
	}

	rec := repository.Recipe{
		ID:           id,
		ChefID:       chef.ID,
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Slug:         utils.Slugify(req.Title),
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepMinutes:  req.PrepMinutes,
		ImageURL:     req.ImageURL,
		ExternalLink: req.ExternalLink,
	}
	if err := h.Recipes.Update(ctx, &rec); err != nil {
		if err == repository.ErrRecipeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update recipe failed"})
	}
	return c.JSON(http.StatusOK, toRecipeView(rec))
}

// DeleteRecipe removes one of the chef's recipes.
func (h *ChefHandler) DeleteRecipe(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	switch err := h.Recipes.Delete(ctx, id, chef.ID); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrRecipeNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete recipe failed"})
	}
}
