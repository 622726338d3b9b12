package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/repository"
	"github.com/tsering10/OP-Final-Project/internal/utils"
)

type categoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryView struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func toCategoryView(c repository.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

// ListCategories returns the chef's categories.
func (h *ChefHandler) ListCategories(c echo.Context) error {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	cats, err := h.Categories.ListByChef(ctx, chef.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list categories failed"})
	}
	out := make([]categoryView, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryView(cat))
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": out})
}

// CreateCategory adds a category; the slug is derived from the name.
func (h *ChefHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	slug := utils.Slugify(req.Name)
	if slug == "" {
		// All-punctuation names would collide on the empty slug.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must contain letters or digits"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	cat := repository.Category{
		ChefID:      chef.ID,
		Name:        req.Name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
	}
	if err := h.Categories.Create(ctx, &cat); err != nil {
		if err == repository.ErrCategoryExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, toCategoryView(cat))
}

// GetCategory returns one category with the recipes filed under it.
func (h *ChefHandler) GetCategory(c echo.Context) error {
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
	cat, err := h.Categories.GetByIDAndChef(ctx, id, chef.ID)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load category failed"})
	}
	recipes, err := h.Recipes.ListByCategoryForChef(ctx, cat.ID, chef.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list recipes failed"})
	}
	views := make([]recipeView, 0, len(recipes))
	for _, rec := range recipes {
		views = append(views, toRecipeView(rec))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"category": toCategoryView(cat),
		"recipes":  views,
	})
}

// UpdateCategory renames a category; the slug follows the new name.
func (h *ChefHandler) UpdateCategory(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	slug := utils.Slugify(req.Name)
	if slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must contain letters or digits"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	err := h.Categories.Update(ctx, id, chef.ID, req.Name, slug, strings.TrimSpace(req.Description))
	switch err {
	case nil:
	case repository.ErrCategoryNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	case repository.ErrCategoryExists:
		return c.JSON(http.StatusConflict, echo.Map{"error": "category already exists"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update category failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "category updated"})
}

// DeleteCategory removes an empty category.
func (h *ChefHandler) DeleteCategory(c echo.Context) error {
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
	switch err := h.Categories.Delete(ctx, id, chef.ID); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrCategoryNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "category still has recipes"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
	}
}
