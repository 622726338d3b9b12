package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/repository"
)

type workshopReq struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Date         string  `json:"date"` // "YYYY-MM-DD"
	Time         string  `json:"time"` // "HH:MM"
	Capacity     int32   `json:"capacity"`
	PriceCents   uint32  `json:"price_cents"`
	Address      string  `json:"address"`
	Latitude     string  `json:"latitude"`
	Longitude    string  `json:"longitude"`
	ContactPhone string  `json:"contact_phone"`
	RecipeID     *uint64 `json:"recipe_id"`
}

type workshopView struct {
	ID           uint64  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Capacity     int32   `json:"capacity"`
	PriceCents   uint32  `json:"price_cents"`
	Address      string  `json:"address"`
	Latitude     string  `json:"latitude,omitempty"`
	Longitude    string  `json:"longitude,omitempty"`
	ContactPhone string  `json:"contact_phone"`
	RecipeID     *uint64 `json:"recipe_id,omitempty"`
}

func toWorkshopView(w repository.Workshop) workshopView {
	return workshopView{
		ID:           w.ID,
		Title:        w.Title,
		Description:  w.Description,
		Date:         w.Date,
		Time:         w.Time,
		Capacity:     w.Capacity,
		PriceCents:   w.PriceCents,
		Address:      w.Address,
		Latitude:     w.Latitude,
		Longitude:    w.Longitude,
		ContactPhone: w.ContactPhone,
		RecipeID:     w.RecipeID,
	}
}

func (h *ChefHandler) validateWorkshopReq(req *workshopReq) string {
	req.Title = strings.TrimSpace(req.Title)
	req.Address = strings.TrimSpace(req.Address)
	switch {
	case req.Title == "":
		return "title required"
	case req.Address == "":
		return "address required"
	case req.Capacity < 1:
		return "capacity must be positive"
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return "time must be HH:MM"
	}
	return ""
}

// CreateWorkshop publishes a new workshop.  Capacity is the number of
// seats on sale; every booking decrements it.
func (h *ChefHandler) CreateWorkshop(c echo.Context) error {
	var req workshopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := h.validateWorkshopReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	if req.RecipeID != nil {
		if _, err := h.Recipes.GetByIDAndChef(ctx, *req.RecipeID, chef.ID); err != nil {
			if err == repository.ErrRecipeNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load recipe failed"})
		}
	}

	w := repository.Workshop{
		ChefID:       chef.ID,
		Title:        req.Title,
		Description:  strings.TrimSpace(req.Description),
		Date:         req.Date,
		Time:         req.Time,
		Capacity:     req.Capacity,
		PriceCents:   req.PriceCents,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		RecipeID:     req.RecipeID,
	}
	if err := h.Workshops.Create(ctx, &w); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create workshop failed"})
	}
	return c.JSON(http.StatusCreated, toWorkshopView(w))
}

// ListWorkshops returns every workshop the chef has published.
func (h *ChefHandler) ListWorkshops(c echo.Context) error {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	workshops, err := h.Workshops.ListByChef(ctx, chef.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list workshops failed"})
	}
	views := make([]workshopView, 0, len(workshops))
	for _, w := range workshops {
		views = append(views, toWorkshopView(w))
	}
	return c.JSON(http.StatusOK, echo.Map{"workshops": views})
}

// GetWorkshop returns one workshop with its current active attendee count.
func (h *ChefHandler) GetWorkshop(c echo.Context) error {
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
	w, err := h.Workshops.GetByIDAndChef(ctx, id, chef.ID)
	if err != nil {
		if err == repository.ErrWorkshopNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load workshop failed"})
	}
	attendees, err := h.Regs.CountActiveByWorkshop(ctx, w.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count registrations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"workshop":  toWorkshopView(w),
		"attendees": attendees,
	})
}

// UpdateWorkshop replaces the editable fields.  Changing capacity resets
// the remaining-seats counter outright; chefs use it to add or remove
// seats from sale.
func (h *ChefHandler) UpdateWorkshop(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req workshopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := h.validateWorkshopReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	chef, ok := h.chefForRequest(c, ctx)
	if !ok {
		return nil
	}
	w := repository.Workshop{
		ID:           id,
		ChefID:       chef.ID,
		Title:        req.Title,
		Description:  strings.TrimSpace(req.Description),
		Date:         req.Date,
		Time:         req.Time,
		Capacity:     req.Capacity,
		PriceCents:   req.PriceCents,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		RecipeID:     req.RecipeID,
	}
	if err := h.Workshops.Update(ctx, &w); err != nil {
		if err == repository.ErrWorkshopNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update workshop failed"})
	}
	return c.JSON(http.StatusOK, toWorkshopView(w))
}

// DeleteWorkshop removes a workshop that has no active registrations.
func (h *ChefHandler) DeleteWorkshop(c echo.Context) error {
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
	switch err := h.Workshops.Delete(ctx, id, chef.ID); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case repository.ErrWorkshopNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "workshop still has active registrations"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete workshop failed"})
	}
}

// WorkshopRoster lists the active attendees of one of the chef's
// workshops, oldest booking first.
func (h *ChefHandler) WorkshopRoster(c echo.Context) error {
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
	roster, err := h.Regs.ListActiveByWorkshopForChef(ctx, id, chef.ID)
	if err != nil {
		switch err {
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your workshop"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load roster failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"workshop_id":   id,
		"registrations": roster,
	})
}
