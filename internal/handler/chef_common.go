package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/config"
	"github.com/tsering10/OP-Final-Project/internal/repository"
)

// ChefHandler serves the chef content-builder surface: categories,
// recipes, workshops, rosters, profile and dashboard.  Every route in
// this handler runs behind JWTAuth + RequireRole(CHEF), so the only
// per-request authorization left to do is ownership scoping, which the
// repositories enforce via chef_id predicates.
type ChefHandler struct {
	Cfg        config.Config
	Users      *repository.UserRepo
	Chefs      *repository.ChefRepo
	Categories *repository.CategoryRepo
	Recipes    *repository.RecipeRepo
	Workshops  *repository.WorkshopRepo
	Regs       *repository.RegistrationRepo
}

func NewChefHandler(cfg config.Config, u *repository.UserRepo, ch *repository.ChefRepo,
	cat *repository.CategoryRepo, rec *repository.RecipeRepo,
	w *repository.WorkshopRepo, reg *repository.RegistrationRepo) *ChefHandler {
	return &ChefHandler{Cfg: cfg, Users: u, Chefs: ch, Categories: cat, Recipes: rec, Workshops: w, Regs: reg}
}

func (h *ChefHandler) reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// chefForRequest resolves the chef profile of the authenticated user.
// A CHEF-role token without a chef row means the account is broken
// (registration is transactional), so this is treated as forbidden
// rather than a server error.
func (h *ChefHandler) chefForRequest(c echo.Context, ctx context.Context) (repository.Chef, bool) {
	uid, ok := currentUserID(c)
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return repository.Chef{}, false
	}
	chef, err := h.Chefs.GetByUserID(ctx, uid)
	if err != nil {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "no chef profile"})
		return repository.Chef{}, false
	}
	return chef, true
}
