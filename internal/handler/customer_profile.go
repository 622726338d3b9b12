package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type customerProfileReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateProfile updates the customer's name fields, the customer-side
// counterpart of the chef profile form.
func (h *CustomerHandler) UpdateProfile(c echo.Context) error {
	var req customerProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name required"})
	}

	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateNames(ctx, uid, req.FirstName, req.LastName); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "profile updated",
		"first_name": req.FirstName,
		"last_name":  req.LastName,
	})
}
