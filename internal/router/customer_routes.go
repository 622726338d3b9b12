package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/handler"
	"github.com/tsering10/OP-Final-Project/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers book
// seats at workshops, cancel their bookings, list what they hold and
// maintain their profile names.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/workshops/:id/book", h.Book)
	g.POST("/workshops/:id/cancel", h.Cancel)
	g.GET("/my-workshops", h.MyWorkshops)
	g.PUT("/customer/profile", h.UpdateProfile)
}
