package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/queue"
	"github.com/tsering10/OP-Final-Project/internal/repository"
	queue_publisher "github.com/tsering10/OP-Final-Project/internal/service"
)

// CustomerHandler serves the customer booking surface.  The booking and
// cancellation paths are the invariant-critical part of the system:
// each runs a single transaction in which the seat counter and the
// registration row change together, and the seat decrement itself is a
// conditional UPDATE, so capacity can never go below zero no matter how
// many requests race for the last seat.
type CustomerHandler struct {
	Users     *repository.UserRepo
	Workshops *repository.WorkshopRepo
	Regs      *repository.RegistrationRepo
}

func NewCustomerHandler(u *repository.UserRepo, w *repository.WorkshopRepo, reg *repository.RegistrationRepo) *CustomerHandler {
	return &CustomerHandler{Users: u, Workshops: w, Regs: reg}
}

func (h *CustomerHandler) reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// Book registers the customer for a workshop.
//
// Inside one transaction: verify no active registration exists for this
// (customer, workshop) pair, claim a seat with the conditional
// decrement, insert the registration row, commit.  The confirmation
// event is published only after the commit and failures there are
// ignored; notification problems must never undo a booking.
func (h *CustomerHandler) Book(c echo.Context) error {
	workshopID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	tx, err := h.Workshops.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	already, err := h.Regs.HasActiveTx(ctx, tx, uid, workshopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	if already {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already booked"})
	}

	taken, err := h.Workshops.TakeSeatTx(ctx, tx, workshopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	if !taken {
		// Zero rows means either no free seat or no workshop row at
		// all.  The existence read runs inside the same transaction so
		// a concurrent delete cannot blur the two answers.
		exists, err := h.Workshops.ExistsTx(ctx, tx, workshopID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
		if !exists {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "workshop fully booked"})
	}

	reg := repository.RegistrationRecord{CustomerID: uid, WorkshopID: workshopID}
	if err := h.Regs.CreateTx(ctx, tx, &reg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	committed = true

	h.publishConfirmation(ctx, reg.ID, workshopID, uid)

	return c.JSON(http.StatusCreated, echo.Map{
		"registration_id": reg.ID,
		"workshop_id":     workshopID,
		"status":          "booked",
	})
}

// publishConfirmation emits the post-commit booking event.  Best effort:
// a broker outage only costs the confirmation e-mail, never the seat.
func (h *CustomerHandler) publishConfirmation(ctx context.Context, regID, workshopID, customerID uint64) {
	notice, err := h.Regs.GetBookingNotice(ctx, customerID, workshopID)
	if err != nil {
		return
	}
	_ = queue_publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		RegistrationID: regID,
		WorkshopID:     workshopID,
		CustomerID:     customerID,
		WorkshopTitle:  notice.WorkshopTitle,
		Date:           notice.Date,
		Time:           notice.Time,
		ChefName:       notice.ChefName,
		ChefEmail:      notice.ChefEmail,
		CustomerEmail:  notice.CustomerEmail,
		BookedAt:       time.Now().UTC().Format(time.RFC3339),
	})
}

// Cancel releases the customer's booking.
//
// The registration flip and the seat release happen in one transaction,
// and the flip is conditional on the registration still being active.
// A repeated cancel therefore affects zero rows and returns 404 without
// ever incrementing capacity a second time.
func (h *CustomerHandler) Cancel(c echo.Context) error {
	workshopID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	tx, err := h.Workshops.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	canceled, err := h.Regs.CancelTx(ctx, tx, uid, workshopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if !canceled {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active booking for this workshop"})
	}

	if err := h.Workshops.ReleaseSeatTx(ctx, tx, workshopID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"workshop_id": workshopID,
		"status":      "canceled",
	})
}

// MyWorkshops lists the customer's active bookings, newest first.
func (h *CustomerHandler) MyWorkshops(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	bookings, err := h.Regs.ListActiveByCustomer(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}
