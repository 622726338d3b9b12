// Package repository contains data access logic for workshop operations.
// This file defines the Workshop model and repository methods for
// workshops. Capacity is the remaining-seats counter; every mutation of
// it goes through a conditional single-statement UPDATE so two
// concurrent bookings can never both take the last seat.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Workshop represents a bookable cooking event published by a chef.
// Date and Time are stored as DB strings ("2006-01-02" / "15:04") the
// way the listing views render them.
type Workshop struct {
	ID           uint64  // ID is the primary key of the workshop
	ChefID       uint64  // ChefID references the hosting chef
	Title        string  // Title is the workshop name
	Description  string  // Description is free text shown on the detail page
	Date         string  // Date of the event ("YYYY-MM-DD")
	Time         string  // Time the event starts ("HH:MM")
	Capacity     int32   // Capacity is the remaining number of seats (never negative)
	PriceCents   uint32  // PriceCents is the ticket price in cents
	Address      string  // Address of the venue
	Latitude     string  // Latitude of the venue, optional
	Longitude    string  // Longitude of the venue, optional
	ContactPhone string  // ContactPhone shown to attendees
	RecipeID     *uint64 // RecipeID optionally links the recipe being taught
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrWorkshopNotFound indicates that a workshop was not located in the DB.
var ErrWorkshopNotFound = errors.New("workshop not found")

// WorkshopRepo manages persistence for workshops.
type WorkshopRepo struct {
	db *sql.DB
}

func NewWorkshopRepo(db *sql.DB) *WorkshopRepo { return &WorkshopRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.  Use this method to
// obtain a *sql.DB when you need fine-grained transaction control.
func (r *WorkshopRepo) DB() *sql.DB { return r.db }

const workshopCols = `id, chef_id, title, description, date, time, capacity, price_cents,
	address, latitude, longitude, contact_phone, recipe_id, created_at, updated_at`

func scanWorkshop(row interface{ Scan(...any) error }, w *Workshop) error {
	return row.Scan(&w.ID, &w.ChefID, &w.Title, &w.Description, &w.Date, &w.Time,
		&w.Capacity, &w.PriceCents, &w.Address, &w.Latitude, &w.Longitude,
		&w.ContactPhone, &w.RecipeID, &w.CreatedAt, &w.UpdatedAt)
}

// Create inserts a new workshop and populates the generated ID.  The
// capacity passed in is the chef's seat baseline.
func (r *WorkshopRepo) Create(ctx context.Context, w *Workshop) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO workshops (chef_id, title, description, date, time, capacity, price_cents,
		                        address, latitude, longitude, contact_phone, recipe_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		w.ChefID, w.Title, w.Description, w.Date, w.Time, w.Capacity, w.PriceCents,
		w.Address, w.Latitude, w.Longitude, w.ContactPhone, w.RecipeID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// GetByID loads a workshop by primary key.
func (r *WorkshopRepo) GetByID(ctx context.Context, id uint64) (Workshop, error) {
	var w Workshop
	err := scanWorkshop(r.db.QueryRowContext(ctx,
		`SELECT `+workshopCols+` FROM workshops WHERE id=? LIMIT 1`, id), &w)
	if errors.Is(err, sql.ErrNoRows) {
		return Workshop{}, ErrWorkshopNotFound
	}
	return w, err
}

// GetByIDAndChef loads a workshop, enforcing ownership.
func (r *WorkshopRepo) GetByIDAndChef(ctx context.Context, id, chefID uint64) (Workshop, error) {
	var w Workshop
	err := scanWorkshop(r.db.QueryRowContext(ctx,
		`SELECT `+workshopCols+` FROM workshops WHERE id=? AND chef_id=? LIMIT 1`, id, chefID), &w)
	if errors.Is(err, sql.ErrNoRows) {
		return Workshop{}, ErrWorkshopNotFound
	}
	return w, err
}

// ListByChef returns all workshops published by a chef, newest date first.
func (r *WorkshopRepo) ListByChef(ctx context.Context, chefID uint64) ([]Workshop, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workshopCols+` FROM workshops WHERE chef_id=? ORDER BY date DESC, time DESC`, chefID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Workshop, 0)
	for rows.Next() {
		var w Workshop
		if err := scanWorkshop(rows, &w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ListPaged returns a page of workshops across all chefs ordered by date
// descending (the ordering the customer listing uses), with the total
// count for pagination links.
func (r *WorkshopRepo) ListPaged(ctx context.Context, page, pageSize int) ([]Workshop, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workshops").Scan(&total); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workshopCols+` FROM workshops ORDER BY date DESC, time DESC LIMIT ? OFFSET ?`,
		pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]Workshop, 0, pageSize)
	for rows.Next() {
		var w Workshop
		if err := scanWorkshop(rows, &w); err != nil {
			return nil, 0, err
		}
		out = append(out, w)
	}
	return out, total, rows.Err()
}

// Update replaces the editable fields of a workshop.  Capacity updates
// here reset the seat baseline; they do not flow through the booking
// counters.  Ownership is enforced in the WHERE clause.
func (r *WorkshopRepo) Update(ctx context.Context, w *Workshop) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE workshops SET title=?, description=?, date=?, time=?, capacity=?, price_cents=?,
		        address=?, latitude=?, longitude=?, contact_phone=?, recipe_id=?,
		        updated_at=CURRENT_TIMESTAMP
		 WHERE id=? AND chef_id=?`,
		w.Title, w.Description, w.Date, w.Time, w.Capacity, w.PriceCents,
		w.Address, w.Latitude, w.Longitude, w.ContactPhone, w.RecipeID,
		w.ID, w.ChefID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}

// Delete removes a workshop owned by the chef.  It refuses with
// ErrConflict while active registrations exist; customers must cancel
// (or be canceled) first.
func (r *WorkshopRepo) Delete(ctx context.Context, id, chefID uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM workshop_registrations WHERE workshop_id=? AND is_canceled=0",
		id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM workshops WHERE id=? AND chef_id=?", id, chefID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}

// TakeSeatTx atomically claims one seat within the caller's transaction.
// The decrement and the capacity check are a single statement, so of N
// concurrent bookings for the last seat exactly one observes an affected
// row; the rest see the workshop as fully booked.  Returns false when no
// seat was available.
func (r *WorkshopRepo) TakeSeatTx(ctx context.Context, tx *sql.Tx, workshopID uint64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE workshops SET capacity = capacity - 1, updated_at=CURRENT_TIMESTAMP
		 WHERE id=? AND capacity > 0`, workshopID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ExistsTx reports whether the workshop row is present, read within the
// caller's transaction.  Used to tell a fully booked workshop apart from
// one that was deleted after the request started.
func (r *WorkshopRepo) ExistsTx(ctx context.Context, tx *sql.Tx, workshopID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM workshops WHERE id=?`, workshopID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReleaseSeatTx returns one seat to the workshop within the caller's
// transaction.  It must only run after a registration row was actually
// transitioned to canceled, which is what keeps capacity from growing
// past the baseline on duplicate cancel requests.
func (r *WorkshopRepo) ReleaseSeatTx(ctx context.Context, tx *sql.Tx, workshopID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE workshops SET capacity = capacity + 1, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`, workshopID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}
