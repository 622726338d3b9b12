package repository

import (
	"context"
	"database/sql"
	"time"
)

// RegistrationRepo provides persistence for workshop registrations.
// A registration links one customer to one workshop occupancy.
// Cancellation is a soft delete: is_canceled flips to true and the row
// is kept, so every "active" query filters is_canceled = 0.  At most
// one active registration exists per (customer, workshop) pair.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo returns a new RegistrationRepo bound to the given database.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// RegistrationRecord mirrors the schema of the workshop_registrations
// table.  It is used internally by the repository when constructing or
// scanning rows.
type RegistrationRecord struct {
	ID         uint64
	CustomerID uint64
	WorkshopID uint64
	IsCanceled bool
	CreatedAt  time.Time
}

// HasActiveTx reports whether the customer already holds an active
// registration for the workshop, within the caller's transaction.
func (r *RegistrationRepo) HasActiveTx(ctx context.Context, tx *sql.Tx, customerID, workshopID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workshop_registrations
		 WHERE customer_id=? AND workshop_id=? AND is_canceled=0`,
		customerID, workshopID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a new registration within the scope of an existing
// transaction and populates the generated ID on the provided record.
// The caller must commit or roll back the transaction.
func (r *RegistrationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *RegistrationRecord) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO workshop_registrations (customer_id, workshop_id, is_canceled) VALUES (?, ?, 0)`,
		rec.CustomerID, rec.WorkshopID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// CancelTx transitions the customer's active registration for the
// workshop to canceled.  The is_canceled=0 predicate makes the flip
// conditional: when another request already canceled the registration
// (or none ever existed) zero rows are affected and false is returned,
// so the caller never releases a seat twice for the same registration.
func (r *RegistrationRepo) CancelTx(ctx context.Context, tx *sql.Tx, customerID, workshopID uint64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE workshop_registrations SET is_canceled=1
		 WHERE customer_id=? AND workshop_id=? AND is_canceled=0`,
		customerID, workshopID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CountActiveByWorkshop returns the number of active registrations for
// a workshop.
func (r *RegistrationRepo) CountActiveByWorkshop(ctx context.Context, workshopID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM workshop_registrations WHERE workshop_id=? AND is_canceled=0",
		workshopID).Scan(&n)
	return n, err
}

// BookingDetail encapsulates a registration along with the workshop and
// host information a customer needs to render their bookings page.
type BookingDetail struct {
	RegistrationID uint64 `json:"registration_id"`
	WorkshopID     uint64 `json:"workshop_id"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Address        string `json:"address"`
	PriceCents     uint32 `json:"price_cents"`
	ChefName       string `json:"chef_name"`
	BookedAt       string `json:"booked_at"`
}

// ListActiveByCustomer returns the customer's active registrations with
// workshop and chef details, newest booking first.  When no
// registrations exist, an empty slice is returned.
func (r *RegistrationRepo) ListActiveByCustomer(ctx context.Context, customerID uint64) ([]BookingDetail, error) {
	const q = `SELECT wr.id, w.id, w.title, w.date, w.time, w.address, w.price_cents,
	                  ch.chef_name, wr.created_at
	           FROM workshop_registrations wr
	           JOIN workshops w ON w.id = wr.workshop_id
	           JOIN chefs ch    ON ch.id = w.chef_id
	           WHERE wr.customer_id = ? AND wr.is_canceled = 0
	           ORDER BY wr.created_at DESC, wr.id DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var bookedAt time.Time
		if err := rows.Scan(&d.RegistrationID, &d.WorkshopID, &d.Title, &d.Date, &d.Time,
			&d.Address, &d.PriceCents, &d.ChefName, &bookedAt); err != nil {
			return nil, err
		}
		d.BookedAt = bookedAt.UTC().Format(time.RFC3339)
		out = append(out, d)
	}
	return out, rows.Err()
}

// RosterEntry is one attendee line on a chef's registration roster.
type RosterEntry struct {
	RegistrationID uint64 `json:"registration_id"`
	CustomerID     uint64 `json:"customer_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	BookedAt       string `json:"booked_at"`
}

// ListActiveByWorkshopForChef returns the roster of active registrations
// for a workshop when accessed by its hosting chef.  It verifies that
// the workshop belongs to the chef before returning the list; otherwise
// ErrForbidden is returned.  sql.ErrNoRows is returned when the
// workshop does not exist.
func (r *RegistrationRepo) ListActiveByWorkshopForChef(ctx context.Context, workshopID, chefID uint64) ([]RosterEntry, error) {
	var actualChefID uint64
	if err := r.db.QueryRowContext(ctx,
		"SELECT chef_id FROM workshops WHERE id=?", workshopID).Scan(&actualChefID); err != nil {
		return nil, err
	}
	if actualChefID != chefID {
		return nil, ErrForbidden
	}
	const q = `SELECT wr.id, u.id, u.first_name, u.last_name, u.email, wr.created_at
	           FROM workshop_registrations wr
	           JOIN users u ON u.id = wr.customer_id
	           WHERE wr.workshop_id = ? AND wr.is_canceled = 0
	           ORDER BY wr.created_at ASC, wr.id ASC`
	rows, err := r.db.QueryContext(ctx, q, workshopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RosterEntry, 0)
	for rows.Next() {
		var e RosterEntry
		var bookedAt time.Time
		if err := rows.Scan(&e.RegistrationID, &e.CustomerID, &e.FirstName, &e.LastName,
			&e.Email, &bookedAt); err != nil {
			return nil, err
		}
		e.BookedAt = bookedAt.UTC().Format(time.RFC3339)
		out = append(out, e)
	}
	return out, rows.Err()
}

// BookingNotice carries the addresses and workshop facts the
// confirmation e-mail needs.  It is assembled after the booking
// transaction commits so the notification path never holds the
// transaction open.
type BookingNotice struct {
	WorkshopTitle string
	Date          string
	Time          string
	ChefName      string
	ChefEmail     string
	CustomerEmail string
}

// GetBookingNotice loads the notification addresses for a booked
// (customer, workshop) pair.
func (r *RegistrationRepo) GetBookingNotice(ctx context.Context, customerID, workshopID uint64) (BookingNotice, error) {
	const q = `SELECT w.title, w.date, w.time, ch.chef_name, cu_host.email, cu.email
	           FROM workshops w
	           JOIN chefs ch      ON ch.id = w.chef_id
	           JOIN users cu_host ON cu_host.id = ch.user_id
	           JOIN users cu      ON cu.id = ?
	           WHERE w.id = ?`
	var n BookingNotice
	err := r.db.QueryRowContext(ctx, q, customerID, workshopID).Scan(
		&n.WorkshopTitle, &n.Date, &n.Time, &n.ChefName, &n.ChefEmail, &n.CustomerEmail)
	return n, err
}
