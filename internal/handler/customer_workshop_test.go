package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tsering10/OP-Final-Project/internal/repository"
)

// newHandlerDB opens an in-memory sqlite database with the tables the
// booking surface touches.
func newHandlerDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE chefs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL UNIQUE,
			chef_name TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE workshops (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chef_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			capacity INTEGER NOT NULL,
			price_cents INTEGER NOT NULL DEFAULT 0,
			address TEXT NOT NULL DEFAULT '',
			latitude TEXT NOT NULL DEFAULT '',
			longitude TEXT NOT NULL DEFAULT '',
			contact_phone TEXT NOT NULL DEFAULT '',
			recipe_id INTEGER,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE workshop_registrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			workshop_id INTEGER NOT NULL,
			is_canceled INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}
	return db
}

type bookingFixture struct {
	db         *sql.DB
	handler    *CustomerHandler
	workshopID uint64
	customerID uint64
}

func newBookingFixture(t *testing.T, capacity int32) *bookingFixture {
	t.Helper()
	db := newHandlerDB(t)

	exec := func(q string, args ...any) uint64 {
		res, err := db.Exec(q, args...)
		if err != nil {
			t.Fatalf("exec: %v", err)
		}
		id, _ := res.LastInsertId()
		return uint64(id)
	}
	hostID := exec("INSERT INTO users (email, password_hash, role) VALUES ('chef@example.com','x','CHEF')")
	chefID := exec("INSERT INTO chefs (user_id, chef_name) VALUES (?, 'Chef Anna')", hostID)
	workshopID := exec(
		"INSERT INTO workshops (chef_id, title, date, time, capacity, address) VALUES (?, 'Fresh Pasta Night', '2026-10-01', '18:00', ?, '1 Market St')",
		chefID, capacity)
	customerID := exec("INSERT INTO users (email, password_hash, role) VALUES ('cust@example.com','x','CUSTOMER')")

	return &bookingFixture{
		db:         db,
		handler:    NewCustomerHandler(repository.NewUserRepo(db), repository.NewWorkshopRepo(db), repository.NewRegistrationRepo(db)),
		workshopID: workshopID,
		customerID: customerID,
	}
}

// call invokes a handler the way the router would, with the JWT
// middleware's context values already in place.
func (f *bookingFixture) call(t *testing.T, h echo.HandlerFunc, workshopID, userID uint64) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(workshopID, 10))
	c.Set("user_id", float64(userID)) // JWT claims decode numbers as float64
	c.Set("role", "CUSTOMER")
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func (f *bookingFixture) capacity(t *testing.T) int32 {
	t.Helper()
	var n int32
	if err := f.db.QueryRow("SELECT capacity FROM workshops WHERE id=?", f.workshopID).Scan(&n); err != nil {
		t.Fatalf("capacity: %v", err)
	}
	return n
}

func TestBookHandlerSuccess(t *testing.T) {
	f := newBookingFixture(t, 2)

	rec := f.call(t, f.handler.Book, f.workshopID, f.customerID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "booked" {
		t.Fatalf("resp = %v", resp)
	}
	if f.capacity(t) != 1 {
		t.Fatalf("capacity = %d, want 1", f.capacity(t))
	}
}

func TestBookHandlerDuplicate(t *testing.T) {
	f := newBookingFixture(t, 2)

	if rec := f.call(t, f.handler.Book, f.workshopID, f.customerID); rec.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d", rec.Code)
	}
	rec := f.call(t, f.handler.Book, f.workshopID, f.customerID)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if f.capacity(t) != 1 {
		t.Fatalf("capacity = %d, want 1 (duplicate must not take a seat)", f.capacity(t))
	}
}

func TestBookHandlerFull(t *testing.T) {
	f := newBookingFixture(t, 1)
	other := uint64(0)
	{
		res, err := f.db.Exec("INSERT INTO users (email, password_hash, role) VALUES ('b@example.com','x','CUSTOMER')")
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		id, _ := res.LastInsertId()
		other = uint64(id)
	}

	if rec := f.call(t, f.handler.Book, f.workshopID, f.customerID); rec.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d", rec.Code)
	}
	rec := f.call(t, f.handler.Book, f.workshopID, other)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if f.capacity(t) != 0 {
		t.Fatalf("capacity = %d, want 0", f.capacity(t))
	}
}

func TestBookHandlerUnknownWorkshop(t *testing.T) {
	f := newBookingFixture(t, 1)

	rec := f.call(t, f.handler.Book, 9999, f.customerID)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBookHandlerDeletedWorkshopIsNotFound(t *testing.T) {
	f := newBookingFixture(t, 1)

	// A workshop removed mid-flight must come back as 404, not as a
	// fully-booked 409.
	if _, err := f.db.Exec("DELETE FROM workshops WHERE id=?", f.workshopID); err != nil {
		t.Fatalf("delete workshop: %v", err)
	}
	rec := f.call(t, f.handler.Book, f.workshopID, f.customerID)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s, want 404", rec.Code, rec.Body.String())
	}
	var n int
	if err := f.db.QueryRow("SELECT COUNT(*) FROM workshop_registrations WHERE workshop_id=?", f.workshopID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("registrations = %d, want 0", n)
	}
}

func TestCancelHandlerLifecycle(t *testing.T) {
	f := newBookingFixture(t, 1)

	if rec := f.call(t, f.handler.Book, f.workshopID, f.customerID); rec.Code != http.StatusCreated {
		t.Fatalf("booking status = %d", rec.Code)
	}

	rec := f.call(t, f.handler.Cancel, f.workshopID, f.customerID)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if f.capacity(t) != 1 {
		t.Fatalf("capacity = %d, want 1", f.capacity(t))
	}

	// Cancel again: the conditional flip affects no rows, the seat
	// counter stays put.
	rec = f.call(t, f.handler.Cancel, f.workshopID, f.customerID)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second cancel status = %d, want 404", rec.Code)
	}
	if f.capacity(t) != 1 {
		t.Fatalf("capacity = %d, want 1", f.capacity(t))
	}
}

func TestCancelHandlerWithoutBooking(t *testing.T) {
	f := newBookingFixture(t, 1)

	rec := f.call(t, f.handler.Cancel, f.workshopID, f.customerID)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
