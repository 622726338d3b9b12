package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// newTestDB opens an in-memory sqlite database with the application
// schema.  MaxOpenConns is pinned to 1 so concurrent test goroutines
// serialize on a single connection instead of hitting sqlite's
// database-is-locked errors; the conditional UPDATEs under test behave
// the same either way.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One pooled connection keeps all statements on the same in-memory
	// database and serializes the concurrency tests.
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
			is_active INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE refresh_tokens (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			token_hash TEXT NOT NULL UNIQUE,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE chefs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL UNIQUE,
			chef_name TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chef_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (chef_id, slug)
		);`,
		`CREATE TABLE recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chef_id INTEGER NOT NULL,
			category_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			ingredients TEXT NOT NULL,
			instructions TEXT NOT NULL,
			prep_minutes INTEGER NOT NULL DEFAULT 0,
			image_url TEXT,
			external_link TEXT,
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

// seedUser inserts a user row directly and returns its id.
func seedUser(t *testing.T, db *sql.DB, email, role string) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO users (email, password_hash, role, first_name, last_name, is_active) VALUES (?,?,?,?,?,1)",
		email, "x", role, "Test", "User")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

// seedChef inserts a chef profile for the user.
func seedChef(t *testing.T, db *sql.DB, userID uint64, name string) uint64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO chefs (user_id, chef_name) VALUES (?,?)", userID, name)
	if err != nil {
		t.Fatalf("seed chef: %v", err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

// seedWorkshop creates a workshop with the given remaining capacity.
func seedWorkshop(t *testing.T, db *sql.DB, chefID uint64, capacity int32) uint64 {
	t.Helper()
	repo := NewWorkshopRepo(db)
	w := Workshop{
		ChefID:   chefID,
		Title:    "Fresh Pasta Night",
		Date:     "2026-10-01",
		Time:     "18:00",
		Capacity: capacity,
		Address:  "1 Market St",
	}
	if err := repo.Create(context.Background(), &w); err != nil {
		t.Fatalf("seed workshop: %v", err)
	}
	return w.ID
}
