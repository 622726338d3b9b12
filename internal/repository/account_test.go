package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/tsering10/OP-Final-Project/internal/utils"
)

const testBcryptCost = 4 // minimum cost keeps the tests fast

func TestUserCreateStartsInactive(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	uid, err := users.Create(ctx, "New.Person@Example.COM", "secret", "CUSTOMER", "New", "Person", testBcryptCost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Lookup is case-insensitive because the email is normalized on the
	// way in and on the way out.
	u, err := users.GetByEmail(ctx, "new.person@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u.ID != uid {
		t.Fatalf("id = %d, want %d", u.ID, uid)
	}
	if u.IsActive {
		t.Fatal("new accounts must start inactive")
	}
	if !utils.VerifyPassword(u.PasswordHash, "secret") {
		t.Fatal("stored hash does not verify")
	}

	if err := users.Activate(ctx, uid); err != nil {
		t.Fatalf("activate: %v", err)
	}
	u, err = users.GetByID(ctx, uid)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if !u.IsActive {
		t.Fatal("account should be active after activation")
	}
	// Activation links can be followed twice without harm.
	if err := users.Activate(ctx, uid); err != nil {
		t.Fatalf("re-activate: %v", err)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	if _, err := users.Create(ctx, "dupe@example.com", "pw", "CUSTOMER", "", "", testBcryptCost); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := users.Create(ctx, "DUPE@example.com", "pw", "CHEF", "", "", testBcryptCost); err != ErrEmailExists {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
}

func TestUpdatePasswordUnknownUser(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)

	err := users.UpdatePassword(context.Background(), 42, "newpw", testBcryptCost)
	if err != sql.ErrNoRows {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestChefRegistrationIsAtomic(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	chefs := NewChefRepo(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	uid, err := users.CreateTx(ctx, tx, "chef@example.com", "pw", "CHEF", "A", "B", testBcryptCost)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	chef := Chef{UserID: uid, ChefName: "Chef Anna"}
	if err := chefs.CreateTx(ctx, tx, &chef); err != nil {
		t.Fatalf("create chef: %v", err)
	}
	// Roll back: neither row may survive.
	_ = tx.Rollback()

	if _, err := users.GetByEmail(ctx, "chef@example.com"); err != sql.ErrNoRows {
		t.Fatalf("user err = %v, want sql.ErrNoRows", err)
	}
	if _, err := chefs.GetByUserID(ctx, uid); err != ErrChefNotFound {
		t.Fatalf("chef err = %v, want ErrChefNotFound", err)
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	db := newTestDB(t)
	tokens := NewTokenRepo(db)
	ctx := context.Background()
	uid := seedUser(t, db, "cust@example.com", "CUSTOMER")

	hash := utils.HashRefreshRaw("raw-token")
	exp := time.Now().UTC().Add(24 * time.Hour)
	if err := tokens.StoreRefresh(ctx, uid, hash, exp); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != uid {
		t.Fatalf("user = %d, want %d", got, uid)
	}

	if err := tokens.RevokeByHash(ctx, hash); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := tokens.ValidateRefresh(ctx, hash); err == nil {
		t.Fatal("revoked token must not validate")
	}
}

func TestRefreshTokenExpiry(t *testing.T) {
	db := newTestDB(t)
	tokens := NewTokenRepo(db)
	ctx := context.Background()
	uid := seedUser(t, db, "cust@example.com", "CUSTOMER")

	hash := utils.HashRefreshRaw("stale")
	if err := tokens.StoreRefresh(ctx, uid, hash, time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := tokens.ValidateRefresh(ctx, hash); err == nil {
		t.Fatal("expired token must not validate")
	}
}

func TestRevokeAllForUser(t *testing.T) {
	db := newTestDB(t)
	tokens := NewTokenRepo(db)
	ctx := context.Background()
	uid := seedUser(t, db, "cust@example.com", "CUSTOMER")

	exp := time.Now().UTC().Add(24 * time.Hour)
	h1 := utils.HashRefreshRaw("one")
	h2 := utils.HashRefreshRaw("two")
	if err := tokens.StoreRefresh(ctx, uid, h1, exp); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := tokens.StoreRefresh(ctx, uid, h2, exp); err != nil {
		t.Fatalf("store: %v", err)
	}

	if err := tokens.RevokeAllForUser(ctx, uid); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if _, err := tokens.ValidateRefresh(ctx, h1); err == nil {
		t.Fatal("token one should be revoked")
	}
	if _, err := tokens.ValidateRefresh(ctx, h2); err == nil {
		t.Fatal("token two should be revoked")
	}
}
