package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Chef mirrors the 'chefs' table.  One row exists per CHEF user and is
// created in the same transaction as the user during chef registration.
type Chef struct {
	ID        uint64
	UserID    uint64
	ChefName  string
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrChefNotFound indicates that no chef profile exists for the lookup.
var ErrChefNotFound = errors.New("chef not found")

// ChefRepo manages persistence for chef profiles.
type ChefRepo struct{ db *sql.DB }

func NewChefRepo(db *sql.DB) *ChefRepo { return &ChefRepo{db: db} }

// CreateTx inserts a chef profile within the caller's transaction and
// populates the generated ID.  Used by chef registration together with
// UserRepo.CreateTx.
func (r *ChefRepo) CreateTx(ctx context.Context, tx *sql.Tx, ch *Chef) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO chefs (user_id, chef_name, bio) VALUES (?,?,?)",
		ch.UserID, ch.ChefName, ch.Bio)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ch.ID = uint64(id)
	return nil
}

// GetByUserID loads the chef profile owned by the given user.
func (r *ChefRepo) GetByUserID(ctx context.Context, userID uint64) (Chef, error) {
	var ch Chef
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, chef_name, bio, created_at, updated_at FROM chefs WHERE user_id=? LIMIT 1",
		userID).Scan(&ch.ID, &ch.UserID, &ch.ChefName, &ch.Bio, &ch.CreatedAt, &ch.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Chef{}, ErrChefNotFound
	}
	return ch, err
}

// Update sets the display name and bio of a chef profile.
func (r *ChefRepo) Update(ctx context.Context, chefID uint64, chefName, bio string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE chefs SET chef_name=?, bio=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		chefName, bio, chefID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrChefNotFound
	}
	return nil
}
