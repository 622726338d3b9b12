package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Category mirrors the 'categories' table.  Categories are owned by a
// single chef; the slug is derived from the name and unique per chef.
type Category struct {
	ID          uint64
	ChefID      uint64
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ErrCategoryNotFound indicates that a category was not located in the DB
// (or is owned by a different chef).
var ErrCategoryNotFound = errors.New("category not found")

// ErrCategoryExists is returned when a chef already has a category with
// the same slug.
var ErrCategoryExists = errors.New("category already exists")

// CategoryRepo manages persistence for recipe categories.
type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Create inserts a new category and populates the generated ID.
func (r *CategoryRepo) Create(ctx context.Context, cat *Category) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (chef_id, name, slug, description) VALUES (?,?,?,?)",
		cat.ChefID, cat.Name, cat.Slug, cat.Description)
	if err != nil {
		if isDuplicate(err) {
			return ErrCategoryExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cat.ID = uint64(id)
	return nil
}

// ListByChef returns all categories belonging to a chef, newest first.
func (r *CategoryRepo) ListByChef(ctx context.Context, chefID uint64) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, chef_id, name, slug, description, created_at, updated_at
		 FROM categories WHERE chef_id=? ORDER BY created_at DESC`, chefID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.ChefID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByIDAndChef loads a category, enforcing ownership.  A category that
// exists but belongs to another chef is reported as not found so the
// API does not leak other tenants' data.
func (r *CategoryRepo) GetByIDAndChef(ctx context.Context, id, chefID uint64) (Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, chef_id, name, slug, description, created_at, updated_at
		 FROM categories WHERE id=? AND chef_id=? LIMIT 1`, id, chefID).
		Scan(&c.ID, &c.ChefID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	}
	return c, err
}

// Update renames a category (slug follows the name) and replaces its
// description.  Ownership is enforced in the WHERE clause.
func (r *CategoryRepo) Update(ctx context.Context, id, chefID uint64, name, slug, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name=?, slug=?, description=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=? AND chef_id=?`, name, slug, description, id, chefID)
	if err != nil {
		if isDuplicate(err) {
			return ErrCategoryExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category.  It refuses with ErrConflict while recipes
// are still filed under it, so recipes never end up orphaned.
func (r *CategoryRepo) Delete(ctx context.Context, id, chefID uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM recipes WHERE category_id=?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM categories WHERE id=? AND chef_id=?", id, chefID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// CountByChef returns the number of categories a chef has.  Used by the
// chef dashboard.
func (r *CategoryRepo) CountByChef(ctx context.Context, chefID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE chef_id=?", chefID).Scan(&n)
	return n, err
}
