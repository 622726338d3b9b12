package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Recipe mirrors the 'recipes' table.
type Recipe struct {
	ID           uint64
	ChefID       uint64
	CategoryID   uint64
	Title        string
	Slug         string
	Ingredients  string
	Instructions string
	PrepMinutes  uint32
	ImageURL     *string
	ExternalLink *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrRecipeNotFound indicates that a recipe was not located in the DB
// (or is owned by a different chef).
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeRepo manages persistence for recipes.
type RecipeRepo struct{ db *sql.DB }

func NewRecipeRepo(db *sql.DB) *RecipeRepo { return &RecipeRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *RecipeRepo) DB() *sql.DB { return r.db }

const recipeCols = `id, chef_id, category_id, title, slug, ingredients, instructions,
	prep_minutes, image_url, external_link, created_at, updated_at`

func scanRecipe(row interface{ Scan(...any) error }, rec *Recipe) error {
	return row.Scan(&rec.ID, &rec.ChefID, &rec.CategoryID, &rec.Title, &rec.Slug,
		&rec.Ingredients, &rec.Instructions, &rec.PrepMinutes,
		&rec.ImageURL, &rec.ExternalLink, &rec.CreatedAt, &rec.UpdatedAt)
}

// Create inserts a new recipe and populates the generated ID.  The
// category must already have been validated to belong to the same chef.
func (r *RecipeRepo) Create(ctx context.Context, rec *Recipe) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recipes (chef_id, category_id, title, slug, ingredients, instructions,
		                      prep_minutes, image_url, external_link)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.ChefID, rec.CategoryID, rec.Title, rec.Slug, rec.Ingredients,
		rec.Instructions, rec.PrepMinutes, rec.ImageURL, rec.ExternalLink)
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

// GetByIDAndChef loads a recipe, enforcing ownership.
func (r *RecipeRepo) GetByIDAndChef(ctx context.Context, id, chefID uint64) (Recipe, error) {
	var rec Recipe
	err := scanRecipe(r.db.QueryRowContext(ctx,
		`SELECT `+recipeCols+` FROM recipes WHERE id=? AND chef_id=? LIMIT 1`, id, chefID), &rec)
	if errors.Is(err, sql.ErrNoRows) {
		return Recipe{}, ErrRecipeNotFound
	}
	return rec, err
}

// ListByCategoryForChef returns the chef's recipes filed under one of
// their categories, oldest first to match the original builder view.
func (r *RecipeRepo) ListByCategoryForChef(ctx context.Context, categoryID, chefID uint64) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeCols+` FROM recipes WHERE category_id=? AND chef_id=? ORDER BY created_at ASC`,
		categoryID, chefID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Recipe, 0)
	for rows.Next() {
		var rec Recipe
		if err := scanRecipe(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListByChefPaged returns a page of the chef's recipes ordered by
// creation time, together with the total count.  Used by the dashboard.
func (r *RecipeRepo) ListByChefPaged(ctx context.Context, chefID uint64, page, pageSize int) ([]Recipe, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM recipes WHERE chef_id=?", chefID).Scan(&total); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeCols+` FROM recipes WHERE chef_id=? ORDER BY created_at ASC LIMIT ? OFFSET ?`,
		chefID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]Recipe, 0, pageSize)
	for rows.Next() {
		var rec Recipe
		if err := scanRecipe(rows, &rec); err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

// ListLatest returns the most recently published recipes across all
// chefs.  It backs the public home feed.
func (r *RecipeRepo) ListLatest(ctx context.Context, limit int) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeCols+` FROM recipes ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Recipe, 0, limit)
	for rows.Next() {
		var rec Recipe
		if err := scanRecipe(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Update replaces the editable fields of a recipe.  Ownership is
// enforced in the WHERE clause; moving the recipe to another category is
// allowed when the target category was validated by the handler.
func (r *RecipeRepo) Update(ctx context.Context, rec *Recipe) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recipes SET category_id=?, title=?, slug=?, ingredients=?, instructions=?,
		        prep_minutes=?, image_url=?, external_link=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=? AND chef_id=?`,
		rec.CategoryID, rec.Title, rec.Slug, rec.Ingredients, rec.Instructions,
		rec.PrepMinutes, rec.ImageURL, rec.ExternalLink, rec.ID, rec.ChefID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// Delete removes a recipe owned by the chef.
func (r *RecipeRepo) Delete(ctx context.Context, id, chefID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM recipes WHERE id=? AND chef_id=?", id, chefID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// CountByChef returns the number of recipes a chef has published.
func (r *RecipeRepo) CountByChef(ctx context.Context, chefID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM recipes WHERE chef_id=?", chefID).Scan(&n)
	return n, err
}
