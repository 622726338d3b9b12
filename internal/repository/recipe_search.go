package repository

import (
	"context"
	"strings"
)

// RecipeSearchQuery defines filters & pagination for the public recipe search.
type RecipeSearchQuery struct {
	Term     string
	Category string
	Page     int
	PageSize int
}

// PublicRecipeRow is a search hit with the chef and category names a
// guest needs to render a result card.
type PublicRecipeRow struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	ChefName    string `json:"chef_name"`
	Category    string `json:"category"`
	PrepMinutes uint32 `json:"prep_minutes"`
}

// Search performs a case-insensitive LIKE search across recipe title,
// ingredient text and category name, the same fields the original home
// page search covered.  Results are paginated and the total match count
// is returned alongside the page.
func (r *RecipeRepo) Search(ctx context.Context, q RecipeSearchQuery) ([]PublicRecipeRow, int64, error) {
	where := []string{}
	args := []any{}

	if term := strings.TrimSpace(q.Term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		where = append(where,
			"(LOWER(re.title) LIKE ? OR LOWER(re.ingredients) LIKE ? OR LOWER(ca.name) LIKE ?)")
		args = append(args, like, like, like)
	}
	if q.Category != "" {
		where = append(where, "LOWER(ca.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Category)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM recipes re
		JOIN categories ca ON ca.id = re.category_id
		JOIN chefs ch      ON ch.id = re.chef_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			re.id,
			re.title,
			re.slug,
			ch.chef_name,
			ca.name AS category_name,
			re.prep_minutes
		FROM recipes re
		JOIN categories ca ON ca.id = re.category_id
		JOIN chefs ch      ON ch.id = re.chef_id
		WHERE ` + cond + `
		ORDER BY re.created_at DESC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicRecipeRow, 0, limit)
	for rows.Next() {
		var d PublicRecipeRow
		if err := rows.Scan(&d.ID, &d.Title, &d.Slug, &d.ChefName, &d.Category, &d.PrepMinutes); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
