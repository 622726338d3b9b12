package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tsering10/OP-Final-Project/internal/config"
	"github.com/tsering10/OP-Final-Project/internal/repository"
)

type chefFixture struct {
	db      *sql.DB
	handler *ChefHandler
	userID  uint64
}

func newChefFixture(t *testing.T) *chefFixture {
	t.Helper()
	db := newHandlerDB(t)
	if _, err := db.Exec(`CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chef_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (chef_id, slug)
	)`); err != nil {
		t.Fatalf("schema: %v", err)
	}

	res, err := db.Exec("INSERT INTO users (email, password_hash, role) VALUES ('chef@example.com','x','CHEF')")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	uid, _ := res.LastInsertId()
	if _, err := db.Exec("INSERT INTO chefs (user_id, chef_name) VALUES (?, 'Chef Anna')", uid); err != nil {
		t.Fatalf("seed chef: %v", err)
	}

	h := NewChefHandler(config.Config{Env: "test"},
		repository.NewUserRepo(db),
		repository.NewChefRepo(db),
		repository.NewCategoryRepo(db),
		repository.NewRecipeRepo(db),
		repository.NewWorkshopRepo(db),
		repository.NewRegistrationRepo(db))
	return &chefFixture{db: db, handler: h, userID: uint64(uid)}
}

func (f *chefFixture) post(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(f.userID))
	c.Set("role", "CHEF")
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestCreateCategoryRejectsUnsluggableName(t *testing.T) {
	f := newChefFixture(t)

	// Names that slugify to nothing would all collide on the empty
	// slug, so they are rejected up front instead of surfacing as a
	// bogus duplicate on the second one.
	for _, name := range []string{"!!!", "???"} {
		rec := f.post(t, f.handler.CreateCategory, `{"name":"`+name+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("name %q: status = %d, body = %s, want 400", name, rec.Code, rec.Body.String())
		}
	}

	var n int
	if err := f.db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("categories = %d, want 0", n)
	}

	if rec := f.post(t, f.handler.CreateCategory, `{"name":"Desserts"}`); rec.Code != http.StatusCreated {
		t.Fatalf("valid name status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCreateRecipeRejectsUnsluggableTitle(t *testing.T) {
	f := newChefFixture(t)

	rec := f.post(t, f.handler.CreateRecipe,
		`{"title":"***","category_id":1,"ingredients":"flour","instructions":"mix"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s, want 400", rec.Code, rec.Body.String())
	}
}
