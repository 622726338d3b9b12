package repository

import (
	"context"
	"database/sql"
	"testing"
)

func seedCatalog(t *testing.T, db *sql.DB) (chefID uint64, catID uint64) {
	t.Helper()
	chefUser := seedUser(t, db, "chef@example.com", "CHEF")
	chefID = seedChef(t, db, chefUser, "Chef Anna")

	cats := NewCategoryRepo(db)
	cat := Category{ChefID: chefID, Name: "Desserts", Slug: "desserts"}
	if err := cats.Create(context.Background(), &cat); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return chefID, cat.ID
}

func TestCategorySlugUniquePerChef(t *testing.T) {
	db := newTestDB(t)
	chefID, _ := seedCatalog(t, db)
	cats := NewCategoryRepo(db)
	ctx := context.Background()

	dupe := Category{ChefID: chefID, Name: "Desserts", Slug: "desserts"}
	if err := cats.Create(ctx, &dupe); err != ErrCategoryExists {
		t.Fatalf("err = %v, want ErrCategoryExists", err)
	}

	// Another chef may reuse the same slug.
	otherUser := seedUser(t, db, "other@example.com", "CHEF")
	otherChef := seedChef(t, db, otherUser, "Chef Ben")
	theirs := Category{ChefID: otherChef, Name: "Desserts", Slug: "desserts"}
	if err := cats.Create(ctx, &theirs); err != nil {
		t.Fatalf("create for other chef: %v", err)
	}
}

func TestCategoryOwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	_, catID := seedCatalog(t, db)
	cats := NewCategoryRepo(db)
	ctx := context.Background()

	otherUser := seedUser(t, db, "other@example.com", "CHEF")
	otherChef := seedChef(t, db, otherUser, "Chef Ben")

	// A foreign category reads as not found, never as forbidden.
	if _, err := cats.GetByIDAndChef(ctx, catID, otherChef); err != ErrCategoryNotFound {
		t.Fatalf("err = %v, want ErrCategoryNotFound", err)
	}
	if err := cats.Delete(ctx, catID, otherChef); err != ErrCategoryNotFound {
		t.Fatalf("delete err = %v, want ErrCategoryNotFound", err)
	}
}

func TestCategoryDeleteBlockedByRecipes(t *testing.T) {
	db := newTestDB(t)
	chefID, catID := seedCatalog(t, db)
	cats := NewCategoryRepo(db)
	recipes := NewRecipeRepo(db)
	ctx := context.Background()

	rec := Recipe{
		ChefID:       chefID,
		CategoryID:   catID,
		Title:        "Tarte Tatin",
		Slug:         "tarte-tatin",
		Ingredients:  "apples, butter, sugar, pastry",
		Instructions: "Caramelize, cover, bake, flip.",
		PrepMinutes:  75,
	}
	if err := recipes.Create(ctx, &rec); err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	if err := cats.Delete(ctx, catID, chefID); err != ErrConflict {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	if err := recipes.Delete(ctx, rec.ID, chefID); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}
	if err := cats.Delete(ctx, catID, chefID); err != nil {
		t.Fatalf("delete empty category: %v", err)
	}
}

func TestRecipeSearchMatchesIngredientsAndCategory(t *testing.T) {
	db := newTestDB(t)
	chefID, catID := seedCatalog(t, db)
	recipes := NewRecipeRepo(db)
	ctx := context.Background()

	for _, r := range []Recipe{
		{ChefID: chefID, CategoryID: catID, Title: "Tarte Tatin", Slug: "tarte-tatin",
			Ingredients: "apples, butter, sugar", Instructions: "bake", PrepMinutes: 75},
		{ChefID: chefID, CategoryID: catID, Title: "Crumble", Slug: "crumble",
			Ingredients: "rhubarb, oats", Instructions: "bake", PrepMinutes: 40},
	} {
		rec := r
		if err := recipes.Create(ctx, &rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// Matches via the ingredients column.
	hits, total, err := recipes.Search(ctx, RecipeSearchQuery{Term: "APPLES", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(hits) != 1 || hits[0].Title != "Tarte Tatin" {
		t.Fatalf("hits = %+v (total %d), want the tarte", hits, total)
	}
	if hits[0].ChefName != "Chef Anna" || hits[0].Category != "Desserts" {
		t.Fatalf("hit metadata = %+v", hits[0])
	}

	// Matches via the category name, hitting every recipe filed there.
	_, total, err = recipes.Search(ctx, RecipeSearchQuery{Term: "dessert", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}

	// No hits.
	_, total, err = recipes.Search(ctx, RecipeSearchQuery{Term: "sushi", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
}

func TestWorkshopRosterOwnershipAndOrder(t *testing.T) {
	db := newTestDB(t)
	chefUser := seedUser(t, db, "chef@example.com", "CHEF")
	chefID := seedChef(t, db, chefUser, "Chef Anna")
	wid := seedWorkshop(t, db, chefID, 5)
	regs := NewRegistrationRepo(db)
	ctx := context.Background()

	a := seedUser(t, db, "a@example.com", "CUSTOMER")
	b := seedUser(t, db, "b@example.com", "CUSTOMER")
	if !bookOnce(t, db, a, wid) || !bookOnce(t, db, b, wid) {
		t.Fatal("seed bookings failed")
	}

	roster, err := regs.ListActiveByWorkshopForChef(ctx, wid, chefID)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("roster size = %d, want 2", len(roster))
	}
	if roster[0].Email != "a@example.com" {
		t.Fatalf("first entry = %s, want the earliest booking", roster[0].Email)
	}

	// Canceled registrations drop off the roster.
	if !cancelOnce(t, db, a, wid) {
		t.Fatal("cancel failed")
	}
	roster, err = regs.ListActiveByWorkshopForChef(ctx, wid, chefID)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster) != 1 || roster[0].Email != "b@example.com" {
		t.Fatalf("roster = %+v, want only b", roster)
	}

	// Another chef may not read the roster.
	otherUser := seedUser(t, db, "other@example.com", "CHEF")
	otherChef := seedChef(t, db, otherUser, "Chef Ben")
	if _, err := regs.ListActiveByWorkshopForChef(ctx, wid, otherChef); err != ErrForbidden {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	// Unknown workshop.
	if _, err := regs.ListActiveByWorkshopForChef(ctx, 9999, chefID); err != sql.ErrNoRows {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestListActiveByCustomer(t *testing.T) {
	db := newTestDB(t)
	chefUser := seedUser(t, db, "chef@example.com", "CHEF")
	chefID := seedChef(t, db, chefUser, "Chef Anna")
	w1 := seedWorkshop(t, db, chefID, 5)
	w2 := seedWorkshop(t, db, chefID, 5)
	regs := NewRegistrationRepo(db)
	ctx := context.Background()

	customer := seedUser(t, db, "cust@example.com", "CUSTOMER")
	if !bookOnce(t, db, customer, w1) || !bookOnce(t, db, customer, w2) {
		t.Fatal("seed bookings failed")
	}
	if !cancelOnce(t, db, customer, w1) {
		t.Fatal("cancel failed")
	}

	bookings, err := regs.ListActiveByCustomer(ctx, customer)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("bookings = %d, want 1", len(bookings))
	}
	if bookings[0].WorkshopID != w2 || bookings[0].ChefName != "Chef Anna" {
		t.Fatalf("booking = %+v", bookings[0])
	}
}
