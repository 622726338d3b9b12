package model

import "time"

// Category groups a chef's recipes.  Slugs are derived from the name and
// unique per chef so they can appear in URLs.
//
// Fields:
//
//	ID          – primary key identifier.
//	ChefID      – owning chef.
//	Name        – display name, capitalized on save.
//	Slug        – URL-safe identifier derived from Name.
//	Description – optional free text.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Category struct {
	ID          uint64    // categories.id
	ChefID      uint64    // categories.chef_id
	Name        string    // categories.name
	Slug        string    // categories.slug
	Description string    // categories.description
	CreatedAt   time.Time // categories.created_at
	UpdatedAt   time.Time // categories.updated_at
}

// Recipe is a published recipe item belonging to a chef and one of the
// chef's categories.  Preparation time is stored as whole minutes.
//
// Fields:
//
//	ID           – primary key identifier.
//	ChefID       – owning chef.
//	CategoryID   – category the recipe is filed under.
//	Title        – recipe title.
//	Slug         – URL-safe identifier derived from Title.
//	Ingredients  – free-text ingredient list.
//	Instructions – free-text preparation steps.
//	PrepMinutes  – preparation time in minutes.
//	ImageURL     – optional link to an uploaded image.
//	ExternalLink – optional link to an external source.
//	CreatedAt    – creation timestamp.
//	UpdatedAt    – last update timestamp.
type Recipe struct {
	ID           uint64    // recipes.id
	ChefID       uint64    // recipes.chef_id
	CategoryID   uint64    // recipes.category_id
	Title        string    // recipes.title
	Slug         string    // recipes.slug
	Ingredients  string    // recipes.ingredients
	Instructions string    // recipes.instructions
	PrepMinutes  uint32    // recipes.prep_minutes
	ImageURL     *string   // recipes.image_url (nullable)
	ExternalLink *string   // recipes.external_link (nullable)
	CreatedAt    time.Time // recipes.created_at
	UpdatedAt    time.Time // recipes.updated_at
}
