package model

import "time"

// Chef is the public-facing profile a CHEF user publishes recipes and
// workshops under.  There is exactly one chef row per CHEF user; it is
// created during chef registration.
type Chef struct {
	ID        uint64    // chefs.id
	UserID    uint64    // chefs.user_id (unique)
	ChefName  string    // chefs.chef_name, the display name on listings
	Bio       string    // chefs.bio
	CreatedAt time.Time // chefs.created_at
	UpdatedAt time.Time // chefs.updated_at
}
