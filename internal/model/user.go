package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Accounts are created inactive and become active once the
// e-mail verification link is followed.  The json tags are omitted here
// because these structs are primarily used internally by the repository
// layer; handlers define separate response types with appropriate tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	Role         – role name (CUSTOMER or CHEF).
//	FirstName    – given name, shown on profiles and rosters.
//	LastName     – family name.
//	IsActive     – whether the account has been activated by e-mail.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Role names stored in users.role and carried in the JWT "role" claim.
const (
	RoleCustomer = "CUSTOMER"
	RoleChef     = "CHEF"
)

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
