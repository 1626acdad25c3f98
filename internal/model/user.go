package model

import "time"

// User represents an application user record as stored in the `users`
// table. Only the bcrypt hash of the credential is persisted; the
// handlers never return PasswordHash to clients.
//
// Fields:
//  ID           – primary key identifier.
//  UserName     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  AccessType   – role enum (student, faculty, staff, administrator).
//  Email        – unique email address.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	UserName     string    // users.user_name
	PasswordHash string    // users.password_hash
	AccessType   string    // users.access_type
	Email        string    // users.email
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// AccessTypes is the fixed set of valid roles, mirroring the ENUM on
// users.access_type.
var AccessTypes = []string{"student", "faculty", "staff", "administrator"}

// ValidAccessType reports whether s is one of the enumerated roles.
func ValidAccessType(s string) bool {
	for _, t := range AccessTypes {
		if s == t {
			return true
		}
	}
	return false
}

// RefreshToken models an entry in the `refresh_tokens` table. The
// plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
