package model

import "time"

// Role is the account role stored in users.role.  Only two roles
// exist: ordinary users who see their own catalog and administrators
// who see every account.
type Role string

const (
	RoleUser  Role = "USER"  // default role assigned on registration
	RoleAdmin Role = "ADMIN" // may read and write every account
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account record as stored in the `users` table.
// The json tags are omitted here because these structs are used by
// the repository layer; the backup and auth packages define their
// own wire types.
//
// Fields:
//
//	ID                  – opaque string identifier.
//	Email               – unique email address, stored lower-cased.
//	FirstName/LastName  – display name parts.
//	PasswordHash        – bcrypt hashed password.
//	Role                – USER or ADMIN.
//	IsActive            – whether the account may log in.
//	FailedLoginAttempts – consecutive failed logins since the last success.
//	LockoutUntil        – login is refused until this instant (nullable).
//	CreatedAt/UpdatedAt – timestamps.
type User struct {
	ID                  string     // users.id
	Email               string     // users.email
	FirstName           string     // users.first_name
	LastName            string     // users.last_name
	PasswordHash        string     // users.password_hash
	Role                Role       // users.role
	IsActive            bool       // users.is_active
	FailedLoginAttempts int        // users.failed_login_attempts
	LockoutUntil        *time.Time // users.lockout_until (nullable)
	CreatedAt           time.Time  // users.created_at
	UpdatedAt           time.Time  // users.updated_at
}

// LockedAt reports whether the account is locked out at instant t.
func (u User) LockedAt(t time.Time) bool {
	return u.LockoutUntil != nil && t.Before(*u.LockoutUntil)
}

// RefreshToken models an entry in the `refresh_tokens` table.  The
// plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        int64      // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
