package repository

import (
	"context"
	"strings"
	"time"

	"github.com/pwarnimont/filmdb2/internal/dbx"
	"github.com/pwarnimont/filmdb2/internal/model"
	"github.com/pwarnimont/filmdb2/internal/utils"
)

const userColumns = "id,email,first_name,last_name,password_hash,role,is_active,failed_login_attempts,lockout_until,created_at,updated_at"

// UserRepo reads and writes the 'users' table.
type UserRepo struct{ DB dbx.DBTX }

func NewUserRepo(db dbx.DBTX) *UserRepo { return &UserRepo{DB: db} }

func scanUser(row rowScanner) (model.User, error) {
	var (
		u         model.User
		role      string
		lockout   dbTime
		createdAt dbTime
		updatedAt dbTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &role,
		&u.IsActive, &u.FailedLoginAttempts, &lockout, &createdAt, &updatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	u.LockoutUntil = lockout.Ptr()
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return u, nil
}

// Create hashes password with bcrypt and inserts u.  The email is
// normalised to lower case before it is stored.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return r.Insert(ctx, u)
}

// Insert writes u verbatim, including its id, hash and timestamps.
func (r *UserRepo) Insert(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, string(u.Role), u.IsActive,
		u.FailedLoginAttempts, nullTimeArg(u.LockoutUntil), timeArg(u.CreatedAt), timeArg(u.UpdatedAt))
	if isUniqueViolation(err, "email") {
		return ErrEmailExists
	}
	return err
}

// Update overwrites every column except id and created_at.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET email=?, first_name=?, last_name=?, password_hash=?, role=?, is_active=?,
		 failed_login_attempts=?, lockout_until=?, updated_at=? WHERE id=?`,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, string(u.Role), u.IsActive,
		u.FailedLoginAttempts, nullTimeArg(u.LockoutUntil), timeArg(u.UpdatedAt), u.ID)
	if isUniqueViolation(err, "email") {
		return ErrEmailExists
	}
	return err
}

// Exists reports whether a user with id is stored.
func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id=?", id).Scan(&n)
	return n > 0, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email))
	u, err := scanUser(row)
	return u, notFound(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	u, err := scanUser(row)
	return u, notFound(err)
}

// ListAll returns every account ordered by creation time.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// RecordFailedLogin stores the new failure count and, once the account
// crosses the threshold, the instant until which it stays locked.
func (r *UserRepo) RecordFailedLogin(ctx context.Context, id string, attempts int, lockoutUntil *time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts=?, lockout_until=? WHERE id=?",
		attempts, nullTimeArg(lockoutUntil), id)
	return err
}

// ResetFailedLogins clears the failure counter and any lockout.
func (r *UserRepo) ResetFailedLogins(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts=0, lockout_until=NULL WHERE id=?", id)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
