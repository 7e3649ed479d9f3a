// Package store provides database access methods for all forum entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Multi-entity mutations (role changes, cascading deletes, moderator
// assignment) run inside single transactions.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/lssb2003/university-forum/internal/errs"
	"github.com/lssb2003/university-forum/internal/models"
)

const userColumns = `id, email, password_hash, role, totp_secret, totp_enabled, reset_sent_at, banned_at, ban_reason, created_at, updated_at`

// uniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Unique constraints are the conflict-detection mechanism for
// concurrent writes, so these surface as validation errors.
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.TOTPSecret, &u.TOTPEnabled,
		&u.ResetSentAt, &u.BannedAt, &u.BanReason, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// List returns all users ordered by creation date.
func (s *UserStore) List() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Create inserts a new user with a bcrypt-hashed password and the default
// "user" role. A duplicate email surfaces as a validation error.
func (s *UserStore) Create(email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, string(hash), models.RoleUser,
	)
	u, err := scanUser(row)
	if uniqueViolation(err) {
		return nil, errs.Validation("email has already been taken")
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the user's password hash.
func (s *UserStore) SetPassword(id uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.Exec(`UPDATE users SET password_hash = $1, reset_sent_at = NULL WHERE id = $2`, string(hash), id)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

// SetTemporaryPassword replaces the password hash with a temporary one
// generated for a password reset, and records when the reset was issued.
func (s *UserStore) SetTemporaryPassword(id uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash temporary password: %w", err)
	}
	_, err = s.db.Exec(`UPDATE users SET password_hash = $1, reset_sent_at = NOW() WHERE id = $2`, string(hash), id)
	if err != nil {
		return fmt.Errorf("set temporary password: %w", err)
	}
	return nil
}

// UpdateRole changes a user's role. Moving a user away from the
// moderator role purges all their moderator assignments in the same
// transaction; re-promoting later does not resurrect them.
func (s *UserStore) UpdateRole(id uuid.UUID, role models.Role) (*models.User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update role begin: %w", err)
	}
	defer tx.Rollback()

	if role != models.RoleModerator {
		if _, err := tx.Exec(`DELETE FROM moderators WHERE user_id = $1`, id); err != nil {
			return nil, fmt.Errorf("update role purge assignments: %w", err)
		}
	}

	row := tx.QueryRow(`UPDATE users SET role = $1 WHERE id = $2 RETURNING `+userColumns, role, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update role commit: %w", err)
	}
	return u, nil
}

// Ban marks the user as banned with a reason. Banned users cannot create
// new content but can still read.
func (s *UserStore) Ban(id uuid.UUID, reason string) (*models.User, error) {
	row := s.db.QueryRow(`
		UPDATE users SET banned_at = NOW(), ban_reason = $1 WHERE id = $2
		RETURNING `+userColumns, reason, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("ban user: %w", err)
	}
	return u, nil
}

// Unban clears the user's ban.
func (s *UserStore) Unban(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`
		UPDATE users SET banned_at = NULL, ban_reason = NULL WHERE id = $1
		RETURNING ` + userColumns, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("unban user: %w", err)
	}
	return u, nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(id uuid.UUID, secret string) error {
	_, err := s.db.Exec(`UPDATE users SET totp_secret = $1 WHERE id = $2`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE users SET totp_enabled = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}
