// Package repository provides PostgreSQL persistence implementations
// for the user and task services.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/avelichko/taskkeeper/internal/common"
	"github.com/avelichko/taskkeeper/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a unique-constraint
// failure. Racing inserts that lose to a concurrent registration land
// here rather than in the advisory pre-check.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// PostgresUserRepository implements user persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with
// the given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// UserExists checks whether a user with the given username or email
// already exists. Matching is case-sensitive and exact.
func (r *PostgresUserRepository) UserExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("UserExists: %w", err)
	}
	return exists, nil
}

// CreateUser inserts a new user record. A unique-constraint violation
// on username or email is translated to common.ErrConflict.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, name, email, phone, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Username, user.Name, user.Email, user.Phone, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("CreateUser: %w", err)
	}
	return nil
}

// GetUserByUsername fetches a user by username.
// Returns common.ErrNotFound if no such user exists.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, name, email, phone, password_hash, created_at
		  FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("GetUserByUsername: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields to the user's profile and
// returns the updated record. Omitted fields keep their prior value.
// Returns common.ErrNotFound if the user is absent and
// common.ErrConflict if the new email collides with another user's.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id string, name, email, phone *string) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx, `
		UPDATE users
		   SET name  = COALESCE($2, name),
		       email = COALESCE($3, email),
		       phone = COALESCE($4, phone)
		 WHERE id = $1
		 RETURNING id, username, name, email, phone, password_hash, created_at
	`, id, name, email, phone).Scan(&user.ID, &user.Username, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("UpdateProfile: %w", err)
	}
	return user, nil
}

// UpdatePasswordHash replaces the stored password hash in a single
// statement. Returns common.ErrNotFound if the user is absent.
func (r *PostgresUserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("UpdatePasswordHash: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
