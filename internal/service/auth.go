// Package service provides authentication and task business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelichko/taskkeeper/internal/common"
	"github.com/avelichko/taskkeeper/internal/models"
)

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	// UserExists returns true if a user with the given username or email exists.
	UserExists(ctx context.Context, username, email string) (bool, error)
	// CreateUser persists a new user record. A uniqueness violation is
	// reported as common.ErrConflict.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByUsername fetches a user by username, or common.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateProfile applies the non-nil fields to the user's profile and
	// returns the updated record.
	UpdateProfile(ctx context.Context, id string, name, email, phone *string) (*models.User, error)
	// UpdatePasswordHash replaces the stored password hash in one statement.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// AuthService implements registration, login, and credential management.
type AuthService struct {
	repo   UserRepository
	hasher *PasswordHasher
	tokens *TokenService
}

// NewAuthService constructs an AuthService using the provided
// repository, password hasher, and token service.
func NewAuthService(repo UserRepository, hasher *PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates a new user with a hashed password and empty profile
// fields. It returns common.ErrConflict if the username or email is
// taken. The pre-check is advisory only: two racing registrations are
// decided by the store's unique constraints, and the loser's insert
// failure also surfaces as common.ErrConflict.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	exists, err := s.repo.UserExists(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}
	if exists {
		return nil, common.ErrConflict
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues an access token whose
// subject is the username. An unknown username and a wrong password
// both yield common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Username)
}

// ResolveSubject looks up the user a token subject refers to.
// Used by the auth middleware after token validation.
func (s *AuthService) ResolveSubject(ctx context.Context, subject string) (*models.User, error) {
	return s.repo.GetUserByUsername(ctx, subject)
}

// UpdatePassword replaces the user's password hash after verifying the
// old password; a failed check returns common.ErrInvalidCredentials
// and leaves the stored hash untouched. Tokens issued before the
// change remain valid until their own expiry.
func (s *AuthService) UpdatePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, user.ID, hash)
}

// UpdateProfile applies a partial update: only non-nil fields are
// written, omitted ones keep their prior value. Email uniqueness is
// not re-checked here; the store's constraint still applies and a
// collision comes back as common.ErrConflict.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, name, email, phone *string) (*models.User, error) {
	return s.repo.UpdateProfile(ctx, userID, name, email, phone)
}
