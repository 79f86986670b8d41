// Package http provides HTTP handlers for user registration,
// authentication, and profile management.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelichko/taskkeeper/internal/common"
	"github.com/avelichko/taskkeeper/internal/middleware"
	"github.com/avelichko/taskkeeper/internal/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new user, or fails with common.ErrConflict.
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	// Login verifies credentials and returns an access token.
	Login(ctx context.Context, username, password string) (string, error)
	// UpdatePassword verifies the old password and stores a new hash.
	UpdatePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error
	// UpdateProfile applies the non-nil profile fields.
	UpdateProfile(ctx context.Context, userID string, name, email, phone *string) (*models.User, error)
}

// AuthHandler handles HTTP requests for registration, login, and profile.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// profileResponse is the public view of a user; the password hash is
// never part of any response.
type profileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Root responds to unauthenticated health-check style requests.
func (h *AuthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Task Management App API"})
}

// Register handles POST /register.
// It expects a JSON body with username, email, and password; a taken
// username or email yields 400. On success it returns the public
// profile of the new user, with empty name and phone.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			http.Error(w, "username or email already registered", http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, profileResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
	})
}

// Login handles POST /login.
// Credentials arrive form-encoded (username, password). Unknown users
// and wrong passwords produce the same 401 with a bearer challenge.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	token, err := h.AuthService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Profile handles GET /profile, returning the authenticated user's
// public profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	writeJSON(w, http.StatusOK, profileResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
	})
}

// UpdateProfileRequest represents the JSON payload for a partial
// profile update. Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// UpdateProfile handles PUT /profile.
// Only the provided fields are applied. An email that collides with
// another account's yields 409.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	updated, err := h.AuthService.UpdateProfile(r.Context(), user.ID, req.Name, req.Email, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, common.ErrConflict):
			http.Error(w, "email already registered", http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":    updated.ID,
		"name":  updated.Name,
		"email": updated.Email,
		"phone": updated.Phone,
	})
}

// UpdatePasswordRequest represents the JSON payload for a password change.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdatePassword handles PUT /update-password.
// A wrong old password yields 400 and leaves the stored hash unchanged.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.OldPassword == "" || req.NewPassword == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.UpdatePassword(r.Context(), user, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			http.Error(w, "incorrect old password", http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
