// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avelichko/taskkeeper/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenValidator checks a bearer token and returns its subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// UserResolver resolves a token subject to a stored user record.
type UserResolver interface {
	ResolveSubject(ctx context.Context, subject string) (*models.User, error)
}

// BearerAuth is a middleware that enforces bearer-token authentication.
//
// It extracts the token from the Authorization header, validates it,
// and resolves the token subject against the user store, so that a
// token whose user has disappeared since issuance is rejected. On
// success the resolved user is stored in the request context.
//
// Every failure produces the same 401 response with a WWW-Authenticate
// challenge; callers cannot tell a forged token from an expired one or
// from an unknown subject.
func BearerAuth(tokens TokenValidator, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			subject, err := tokens.Validate(token)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.ResolveSubject(r.Context(), subject)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "invalid authentication credentials", http.StatusUnauthorized)
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext extracts the authenticated user from the request
// context. Returns nil if the request did not pass BearerAuth.
func GetUserFromContext(ctx context.Context) *models.User {
	val := ctx.Value(userKey)
	if u, ok := val.(*models.User); ok {
		return u
	}
	return nil
}
