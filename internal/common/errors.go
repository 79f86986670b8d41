// Package common holds the error sentinels shared across the service,
// repository, and HTTP layers. Repositories translate database failures
// into these values; handlers translate them into HTTP statuses.
package common

import "errors"

var (
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation (duplicate username or email).
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials indicates a failed password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a token that failed signature, expiry,
	// or payload validation. Callers must not distinguish the cause.
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden indicates an authenticated caller acting on a
	// resource owned by somebody else.
	ErrForbidden = errors.New("forbidden")
)
