package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avelichko/taskkeeper/internal/common"
	"github.com/avelichko/taskkeeper/internal/config"
)

// TokenService issues and validates stateless HMAC-SHA256 access
// tokens. A token is valid iff its signature verifies, it has not
// expired, and it carries a non-empty subject; validity is a pure
// function of (token, current time, key). There is no revocation:
// an issued token stays valid until its expiry, which is why the TTL
// is kept short.
//
// All timestamps are taken from a single UTC clock, for issuance and
// validation alike.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService from the process-wide
// configuration. The signing secret is read once at construction and
// never changes afterwards.
func NewTokenService(cfg *config.Options) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue signs a token for the given subject, expiring at now + TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	return token.SignedString(s.secret)
}

// Validate parses and checks a token, returning its subject.
// Any failure (bad signature, malformed payload, expired, missing
// subject) yields common.ErrInvalidToken; the cause is deliberately
// not distinguished.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
