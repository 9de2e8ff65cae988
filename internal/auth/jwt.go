// Package auth provides token issuing/verification, password hashing and the
// owner-or-admin access control gate.
//
// Authentication flow:
//  1. POST /users/ registers an account (password bcrypt-hashed on creation)
//  2. POST /token exchanges username+password for a signed JWT access token
//  3. Protected routes present it as `Authorization: Bearer <token>`
//  4. Middleware verifies the token and loads the user fresh from the store
//
// The token only carries identity (the pseudo in the `sub` claim). It never
// carries authorization level: the admin flag is re-read from the user store
// on every request, so revoking admin rights takes effect immediately even
// for tokens issued before the change.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "pastebin"

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and expiry.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrMissingClaim reports a well-signed token without a subject claim.
	ErrMissingClaim = errors.New("auth: token has no subject claim")
)

// TokenService issues and verifies signed, time-limited access tokens.
//
// It holds the process-wide HMAC secret and token TTL, both established once
// at startup from the configuration and immutable afterwards.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with the given secret and
// issuing tokens valid for ttl. The secret should be at least 32 bytes of
// random data in production (e.g. openssl rand -hex 32).
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs an access token for the given subject pseudo,
// expiring at issue time + TTL.
func (s *TokenService) Issue(pseudo string) (string, error) {
	return s.IssueWithDuration(pseudo, s.ttl)
}

// IssueWithDuration creates a token with a custom lifetime. Used by tests to
// produce already-expired tokens.
func (s *TokenService) IssueWithDuration(pseudo string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   pseudo,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and verifies a token string and returns the subject pseudo.
//
// Pinning the accepted algorithm to HS256 closes the algorithm-confusion
// hole where an attacker submits a token declaring alg=none.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if c.Subject == "" {
		return "", ErrMissingClaim
	}

	return c.Subject, nil
}
