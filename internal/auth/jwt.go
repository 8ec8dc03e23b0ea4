// Package auth issues and validates the signed identity tokens used by the
// HTTP layer. Tokens are HS256 JWTs carrying the user id as the subject claim.
package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no bearer token is present.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidToken is returned when the token signature or structure is invalid.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrInvalidSubject is returned when the subject claim is missing or not
	// parseable as a user id.
	ErrInvalidSubject = errors.New("invalid token: user id must be an integer")
)

// DefaultValidity is how long an issued token remains valid.
const DefaultValidity = 10 * time.Hour

// TokenManager signs and verifies identity tokens with a shared secret.
// It is stateless; two managers with the same secret accept each other's tokens.
type TokenManager struct {
	secret   []byte
	validity time.Duration
}

// NewTokenManager constructs a TokenManager. A non-positive validity falls
// back to DefaultValidity.
func NewTokenManager(secret string, validity time.Duration) *TokenManager {
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &TokenManager{secret: []byte(secret), validity: validity}
}

// Issue mints a signed token for the given user id.
func (m *TokenManager) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate verifies the token's signature and expiry and returns the user id
// encoded in the subject claim.
func (m *TokenManager) Validate(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidToken
	}
	if !parsed.Valid {
		return 0, ErrInvalidToken
	}

	if claims.Subject == "" {
		return 0, ErrInvalidSubject
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidSubject
	}
	return userID, nil
}

// TokenFromHeader extracts the raw token from an "Authorization: Bearer <token>"
// header value.
func TokenFromHeader(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}
	return parts[1], nil
}
