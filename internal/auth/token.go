// Package auth issues session tokens and hashes passwords.
package auth

import (
	"fmt"
	"time"

	"parcelpeer/internal/entities"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session token claims.
type Claims struct {
	UserID string        `json:"uid"`
	Role   entities.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and parses HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token service.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the user.
func (t *Tokens) Issue(userID string, role entities.Role) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// Parse validates a token and returns the caller it names.
func (t *Tokens) Parse(token string) (entities.Actor, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return entities.Actor{}, fmt.Errorf("%w: %v", entities.ErrUnauthorized, err)
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || c.UserID == "" {
		return entities.Actor{}, fmt.Errorf("%w: %v", entities.ErrUnauthorized, jwt.ErrTokenInvalidClaims)
	}
	if !c.Role.Valid() {
		return entities.Actor{}, fmt.Errorf("%w: unknown role %q", entities.ErrUnauthorized, c.Role)
	}
	return entities.Actor{ID: c.UserID, Role: c.Role}, nil
}
