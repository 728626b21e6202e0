package usertoken

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed access token")

// Claims is the subset of registered JWT claims the storefront cares about.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry has passed. Tokens without an
// exp claim never report expired.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Peek decodes a JWT's registered claims without verifying the signature.
// The storefront holds no verification keys; the token stays trusted until
// the API rejects it, and Peek only informs logging and display.
func Peek(token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, ErrMalformedToken
	}
	parser := jwt.NewParser()
	var registered jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(token, &registered); err != nil {
		return Claims{}, ErrMalformedToken
	}
	claims := Claims{Subject: registered.Subject}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}
