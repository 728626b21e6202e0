package usertoken

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestPeekReadsClaimsWithoutVerification(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, err := Peek(signToken(t, expiry))
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.Subject)
	}
	if !claims.ExpiresAt.Equal(expiry) {
		t.Fatalf("expected expiry %v, got %v", expiry, claims.ExpiresAt)
	}
	if claims.Expired(time.Now()) {
		t.Fatalf("token should not read as expired")
	}
}

func TestPeekDetectsExpiredToken(t *testing.T) {
	claims, err := Peek(signToken(t, time.Now().Add(-time.Hour)))
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if !claims.Expired(time.Now()) {
		t.Fatalf("expected expired token")
	}
}

func TestPeekRejectsGarbage(t *testing.T) {
	if _, err := Peek("not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
	if _, err := Peek("   "); err == nil {
		t.Fatalf("expected error for blank token")
	}
}

func TestClaimsWithoutExpiryNeverExpire(t *testing.T) {
	var claims Claims
	if claims.Expired(time.Now()) {
		t.Fatalf("zero expiry must not report expired")
	}
}
