package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestInspect(t *testing.T) {
	exp := time.Date(2025, 3, 21, 12, 0, 0, 0, time.UTC)
	iat := exp.Add(-24 * time.Hour)
	token := sign(t, jwt.MapClaims{
		"sub":    "amy",
		"role":   "ADMIN",
		"userId": 42,
		"exp":    exp.Unix(),
		"iat":    iat.Unix(),
	})

	info, err := Inspect(token)
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if info.Subject != "amy" || info.Role != "ADMIN" || info.UserID != 42 {
		t.Fatalf("Inspect = %+v", info)
	}
	if !info.ExpiresAt.Equal(exp) || !info.IssuedAt.Equal(iat) {
		t.Fatalf("times = %v / %v, want %v / %v", info.IssuedAt, info.ExpiresAt, iat, exp)
	}

	if info.Expired(exp.Add(-time.Minute)) {
		t.Fatalf("expired a minute before exp")
	}
	if !info.Expired(exp) {
		t.Fatalf("not expired at exp")
	}
	if got := info.Remaining(exp.Add(-time.Hour)); got != time.Hour {
		t.Fatalf("Remaining = %v, want 1h", got)
	}
	if got := info.Remaining(exp.Add(time.Hour)); got != 0 {
		t.Fatalf("Remaining after expiry = %v, want 0", got)
	}
}

func TestInspectExpiredTokenStillReadable(t *testing.T) {
	token := sign(t, jwt.MapClaims{"sub": "bob", "exp": time.Now().Add(-time.Hour).Unix()})
	info, err := Inspect("Bearer " + token)
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if info.Subject != "bob" || !info.Expired(time.Now()) {
		t.Fatalf("Inspect = %+v", info)
	}
}

func TestInspectWithoutExpiry(t *testing.T) {
	info, err := Inspect(sign(t, jwt.MapClaims{"sub": "c", "authorities": []any{"USER"}}))
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if info.HasExpiry() || info.Expired(time.Now()) || info.Remaining(time.Now()) != 0 {
		t.Fatalf("expected no expiry, got %+v", info)
	}
	if info.Role != "USER" {
		t.Fatalf("Role = %q, want USER", info.Role)
	}
}

func TestInspectErrors(t *testing.T) {
	if _, err := Inspect("  "); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Inspect(blank) = %v, want ErrNoToken", err)
	}
	if _, err := Inspect("not.a.jwt"); err == nil {
		t.Fatalf("expected parse error")
	}
}
