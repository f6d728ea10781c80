// Package session reads the claims of the stored bearer token. The signature
// is not verified; the server remains the only authority on validity.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned when there is nothing to inspect.
var ErrNoToken = errors.New("no token stored")

// Info is what the client can learn from a token without the signing key.
type Info struct {
	Subject   string
	Role      string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasExpiry reports whether the token carried an exp claim.
func (i Info) HasExpiry() bool { return !i.ExpiresAt.IsZero() }

// Expired reports whether exp has passed at now. Tokens without exp never
// expire client-side.
func (i Info) Expired(now time.Time) bool {
	return i.HasExpiry() && !now.Before(i.ExpiresAt)
}

// Remaining is the time left before expiry, zero once expired or when unknown.
func (i Info) Remaining(now time.Time) time.Duration {
	if !i.HasExpiry() {
		return 0
	}
	return max(i.ExpiresAt.Sub(now), 0)
}

// Inspect parses token without verifying it. A "Bearer " prefix is tolerated.
func Inspect(token string) (Info, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Info{}, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{}, fmt.Errorf("parse token: %w", err)
	}

	var info Info
	info.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	info.Role = stringClaim(claims, "role", "authorities")
	info.UserID = intClaim(claims, "userId", "user_id", "uid")
	return info, nil
}

func stringClaim(claims jwt.MapClaims, names ...string) string {
	for _, name := range names {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}

func intClaim(claims jwt.MapClaims, names ...string) int64 {
	for _, name := range names {
		// MapClaims decodes numbers as float64.
		if v, ok := claims[name].(float64); ok {
			return int64(v)
		}
	}
	return 0
}
