package session

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/mailadmin/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ExpiryPolicy decides whether the client looks at a token's expiry.
type ExpiryPolicy string

const (
	// ExpiryIgnore accepts any non-empty token; the server is the only judge.
	ExpiryIgnore ExpiryPolicy = "ignore"
	// ExpiryCheck rejects tokens that are JWTs with an exp claim in the past.
	// Opaque tokens are still accepted.
	ExpiryCheck ExpiryPolicy = "check"
)

func ParseExpiryPolicy(s string) (ExpiryPolicy, error) {
	switch p := ExpiryPolicy(s); p {
	case ExpiryIgnore, ExpiryCheck:
		return p, nil
	default:
		return "", fmt.Errorf("unknown expiry policy %q", s)
	}
}

// TokenExpired reports whether token is a JWT whose exp claim is not after
// now. The signature is not verified; the client has no key and only uses
// the claim to avoid sending requests that are bound to fail.
func TokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Validate applies policy to token. It returns common.ErrInvalidToken for
// an empty token and common.ErrTokenExpired for an expired one.
func (p ExpiryPolicy) Validate(token string, now time.Time) error {
	if token == "" {
		return common.ErrInvalidToken
	}
	if p == ExpiryCheck && TokenExpired(token, now) {
		return common.ErrTokenExpired
	}
	return nil
}

// Usable reports whether Validate accepts token.
func (p ExpiryPolicy) Usable(token string, now time.Time) bool {
	return p.Validate(token, now) == nil
}
