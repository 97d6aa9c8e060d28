package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// DefaultTabTTL bounds how long a tab cookie stays valid even when the
// webview is never closed.
const DefaultTabTTL = 12 * time.Hour

// TabClaims are the claims of a tab cookie. The subject is the tab id.
type TabClaims struct {
	jwt.RegisteredClaims
}

// TabID returns the tab the claims identify.
func (c *TabClaims) TabID() string { return c.Subject }

// NewTabClaims builds minimally-correct claims for a tab.
func NewTabClaims(tabID, issuer string, audience []string, ttl time.Duration, now time.Time) TabClaims {
	return TabClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   tabID,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        ulid.Make().String(),
		},
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *TabClaims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *TabClaims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *TabClaims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateSubject rejects claims without a tab id.
func (c *TabClaims) ValidateSubject() error {
	if c.Subject == "" {
		return ErrInvalidClaim
	}
	return nil
}
