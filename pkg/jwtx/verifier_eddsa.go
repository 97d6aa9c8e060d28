package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")

	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Verifier validates a tab cookie and returns its claims.
type Verifier interface {
	Verify(token string) (TabClaims, error)
}

// EdDSAVerifier validates JWTs signed by an EdDSASigner.
type EdDSAVerifier struct {
	kid    string
	pub    ed25519.PublicKey
	issuer string
	aud    []string
	now    func() time.Time
}

// NewVerifierEdDSA creates a verifier for a single Ed25519 public key.
func NewVerifierEdDSA(kid string, pub ed25519.PublicKey, issuer string, aud []string) *EdDSAVerifier {
	return &EdDSAVerifier{kid: kid, pub: pub, issuer: issuer, aud: aud, now: time.Now}
}

// Verify validates the JWT string and returns its parsed claims.
func (v *EdDSAVerifier) Verify(tokenStr string) (TabClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims TabClaims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if kid, _ := t.Header["kid"].(string); kid != v.kid {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}
		return v.pub, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return TabClaims{}, ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return TabClaims{}, ErrInvalidSig
	case err != nil:
		return TabClaims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	case !token.Valid:
		return TabClaims{}, ErrInvalidClaim
	}

	if err := claims.ValidateSubject(); err != nil {
		return TabClaims{}, err
	}
	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return TabClaims{}, err
	}
	if err := claims.ValidateAudience(v.aud); err != nil {
		return TabClaims{}, err
	}
	if err := claims.ValidateExpiry(v.now()); err != nil {
		return TabClaims{}, err
	}
	return claims, nil
}
