package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims mirrors the backend's JWT payload: registered claims plus
// the comma-separated roles list and the MFA flag.
type tokenClaims struct {
	jwt.RegisteredClaims
	Roles        string `json:"roles"`
	Is2faEnabled bool   `json:"is2faEnabled"`
}

// Claims is the locally decoded view of a backend token. The server signed
// the token and verifies it on every call; the client only reads the
// payload, so no signature check happens here.
type Claims struct {
	Subject      string
	Roles        []string
	Is2faEnabled bool
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// DecodeClaims parses the token payload without verifying the signature.
func DecodeClaims(token string) (*Claims, error) {
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return nil, fmt.Errorf("decoding token claims: %w", err)
	}

	c := &Claims{Subject: tc.Subject, Is2faEnabled: tc.Is2faEnabled}
	if tc.Roles != "" {
		for _, r := range strings.Split(tc.Roles, ",") {
			if r = strings.TrimSpace(r); r != "" {
				c.Roles = append(c.Roles, r)
			}
		}
	}
	if tc.IssuedAt != nil {
		c.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}

// Expired reports whether the token's expiry claim is in the past.
// Tokens without an expiry claim never read as expired.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}
