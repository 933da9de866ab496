package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Claims are the token payload fields the client consumes.
//
// Decoded without signature verification: the values personalize the UI
// and gate nothing. Real authorization happens server-side on every call.
type Claims struct {
	Subject string `json:"sub"`
	Expiry  int64  `json:"exp"`
}

// Expired reports whether the token's expiry has passed.
func (c Claims) Expired(now time.Time) bool {
	return c.Expiry > 0 && c.Expiry < now.Unix()
}

// ExpiresAt returns the expiry as a local timestamp.
func (c Claims) ExpiresAt() time.Time {
	return time.Unix(c.Expiry, 0)
}

// DecodeClaims extracts the payload claims from a JWT without verifying it.
func DecodeClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("malformed token: expected 3 segments, got %d", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("failed to decode token payload: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("failed to parse token claims: %w", err)
	}
	return claims, nil
}
