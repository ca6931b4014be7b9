// Package auth provides the bearer credential attached to every API request.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned when no access token is configured.
var ErrNoToken = errors.New("no access token configured (set TALENT_TOKEN or token in the config file)")

// ExpiredError is returned when the configured token has already expired.
type ExpiredError struct {
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("access token expired at %s; sign in again", e.ExpiredAt.Format(time.RFC3339))
}

// BearerToken is a static access token. It is opaque to the rest of the
// console; the only thing read from it is the exp claim, so an expired
// token fails locally instead of round-tripping a 401.
type BearerToken struct {
	token string
	now   func() time.Time
}

// NewBearerToken wraps token. Surrounding whitespace and a leading
// "Bearer " prefix are stripped.
func NewBearerToken(token string) *BearerToken {
	token = strings.TrimSpace(token)
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	return &BearerToken{token: token, now: time.Now}
}

// Authorize sets the Authorization header on req.
func (b *BearerToken) Authorize(req *http.Request) error {
	if b.token == "" {
		return ErrNoToken
	}
	if expiresAt, ok := b.expiry(); ok && !b.now().Before(expiresAt) {
		return &ExpiredError{ExpiredAt: expiresAt}
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	return nil
}

// expiry reads the exp claim without verifying the signature; the server
// remains the authority on validity. Tokens that are not JWTs have no
// known expiry.
func (b *BearerToken) expiry() (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(b.token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
