// Package session decides the client's initial authentication state
// from the locally stored token, without a network round trip. The
// token's expiry claim is read with an unverified parse: signature
// verification is the server's job, the client only wants to know
// whether presenting the token is worth a request at all. The
// /auth/check-token endpoint remains authoritative.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// State is the client's authentication state at startup.
type State int

const (
	// NotAuthenticated means no token is stored or it is expired.
	NotAuthenticated State = iota
	// Checking means a plausible token exists and must be validated
	// against the server before the client is considered logged in.
	Checking
)

// TokenState classifies a stored token. An unparseable token is treated
// as expired rather than an error: the only consequence either way is a
// trip through the login form.
func TokenState(token string) State {
	if token == "" {
		return NotAuthenticated
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return NotAuthenticated
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		// No expiry claim: let the server decide.
		return Checking
	}
	if time.Now().After(expiry.Time) {
		return NotAuthenticated
	}
	return Checking
}
