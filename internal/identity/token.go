package identity

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry determines when an ID token expires. The exp claim is read
// from the JWT without signature verification; the token was just issued
// to us over TLS and is only inspected for scheduling the refresh. The
// provider's expiresIn field is the fallback for opaque tokens.
func tokenExpiry(idToken, expiresIn string) time.Time {
	if idToken != "" {
		parser := jwt.NewParser()
		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(idToken, claims); err == nil {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				return exp.Time
			}
		}
	}

	seconds, err := strconv.Atoi(expiresIn)
	if err != nil || seconds <= 0 {
		seconds = 3600
	}
	return time.Now().Add(time.Duration(seconds) * time.Second)
}
