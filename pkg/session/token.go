package session

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reports when the current bearer token expires, when the token
// is a JWT carrying an exp claim. The claim is read without signature
// verification; only the server can vouch for the token, the client merely
// surfaces the expiry for display. ok is false for opaque or absent tokens.
func (s *Store) TokenExpiry() (expiry time.Time, ok bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
