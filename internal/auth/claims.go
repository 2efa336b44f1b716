package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload issued by the backend on login.
type Claims struct {
	UserID string `json:"uid"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// UserFromToken decodes the user identity embedded in a bearer token. The
// backend is the signature verifier; the console only reads the claims, but
// it does honor expiry so a stale session fails before any network call.
func UserFromToken(raw string) (User, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return User{}, ErrBadToken
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return User{}, ErrTokenExpired
	}
	return User{
		ID:   claims.UserID,
		Name: claims.Name,
		Role: ParseRole(claims.Role),
	}, nil
}
