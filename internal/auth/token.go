package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySkew treats tokens that expire within this window as already expired.
const expirySkew = 30 * time.Second

// TokenExpiry decodes the exp claim of a JWT without verifying its signature.
// Tokens without an exp claim return the zero time.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// CheckToken returns ErrTokenExpired if token expires before now plus a small skew.
// Opaque (non-JWT) tokens are accepted as-is and left for the backend to judge.
func CheckToken(token string, now time.Time) error {
	if token == "" {
		return ErrNotLoggedIn
	}
	exp, err := TokenExpiry(token)
	if err != nil || exp.IsZero() {
		return nil
	}
	if !now.Add(expirySkew).Before(exp) {
		return fmt.Errorf("%w (expired %s)", ErrTokenExpired, exp.Local().Format(time.RFC1123))
	}
	return nil
}
