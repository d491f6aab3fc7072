package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserIDFromToken decodes the bearer token locally, without verifying the
// signature, to derive the X-User-Id header value. The token stays opaque
// otherwise; verification is the backend's job.
func UserIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}
	if id, ok := claims["idUser"].(string); ok && id != "" {
		return id, nil
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	return "", fmt.Errorf("token carries no user identifier")
}

// TokenExpired reports whether the token's exp claim is in the past. A
// token that cannot be decoded counts as expired.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(now)
}

// UserID resolves the current user's ID, preferring the loaded profile and
// falling back to the locally decoded token.
func (s *Store) UserID() (string, error) {
	if user := s.User(); user != nil && user.ID != "" {
		return user.ID, nil
	}
	token, err := s.storage.AccessToken()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("not signed in")
	}
	return UserIDFromToken(token)
}
