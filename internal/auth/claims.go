package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the subset of access token claims the service reads.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "anon" tokens are rejected
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
