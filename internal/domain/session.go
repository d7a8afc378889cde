package domain

import "github.com/golang-jwt/jwt/v5"

// Roles carried in session claims.
const (
	RoleAdmin = "admin"
)

// Claims is the session context attached to every authenticated request.
// It replaces any process-wide "logged in" flag: handlers read it from the
// request context, so concurrent sessions stay independent.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the session may use the admin panel routes.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
