package models

import "github.com/golang-jwt/jwt/v5"

// Roles recognized by the authorization middleware. Tokens are issued by
// the platform's identity service; this service only consumes them.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleService = "service"
)

// UserClaims is the JWT payload attached to authenticated requests.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the claims carry the admin role.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsService reports whether the claims belong to an internal platform
// service such as the tournament engine.
func (c *UserClaims) IsService() bool {
	return c.Role == RoleService
}
