// Package middleware provides HTTP middleware components for the application.
// It includes authentication and role guards used with the fiber web
// framework.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"arena/internal/config"
	"arena/internal/models"
)

// ClaimsKey is the fiber.Ctx locals key the auth middleware stores the
// verified claims under.
const ClaimsKey = "claims"

// AuthMiddleware validates JWT bearer tokens and adds the user claims
// to the request context.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(config.GetEnv("JWT_SECRET", "dev-secret")),
	}
}

// Handler checks for an Authorization header with a Bearer token,
// verifies the signature and expiry, and stores the claims in locals.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		log.Debugf("token validation failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	c.Locals(ClaimsKey, claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// ClaimsFromContext returns the verified claims stored by Handler, or
// nil when the request was not authenticated.
func ClaimsFromContext(c *fiber.Ctx) *models.UserClaims {
	claims, ok := c.Locals(ClaimsKey).(*models.UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// RequireAdmin rejects requests whose claims do not carry the admin
// role.
func RequireAdmin(c *fiber.Ctx) error {
	claims := ClaimsFromContext(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	if !claims.IsAdmin() {
		log.WithFields(log.Fields{
			"user_id": claims.UserID,
			"role":    claims.Role,
			"path":    c.Path(),
		}).Warn("admin access denied")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
	return c.Next()
}

// RequireService restricts a route to internal service callers such as
// the tournament engine. Admins pass as well.
func RequireService(c *fiber.Ctx) error {
	claims := ClaimsFromContext(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	if !claims.IsService() && !claims.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
	return c.Next()
}
