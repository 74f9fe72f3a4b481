// Package handlers contains the fiber HTTP handlers. Handlers stay
// thin: they parse and validate the request shape, call a service and
// map the outcome onto the wire.
package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	domainErrors "arena/internal/errors"
	"arena/internal/models"
)

// HeaderIdempotencyKey carries the client-chosen key for idempotent
// writes.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLength = 64

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// idempotencyKey reads and bounds the Idempotency-Key header. Presence
// is enforced by the services that require one.
func idempotencyKey(c *fiber.Ctx) (string, error) {
	key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
	if len(key) > maxIdempotencyKeyLength {
		return "", domainErrors.Validation("idempotency key must be at most %d characters", maxIdempotencyKeyLength)
	}
	return key, nil
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, domainErrors.Validation("invalid %s parameter", name)
	}
	return uint(id), nil
}

// parseTimestamp accepts RFC3339 or a plain date.
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
