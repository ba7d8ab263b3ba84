// Package middleware provides the Fiber middleware shared by the HTTP routes.
package middleware

import (
	"strings"

	"github.com/amirasaad/donation/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JwtProtected rejects requests without a valid bearer token. The parsed
// token is stored in c.Locals("user").
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(secret(cfg))},
		ErrorHandler: jwtError,
	})
}

// OptionalJwt lets anonymous requests through but still rejects a bearer
// token that does not validate.
func OptionalJwt(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(secret(cfg))},
		ErrorHandler: jwtError,
		Filter: func(c *fiber.Ctx) bool {
			return strings.TrimSpace(c.Get(fiber.HeaderAuthorization)) == ""
		},
	})
}

func secret(cfg *config.Jwt) string {
	if cfg == nil {
		return ""
	}
	return cfg.Secret
}

func jwtError(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnauthorized
	title := "Invalid or expired JWT"
	if strings.EqualFold(err.Error(), "missing or malformed JWT") {
		status = fiber.StatusBadRequest
		title = "Missing or malformed JWT"
	}
	return c.Status(status).JSON(fiber.Map{
		"type":     "about:blank",
		"title":    title,
		"status":   status,
		"instance": c.OriginalURL(),
	}, "application/problem+json")
}
