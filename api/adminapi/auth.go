package adminapi

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/guidebook-kb/guidebook/auth"
	"github.com/guidebook-kb/guidebook/storage/model"
)

// authMiddleware only lets admins through. Callers either carry an admin
// session cookie or send HTTP Basic credentials of an admin account.
func authMiddleware(gate *auth.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := gate.Identity(c)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
		}
		if id.IsAdmin() {
			return c.Next()
		}

		username, password, ok := parseBasicAuth(c)
		if !ok {
			c.Set(fiber.HeaderWWWAuthenticate, "Basic realm=admin")
			return c.Status(fiber.StatusUnauthorized).JSON(errorInvalidClient("missing credentials"))
		}
		account, err := gate.Authenticate(username, password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.Set(fiber.HeaderWWWAuthenticate, "Basic realm=admin")
				return c.Status(fiber.StatusUnauthorized).JSON(errorInvalidClient("invalid credentials"))
			}
			return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
		}
		if account.Role != model.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(errorForbidden("admin role required"))
		}
		return c.Next()
	}
}

// parseBasicAuth extracts Basic auth credentials from request headers
func parseBasicAuth(c *fiber.Ctx) (username, password string, ok bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	const prefix = "Basic "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", "", false
	}
	b, err := base64.StdEncoding.DecodeString(authHeader[len(prefix):])
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(b), ":")
}
