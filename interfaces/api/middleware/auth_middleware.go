package middleware

import (
	"github.com/gofiber/fiber/v2"

	"faceregistry/pkg/utils"
)

// Protected guards the read-only gallery surface with a bearer JWT signed
// by the shared secret.
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, err := utils.ValidateToken(c.Get("Authorization"), jwtSecret)
		if err != nil {
			return utils.UnauthorizedResponse(c, "Not authenticated")
		}

		c.Locals("subject", subject)
		return c.Next()
	}
}
