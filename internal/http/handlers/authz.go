package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireCustomer rejects requests without a logged-in session.
func RequireCustomer(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		cust, err := auth.Current(sid)
		if err != nil || cust == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		c.Locals("customer", cust)
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		cust, err := auth.Current(sid)
		if err != nil || cust == nil || cust.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		c.Locals("customer", cust)
		return c.Next()
	}
}
