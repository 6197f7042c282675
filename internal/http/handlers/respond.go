package handlers

import (
	"database/sql"
	"errors"

	"bazaar/internal/domain"
	applog "bazaar/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

func currentCustomer(c *fiber.Ctx) *domain.Customer {
	cust, _ := c.Locals("customer").(*domain.Customer)
	return cust
}

// respondErr maps service errors onto JSON API responses: business-rule
// violations are 400, missing or unowned resources 404, the rest 500.
func respondErr(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrAddressRequired):
		applog.Info(c, action, map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	default:
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
