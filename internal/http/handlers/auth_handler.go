package handlers

import (
	"time"

	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentials struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid name"})
	}
	if !validate.Password(in.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password too weak"})
	}

	cust, err := h.Auth.Register(sid, email, name, in.Password)
	if err != nil {
		applog.Error(c, "auth.register.fail", err, map[string]any{"email": email})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "could not register"})
	}
	applog.Audit(c, "auth.register", map[string]any{"customer_id": cust.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": cust.ID, "name": cust.Name})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	email, ok := validate.Email(in.Email)
	if !ok || !validate.Password(in.Password) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}

	cust, err := h.Auth.Login(sid, email, in.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}
	applog.Audit(c, "auth.login.success", map[string]any{"customer_id": cust.ID})
	return c.JSON(fiber.Map{"id": cust.ID, "name": cust.Name, "telegram_linked": cust.TelegramActivated()})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// TelegramLink hands the logged-in customer a deep link for the bot; opening
// it sends "/start <code>" which the webhook turns into a chat binding.
func (h *AuthHandler) TelegramLink(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	code, err := h.Auth.TelegramLinkCode(cust.ID)
	if err != nil {
		return respondErr(c, "auth.telegram.link", err)
	}
	return c.JSON(fiber.Map{"code": code})
}
