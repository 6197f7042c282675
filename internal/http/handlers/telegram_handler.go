package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/telegram"

	"github.com/gofiber/fiber/v2"
)

type TelegramHandler struct {
	Notify *services.NotifyService
}

// Webhook receives bot updates; only the /start activation flow is handled,
// everything else is acknowledged and dropped.
func (h *TelegramHandler) Webhook(c *fiber.Ctx) error {
	var u telegram.Update
	if err := c.BodyParser(&u); err != nil {
		applog.Security(c, "telegram.webhook.badbody", nil)
		return c.SendStatus(fiber.StatusOK) // never make the bot API retry
	}
	h.Notify.HandleUpdate(c.Context(), u)
	return c.JSON(fiber.Map{"ok": true})
}
