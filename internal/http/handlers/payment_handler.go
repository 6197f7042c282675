package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	Pay *services.PaymentService
}

// Start creates a hosted payment page for one of the customer's new orders.
func (h *PaymentHandler) Start(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	oid, ok := validate.ID(c.Params("orderID"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	res, err := h.Pay.Start(c.Context(), oid, cust.ID)
	if err != nil {
		return respondErr(c, "payment.start", err)
	}
	if !res.Success {
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}
	applog.Audit(c, "payment.start", map[string]any{"order_id": oid, "tran_ref": res.TranRef})
	return c.JSON(res)
}

// Callback receives the gateway's signed server-to-server callback.
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	args := c.Request().PostArgs()
	fields := make(map[string]string, args.Len())
	args.VisitAll(func(k, v []byte) { fields[string(k)] = string(v) })
	signature := fields["signature"]

	if err := h.Pay.HandleCallback(fields, signature); err != nil {
		applog.Security(c, "payment.callback.reject", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rejected"})
	}
	applog.Audit(c, "payment.callback", map[string]any{"tran_ref": fields["tran_ref"]})
	return c.JSON(fiber.Map{"ok": true})
}
