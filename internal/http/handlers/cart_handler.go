package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartAddRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	cv, err := h.Cart.View(cust.ID)
	if err != nil {
		return respondErr(c, "cart.view", err)
	}
	return c.JSON(fiber.Map{"items": cv.Items, "total": cv.Total})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	var in cartAddRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	pid, ok := validate.ID(in.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing product_id"})
	}
	if in.Qty < 1 {
		in.Qty = 1
	}
	if err := h.Cart.Add(cust.ID, pid, in.Qty); err != nil {
		return respondErr(c, "cart.add", err)
	}
	applog.Audit(c, "cart.add", map[string]any{"product": pid, "qty": in.Qty})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *CartHandler) UpdateQty(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	pid, ok := validate.ID(c.Params("productID"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	qty := validate.Qty(c.Query("qty", c.FormValue("qty")))
	if err := h.Cart.UpdateQty(cust.ID, pid, qty); err != nil {
		return respondErr(c, "cart.update", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	pid, ok := validate.ID(c.Params("productID"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Cart.Remove(cust.ID, pid); err != nil {
		return respondErr(c, "cart.remove", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	if err := h.Cart.Clear(cust.ID); err != nil {
		return respondErr(c, "cart.clear", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
