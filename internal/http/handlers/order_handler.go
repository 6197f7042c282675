package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Order *services.OrderService
}

type placeOrderRequest struct {
	// Per-store destination for physical stores; digital stores need none.
	Addresses map[string]struct {
		CityID  string `json:"city_id"`
		Address string `json:"address"`
	} `json:"addresses"`
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	var in placeOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}

	addresses := make(map[string]services.AddressInput, len(in.Addresses))
	for storeID, a := range in.Addresses {
		addr, _ := validate.Address(a.Address)
		addresses[storeID] = services.AddressInput{CityID: a.CityID, Address: addr}
	}

	ids, err := h.Order.Place(cust.ID, addresses)
	if err != nil {
		return respondErr(c, "order.place.fail", err)
	}
	applog.Audit(c, "order.place", map[string]any{"customer_id": cust.ID, "order_ids": ids})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order_ids": ids})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	detail, err := h.Order.Get(oid, cust.ID)
	if err != nil {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.JSON(fiber.Map{
		"order":   detail.Order,
		"items":   detail.Items,
		"history": detail.History,
	})
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	orders, err := h.Order.History(cust.ID)
	if err != nil {
		return respondErr(c, "orders.history", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}
