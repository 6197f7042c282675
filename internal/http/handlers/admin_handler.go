package handlers

import (
	"bazaar/internal/domain"
	applog "bazaar/internal/log"
	"bazaar/internal/repos"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	Orders    *services.OrderService
	Prods     *repos.ProductRepo
	Discounts *services.DiscountService
	Reports   *services.ReportingService
	Pay       *services.PaymentService
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.Orders.ListLatest(100)
	if err != nil {
		return respondErr(c, "admin.orders.list", err)
	}
	return c.JSON(fiber.Map{"orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil || id == "" || in.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id or status"})
	}
	actor := currentCustomer(c).ID
	if err := h.Orders.UpdateStatus(id, in.Status, &actor); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": in.Status})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /admin/products/:id/stock
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	var in struct {
		Stock int `json:"stock"`
	}
	if err := c.BodyParser(&in); err != nil || !ok || in.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := h.Prods.SetStock(pid, in.Stock); err != nil {
		return respondErr(c, "admin.stock.save", err)
	}
	applog.Audit(c, "admin.stock.save", map[string]any{"product": pid, "stock": in.Stock})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /admin/orders/:id/refund
func (h *AdminHandler) RefundOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	var in struct {
		TranRef string `json:"tran_ref"`
	}
	if err := c.BodyParser(&in); err != nil || id == "" || in.TranRef == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id or tran_ref"})
	}
	res, err := h.Pay.Refund(c.Context(), id, in.TranRef, currentCustomer(c).ID)
	if err != nil {
		applog.Error(c, "admin.orders.refund.fail", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !res.Success {
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}
	applog.Audit(c, "admin.orders.refund", map[string]any{"order_id": id, "tran_ref": in.TranRef})
	return c.JSON(res)
}

// GET /admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Reports.Stats(c.Context())
	if err != nil {
		return respondErr(c, "admin.stats", err)
	}
	return c.JSON(st)
}

// POST /admin/discounts
func (h *AdminHandler) CreatePlan(c *fiber.Ctx) error {
	var in struct {
		Name          string   `json:"name"`
		DiscountType  string   `json:"discount_type"`
		DiscountValue float64  `json:"discount_value"`
		StartsAt      string   `json:"starts_at"`
		EndsAt        string   `json:"ends_at"`
		ProductIDs    []string `json:"product_ids"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if in.Name == "" || in.StartsAt == "" || in.EndsAt == "" || len(in.ProductIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing plan fields"})
	}
	plan := domain.DiscountPlan{
		ID:            uuid.NewString(),
		Name:          in.Name,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		StartsAt:      in.StartsAt,
		EndsAt:        in.EndsAt,
	}
	if err := h.Discounts.CreatePlan(plan, in.ProductIDs); err != nil {
		applog.Error(c, "admin.discounts.create.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "admin.discounts.create", map[string]any{"plan_id": plan.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": plan.ID})
}

// GET /admin/discounts
func (h *AdminHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.Discounts.ListPlans()
	if err != nil {
		return respondErr(c, "admin.discounts.list", err)
	}
	return c.JSON(fiber.Map{"plans": plans})
}
