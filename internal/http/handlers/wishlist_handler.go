package handlers

import (
	applog "bazaar/internal/log"
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	items, err := h.Wish.List(cust.ID)
	if err != nil {
		return respondErr(c, "wishlist.list", err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	var in struct {
		ProductID string `json:"product_id"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	pid, ok := validate.ID(in.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing product_id"})
	}
	if err := h.Wish.Save(cust.ID, pid); err != nil {
		return respondErr(c, "wishlist.save", err)
	}
	applog.Audit(c, "wishlist.save", map[string]any{"product": pid})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	pid, ok := validate.ID(c.Params("productID"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Wish.Unsave(cust.ID, pid); err != nil {
		return respondErr(c, "wishlist.unsave", err)
	}
	applog.Audit(c, "wishlist.unsave", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"ok": true})
}

// ---------- Share management ----------

func (h *WishlistHandler) Share(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	sh, err := h.Wish.EnsureShare(cust.ID)
	if err != nil {
		return respondErr(c, "wishlist.share", err)
	}
	return c.JSON(fiber.Map{
		"token":          sh.ShareToken,
		"is_active":      sh.IsActive,
		"custom_message": sh.CustomMessage,
		"views_count":    sh.ViewsCount,
	})
}

func (h *WishlistHandler) RegenerateShare(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	sh, err := h.Wish.RegenerateToken(cust.ID)
	if err != nil {
		return respondErr(c, "wishlist.share.regenerate", err)
	}
	applog.Audit(c, "wishlist.share.regenerate", nil)
	return c.JSON(fiber.Map{"token": sh.ShareToken})
}

func (h *WishlistHandler) UpdateShare(c *fiber.Ctx) error {
	cust := currentCustomer(c)
	var in struct {
		IsActive      *bool   `json:"is_active"`
		CustomMessage *string `json:"custom_message"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if in.IsActive != nil {
		if err := h.Wish.SetShareActive(cust.ID, *in.IsActive); err != nil {
			return respondErr(c, "wishlist.share.toggle", err)
		}
	}
	if in.CustomMessage != nil {
		if err := h.Wish.SetShareMessage(cust.ID, *in.CustomMessage); err != nil {
			return respondErr(c, "wishlist.share.message", err)
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ---------- Public view ----------

// SharedJSON serves the shared wishlist to API clients.
func (h *WishlistHandler) SharedJSON(c *fiber.Ctx) error {
	token, ok := validate.Token(c.Params("token"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	view, err := h.Wish.GetShared(token)
	if err != nil {
		return respondErr(c, "wishlist.shared", err)
	}
	return c.JSON(fiber.Map{
		"owner":   view.OwnerName,
		"message": view.CustomMessage,
		"items":   view.Items,
	})
}

// SharedPage renders the shared wishlist for a share link opened in a
// browser.
func (h *WishlistHandler) SharedPage(c *fiber.Ctx) error {
	token, ok := validate.Token(c.Params("token"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Wishlist not found"})
	}
	view, err := h.Wish.GetShared(token)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Wishlist not found"})
	}
	return c.Render("shared_wishlist", fiber.Map{
		"Owner":   view.OwnerName,
		"Message": view.CustomMessage,
		"Items":   view.Items,
	})
}
