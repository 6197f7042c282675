package handlers

import (
	"bazaar/internal/services"
	"bazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Stores(c *fiber.Ctx) error {
	stores, err := h.Catalog.ListStores()
	if err != nil {
		return respondErr(c, "catalog.stores", err)
	}
	return c.JSON(fiber.Map{"stores": stores})
}

func (h *CatalogHandler) Cities(c *fiber.Ctx) error {
	cities, err := h.Catalog.ListCities()
	if err != nil {
		return respondErr(c, "catalog.cities", err)
	}
	return c.JSON(fiber.Map{"cities": cities})
}

func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	storeID := c.Query("store_id")
	q := c.Query("q")
	page := c.QueryInt("page", 1)
	size := c.QueryInt("page_size", 12)

	prods, err := h.Catalog.Search(q, storeID, page, size)
	if err != nil {
		return respondErr(c, "catalog.products", err)
	}
	return c.JSON(fiber.Map{"products": prods})
}

func (h *CatalogHandler) Product(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return respondErr(c, "catalog.product", err)
	}
	return c.JSON(p)
}

// DeliveryPrice quotes delivery for a store and city before checkout.
func (h *CatalogHandler) DeliveryPrice(c *fiber.Ctx) error {
	storeID, ok1 := validate.ID(c.Query("store_id"))
	cityID, ok2 := validate.ID(c.Query("city_id"))
	if !ok1 || !ok2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "store_id and city_id required"})
	}
	price, err := h.Catalog.DeliveryQuote(storeID, cityID)
	if err != nil {
		return respondErr(c, "catalog.delivery_price", err)
	}
	return c.JSON(fiber.Map{"store_id": storeID, "city_id": cityID, "price": price})
}
