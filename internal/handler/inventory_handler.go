package handler

import (
	"go-itstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// CreateProduct adds a product or restocks an existing one with the same name
// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	req := &service.AddProductRequest{}
	if isForm(c) {
		var err error
		if req, err = productForm(readForm(c)); err != nil {
			return respondError(c, err)
		}
	} else if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.AddOrRestock(c.UserContext(), getActor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product saved", "data": product})
}

// UpdateProduct PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return respondError(c, err)
	}

	req := &service.EditProductRequest{}
	if isForm(c) {
		add, err := productForm(readForm(c))
		if err != nil {
			return respondError(c, err)
		}
		*req = service.EditProductRequest(*add)
	} else if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Edit(c.UserContext(), getActor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DeleteProduct DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), getActor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetProducts GET /api/v1/products?category=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GetProduct GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// GetCategories GET /api/v1/products/categories
func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}
