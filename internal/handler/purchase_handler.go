package handler

import (
	"strings"

	"go-itstock/internal/model"
	"go-itstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	service service.PurchaseService
}

func NewPurchaseHandler(s service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: s}
}

type purchaseBody struct {
	Items []service.PurchaseLine `json:"items"`
}

// GetPurchases GET /api/v1/purchases?status=
func (h *PurchaseHandler) GetPurchases(c *fiber.Ctx) error {
	status := model.PurchaseStatus(strings.ToUpper(c.Query("status")))
	requests, err := h.service.List(c.UserContext(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

// CreatePurchases POST /api/v1/purchases
func (h *PurchaseHandler) CreatePurchases(c *fiber.Ctx) error {
	var lines []service.PurchaseLine
	if isForm(c) {
		var err error
		if lines, err = purchaseForm(readForm(c)); err != nil {
			return respondError(c, err)
		}
	} else {
		var body purchaseBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
		lines = body.Items
	}

	requests, err := h.service.Submit(c.UserContext(), getActor(c), lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Purchase requested", "data": requests})
}

// MarkPurchased PUT /api/v1/purchases/:id/purchased
func (h *PurchaseHandler) MarkPurchased(c *fiber.Ctx) error {
	id, err := parseID(c, "purchase request")
	if err != nil {
		return respondError(c, err)
	}
	request, err := h.service.MarkPurchased(c.UserContext(), getActor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase completed", "data": request})
}

// DeletePurchase DELETE /api/v1/purchases/:id
func (h *PurchaseHandler) DeletePurchase(c *fiber.Ctx) error {
	id, err := parseID(c, "purchase request")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), getActor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase request deleted"})
}
