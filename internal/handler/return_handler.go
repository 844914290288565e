package handler

import (
	"go-itstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReturnHandler struct {
	service service.ReturnService
}

func NewReturnHandler(s service.ReturnService) *ReturnHandler {
	return &ReturnHandler{service: s}
}

// CreateReturn puts equipment from an unrelated origin back into stock
// POST /api/v1/returns
func (h *ReturnHandler) CreateReturn(c *fiber.Ctx) error {
	req := &service.DirectReturnRequest{}
	if isForm(c) {
		var err error
		if req, err = returnForm(readForm(c)); err != nil {
			return respondError(c, err)
		}
	} else if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	returns, err := h.service.ReturnDirect(c.UserContext(), getActor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Return recorded", "data": returns})
}
