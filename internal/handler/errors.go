package handler

import (
	"errors"

	"go-itstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors to status codes. Anything unrecognised is
// returned as-is for the app's error handler to log and answer with 500.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validation *service.ValidationError
		stock      *service.InsufficientStockError
		over       *service.OverAllocationError
		missing    *service.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Error()})
	case errors.As(err, &stock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     stock.Error(),
			"product":   stock.Product,
			"requested": stock.Requested,
			"available": stock.Available,
		})
	case errors.As(err, &over):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     over.Error(),
			"product":   over.Product,
			"claimed":   over.Claimed,
			"withdrawn": over.Withdrawn,
		})
	case errors.As(err, &missing):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": missing.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserInactive):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAuthenticationRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": service.ErrAuthenticationRequired.Error()})
	case errors.Is(err, service.ErrAuthorization):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrWrongPassword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return err
}
