package handler

import (
	"time"

	"go-itstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service  service.DashboardService
	location *time.Location
	pageSize int
}

func NewDashboardHandler(s service.DashboardService, loc *time.Location, pageSize int) *DashboardHandler {
	return &DashboardHandler{service: s, location: loc, pageSize: pageSize}
}

// GetDashboardStats returns stock totals and low-stock products
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetActivity returns the audit log, newest first
// Query params: q, date (YYYY-MM-DD), page
func (h *DashboardHandler) GetActivity(c *fiber.Ctx) error {
	filter, err := historyQuery(c, h.location, h.pageSize)
	if err != nil {
		return respondError(c, err)
	}

	page, err := h.service.ActivityHistory(c.UserContext(), getActor(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
