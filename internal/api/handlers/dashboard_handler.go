package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipcast/internal/service"
)

type DashboardHandler struct {
	s service.DashboardService
}

func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{s: service}
}

func (h *DashboardHandler) GetPipelineStats(c *fiber.Ctx) error {
	userId := GetUserID(c)

	stats, err := h.s.PipelineStats(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to get pipeline stats",
		})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *DashboardHandler) GetAnalyticsSummary(c *fiber.Ctx) error {
	userId := GetUserID(c)

	summary, err := h.s.AnalyticsSummary(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to get analytics summary",
		})
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
