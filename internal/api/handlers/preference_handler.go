package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/service"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

type PreferenceHandler struct {
	s service.PreferenceService
}

func NewPreferenceHandler(service service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{s: service}
}

func (h *PreferenceHandler) GetPreferences(c *fiber.Ctx) error {
	userId := GetUserID(c)

	pref, err := h.s.GetPreferences(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to get preferences",
		})
	}

	return c.Status(fiber.StatusOK).JSON(pref)
}

func (h *PreferenceHandler) UpdatePreferences(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.PreferenceUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	pref, err := h.s.UpdatePreferences(c.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, pipeline.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to update preferences",
		})
	}

	return c.Status(fiber.StatusOK).JSON(pref)
}
