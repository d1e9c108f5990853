package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipcast/internal/service"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) GetMedia(c *fiber.Ctx) error {
	userId := GetUserID(c)
	mediaId := c.QueryInt("id", 0)

	media, err := h.s.GetMedia(c.Context(), userId, int64(mediaId))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Media not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(media)
}

func (h *MediaHandler) ListMedia(c *fiber.Ctx) error {
	userId := GetUserID(c)

	mediaList, err := h.s.ListMedia(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list media",
		})
	}

	return c.Status(fiber.StatusOK).JSON(mediaList)
}
