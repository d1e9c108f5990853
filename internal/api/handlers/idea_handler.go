package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/service"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

type IdeaHandler struct {
	s service.IdeaService
}

func NewIdeaHandler(service service.IdeaService) *IdeaHandler {
	return &IdeaHandler{s: service}
}

func (h *IdeaHandler) CreateIdea(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.IdeaCreation
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	idea, err := h.s.SubmitIdea(c.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, pipeline.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to submit idea",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(idea)
}

func (h *IdeaHandler) GetIdea(c *fiber.Ctx) error {
	userId := GetUserID(c)
	ideaId := c.QueryInt("id", 0)

	idea, err := h.s.GetIdea(c.Context(), userId, int64(ideaId))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Idea not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(idea)
}

func (h *IdeaHandler) ListIdeas(c *fiber.Ctx) error {
	userId := GetUserID(c)

	ideas, err := h.s.ListIdeas(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list ideas",
		})
	}

	return c.Status(fiber.StatusOK).JSON(ideas)
}
