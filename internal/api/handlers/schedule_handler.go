package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/service"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

type ScheduleHandler struct {
	s service.ScheduleService
}

func NewScheduleHandler(service service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{s: service}
}

func (h *ScheduleHandler) CreateSchedule(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.ScheduleCreation
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	schedule, err := h.s.CreateSchedule(c.Context(), userId, req.MediaID, req.ScheduledTime)
	if err != nil {
		if errors.Is(err, pipeline.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create schedule",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(schedule)
}

func (h *ScheduleHandler) PostNow(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.PostNowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	schedule, err := h.s.PostNow(c.Context(), userId, req.MediaID)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, pipeline.ErrAuthentication):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, pipeline.ErrUpstream):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unable to publish",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(schedule)
}

func (h *ScheduleHandler) CancelSchedule(c *fiber.Ctx) error {
	userId := GetUserID(c)
	scheduleId := c.QueryInt("id", 0)

	err := h.s.Cancel(c.Context(), userId, int64(scheduleId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ScheduleHandler) ListSchedules(c *fiber.Ctx) error {
	userId := GetUserID(c)

	schedules, err := h.s.ListActive(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list schedules",
		})
	}

	return c.Status(fiber.StatusOK).JSON(schedules)
}
