package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/services"
)

type ExerciseHandler struct {
	exerciseService *services.ExerciseService
}

func NewExerciseHandler(exerciseService *services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

func (h *ExerciseHandler) List(c *fiber.Ctx) error {
	exercises, total, err := h.exerciseService.List(
		c.Query("search"),
		c.QueryInt("limit", 50),
		c.QueryInt("offset", 0),
	)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"exercises": exercises, "total": total})
}

func (h *ExerciseHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequestParam(c, "exercise id")
	}

	exercise, svcErr := h.exerciseService.Get(id)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(exercise)
}

// Create is admin-only (guarded in routes).
func (h *ExerciseHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	exercise, err := h.exerciseService.Create(&req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(exercise)
}

// Update is admin-only (guarded in routes).
func (h *ExerciseHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequestParam(c, "exercise id")
	}

	var req dto.UpdateExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	exercise, svcErr := h.exerciseService.Update(id, &req)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(exercise)
}

// Deactivate is admin-only (guarded in routes).
func (h *ExerciseHandler) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequestParam(c, "exercise id")
	}

	if svcErr := h.exerciseService.Deactivate(id); svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"message": "Exercise deactivated"})
}
