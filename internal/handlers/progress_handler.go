package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/services"
)

// ProgressHandler serves both populations: anonymous patients recording
// against their own plan, and instructors reviewing any complex they own.
// The service layer does the per-scheme scope checks.
type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) Record(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok {
		return unauthorized(c)
	}
	complexID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequestParam(c, "complex id")
	}

	var req dto.RecordProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	log, svcErr := h.progressService.Record(ctx, complexID, &req)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.Status(fiber.StatusCreated).JSON(log)
}

func (h *ProgressHandler) ListByComplex(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok {
		return unauthorized(c)
	}
	complexID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequestParam(c, "complex id")
	}

	resp, svcErr := h.progressService.ListByComplex(ctx, complexID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(resp)
}
