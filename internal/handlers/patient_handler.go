package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/services"
)

type PatientHandler struct {
	patientService  *services.PatientService
	progressService *services.ProgressService
}

func NewPatientHandler(patientService *services.PatientService, progressService *services.ProgressService) *PatientHandler {
	return &PatientHandler{patientService: patientService, progressService: progressService}
}

func (h *PatientHandler) Create(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	patient, err := h.patientService.Create(ctx.InstructorID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(patient)
}

func (h *PatientHandler) List(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok {
		return unauthorized(c)
	}

	patients, err := h.patientService.List(ctx.InstructorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"patients": patients})
}

func (h *PatientHandler) ListTrash(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok {
		return unauthorized(c)
	}

	patients, err := h.patientService.ListTrash(ctx.InstructorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"patients": patients})
}

func (h *PatientHandler) Get(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	patient, err := h.patientService.Get(id, ctx.InstructorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(patient)
}

func (h *PatientHandler) Update(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	var req dto.UpdatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	patient, err := h.patientService.Update(id, ctx.InstructorID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(patient)
}

func (h *PatientHandler) SoftDelete(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	if err := h.patientService.SoftDelete(id, ctx.InstructorID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Patient moved to trash"})
}

func (h *PatientHandler) Restore(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	if err := h.patientService.Restore(id, ctx.InstructorID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Patient restored"})
}

func (h *PatientHandler) PermanentDelete(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	if err := h.patientService.PermanentDelete(id, ctx.InstructorID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Patient permanently deleted"})
}

func (h *PatientHandler) ProgressSummary(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	summary, err := h.progressService.SummarizeForPatient(ctx.InstructorID, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

// instructorAndID pulls the identity context and the :id path param. When it
// returns ok=false the error response has already been written. Routes using
// it sit behind RequireInstructor, so a missing context means a wiring bug.
func instructorAndID(c *fiber.Ctx) (*access.Context, uuid.UUID, bool) {
	ctx, ok := access.GetContext(c)
	if !ok {
		_ = unauthorized(c)
		return nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = badRequestParam(c, "id")
		return nil, uuid.Nil, false
	}
	return ctx, id, true
}
