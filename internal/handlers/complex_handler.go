package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/services"
)

type ComplexHandler struct {
	complexService *services.ComplexService
}

func NewComplexHandler(complexService *services.ComplexService) *ComplexHandler {
	return &ComplexHandler{complexService: complexService}
}

func (h *ComplexHandler) Create(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateComplexRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	cx, err := h.complexService.Create(ctx.InstructorID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewComplexResponse(cx))
}

func (h *ComplexHandler) Update(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	var req dto.UpdateComplexRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	cx, err := h.complexService.Update(id, ctx.InstructorID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(dto.NewComplexResponse(cx))
}

func (h *ComplexHandler) Get(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	cx, err := h.complexService.Get(id, ctx.InstructorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(dto.NewComplexResponse(cx))
}

func (h *ComplexHandler) ListByPatient(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok {
		return unauthorized(c)
	}
	patientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequestParam(c, "patient id")
	}

	complexes, svcErr := h.complexService.ListByPatient(ctx.InstructorID, patientID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	out := make([]dto.ComplexResponse, 0, len(complexes))
	for i := range complexes {
		out = append(out, dto.NewComplexResponse(&complexes[i]))
	}
	return c.JSON(fiber.Map{"complexes": out})
}

func (h *ComplexHandler) ListTrash(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok {
		return unauthorized(c)
	}

	complexes, err := h.complexService.ListTrash(ctx.InstructorID)
	if err != nil {
		return respondServiceError(c, err)
	}

	out := make([]dto.ComplexResponse, 0, len(complexes))
	for i := range complexes {
		out = append(out, dto.NewComplexResponse(&complexes[i]))
	}
	return c.JSON(fiber.Map{"complexes": out})
}

func (h *ComplexHandler) SoftDelete(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	if err := h.complexService.SoftDelete(id, ctx.InstructorID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Complex moved to trash"})
}

func (h *ComplexHandler) Restore(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	if err := h.complexService.Restore(id, ctx.InstructorID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Complex restored"})
}

func (h *ComplexHandler) PermanentDelete(c *fiber.Ctx) error {
	ctx, id, ok := instructorAndID(c)
	if !ok {
		return nil
	}

	if err := h.complexService.PermanentDelete(id, ctx.InstructorID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Complex permanently deleted"})
}

// Plan serves the patient view. Only a capability context may use it: the
// plan link is the patient's credential, an instructor identity token is
// neither required nor accepted here.
func (h *ComplexHandler) Plan(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok {
		return unauthorized(c)
	}
	if ctx.Kind != access.KindCapability {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Code: dto.CodeForbidden, Message: "Patient access token required",
		})
	}

	plan, err := h.complexService.Plan(ctx.ComplexID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(plan)
}
