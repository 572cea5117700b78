package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	callerIsAdmin := false
	if ctx, ok := access.GetContext(c); ok {
		callerIsAdmin = ctx.IsAdmin()
	}

	resp, err := h.authService.Register(&req, callerIsAdmin)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ctx, ok := access.GetContext(c)
	if !ok || !ctx.IsInstructor() {
		return unauthorized(c)
	}

	instructor, err := h.authService.Me(ctx.InstructorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(dto.InstructorResponse{
		ID:       instructor.ID,
		Email:    instructor.Email,
		FullName: instructor.FullName,
		Role:     instructor.Role,
	})
}

// ListInstructors is admin-only (guarded in routes).
func (h *AuthHandler) ListInstructors(c *fiber.Ctx) error {
	instructors, err := h.authService.ListInstructors()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"instructors": instructors})
}

// DeactivateInstructor is admin-only (guarded in routes).
func (h *AuthHandler) DeactivateInstructor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequestParam(c, "instructor id")
	}

	if err := h.authService.DeactivateInstructor(id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Instructor deactivated"})
}
