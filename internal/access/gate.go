package access

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

// HeaderAccessToken carries the patient capability token. Checked before the
// query param and the body field.
const HeaderAccessToken = "X-Access-Token"

// Gate resolves exactly one authorization context per request from two
// mutually exclusive credential schemes:
//
//  1. A bearer token in the Authorization header is tried as an instructor
//     identity token (HS256 only).
//  2. Anything else falls through to capability resolution: X-Access-Token
//     header, then ?token= query param, then access_token body field.
//
// No usable credential of either kind → 401. A capability token that matches
// no live complex → 403, distinct from "no credential supplied".
func Gate(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := bearerToken(c); raw != "" {
			claims, instructorID, err := ParseIdentityToken(raw, cfg.JWTSecret)
			if err == nil {
				SetContext(c, &Context{
					Kind:         KindIdentity,
					InstructorID: instructorID,
					Role:         claims.Role,
				})
				return c.Next()
			}
			// The real rejection reason stays in the logs; the caller only
			// learns whether any scheme ultimately succeeded.
			slog.Warn("identity token rejected, falling back to capability",
				"error", err, "path", c.Path())
		}

		token := capabilityToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: dto.CodeUnauthorized, Message: "Authentication required",
			})
		}

		var cx models.Complex
		err := db.Select("id").Where("access_token = ?", token).First(&cx).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Code: dto.CodeForbidden, Message: "Invalid access token",
				})
			}
			slog.Error("capability token lookup failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Code: dto.CodeServerError, Message: "Internal server error",
			})
		}

		SetContext(c, &Context{
			Kind:      KindCapability,
			ComplexID: cx.ID,
		})
		return c.Next()
	}
}

// RequireInstructor rejects capability contexts on instructor-only routes.
func RequireInstructor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, ok := GetContext(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: dto.CodeUnauthorized, Message: "Authentication required",
			})
		}
		if !ctx.IsInstructor() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Code: dto.CodeForbidden, Message: "Instructor account required",
			})
		}
		return c.Next()
	}
}

// RequireAdmin checks config-based admin emails first, then the token role,
// then the stored account role.
func RequireAdmin(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		ctx, ok := GetContext(c)
		if !ok || !ctx.IsInstructor() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: dto.CodeUnauthorized, Message: "Authentication required",
			})
		}

		if ctx.IsAdmin() {
			return c.Next()
		}

		var instructor models.Instructor
		if err := db.First(&instructor, "id = ?", ctx.InstructorID).Error; err == nil {
			if instructor.Role == models.RoleAdmin || contains(adminEmails, instructor.Email) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Code: dto.CodeForbidden, Message: "Admin access required",
		})
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func capabilityToken(c *fiber.Ctx) string {
	if t := c.Get(HeaderAccessToken); t != "" {
		return t
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	if len(c.Body()) > 0 {
		var body struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(c.Body(), &body); err == nil {
			return body.AccessToken
		}
	}
	return ""
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
