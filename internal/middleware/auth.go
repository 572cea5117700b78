package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
)

// JWTProtected is the strict instructor-only guard: a valid HS256 identity
// token or nothing. Used where the capability fallback must not even be
// attempted (account and admin surfaces).
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: dto.CodeUnauthorized, Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// IdentityContext converts the token verified by JWTProtected into the
// authorization context the rest of the stack consumes.
func IdentityContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: dto.CodeUnauthorized, Message: "Unauthorized",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: dto.CodeUnauthorized, Message: "Invalid claims",
			})
		}

		sub, _ := claims["sub"].(string)
		instructorID, err := uuid.Parse(sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: dto.CodeUnauthorized, Message: "Invalid subject claim",
			})
		}
		role, _ := claims["role"].(string)

		access.SetContext(c, &access.Context{
			Kind:         access.KindIdentity,
			InstructorID: instructorID,
			Role:         role,
		})
		return c.Next()
	}
}
