package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	patientHandler *handlers.PatientHandler,
	complexHandler *handlers.ComplexHandler,
	progressHandler *handlers.ProgressHandler,
	exerciseHandler *handlers.ExerciseHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Account surface: strict JWT only, no capability fallback
	api.Get("/auth/me", middleware.JWTProtected(cfg), middleware.IdentityContext(), authHandler.Me)

	// Dual-scheme routes: the gate resolves either an identity or a
	// capability context, handlers/services enforce scope per scheme.
	gate := access.Gate(db, cfg)
	api.Get("/plan", gate, complexHandler.Plan)
	api.Post("/complexes/:id/progress", gate, progressHandler.Record)
	api.Get("/complexes/:id/progress", gate, progressHandler.ListByComplex)

	// Instructor-only routes: the gate plus a scheme check, so a capability
	// token never reaches an instructor surface.
	instructorOnly := access.RequireInstructor()

	api.Post("/patients", gate, instructorOnly, patientHandler.Create)
	api.Get("/patients", gate, instructorOnly, patientHandler.List)
	api.Get("/patients/trash", gate, instructorOnly, patientHandler.ListTrash)
	api.Get("/patients/:id", gate, instructorOnly, patientHandler.Get)
	api.Put("/patients/:id", gate, instructorOnly, patientHandler.Update)
	api.Delete("/patients/:id", gate, instructorOnly, patientHandler.SoftDelete)
	api.Post("/patients/:id/restore", gate, instructorOnly, patientHandler.Restore)
	api.Delete("/patients/:id/permanent", gate, instructorOnly, patientHandler.PermanentDelete)
	api.Get("/patients/:id/progress", gate, instructorOnly, patientHandler.ProgressSummary)
	api.Get("/patients/:id/complexes", gate, instructorOnly, complexHandler.ListByPatient)

	api.Post("/complexes", gate, instructorOnly, complexHandler.Create)
	api.Get("/complexes/trash", gate, instructorOnly, complexHandler.ListTrash)
	api.Get("/complexes/:id", gate, instructorOnly, complexHandler.Get)
	api.Put("/complexes/:id", gate, instructorOnly, complexHandler.Update)
	api.Delete("/complexes/:id", gate, instructorOnly, complexHandler.SoftDelete)
	api.Post("/complexes/:id/restore", gate, instructorOnly, complexHandler.Restore)
	api.Delete("/complexes/:id/permanent", gate, instructorOnly, complexHandler.PermanentDelete)

	api.Get("/exercises", gate, instructorOnly, exerciseHandler.List)
	api.Get("/exercises/:id", gate, instructorOnly, exerciseHandler.Get)

	// Admin surface: strict JWT, then role check
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg),
		middleware.IdentityContext(),
		access.RequireAdmin(db, cfg),
	)
	admin.Get("/instructors", authHandler.ListInstructors)
	admin.Post("/instructors", authHandler.Register)
	admin.Delete("/instructors/:id", authHandler.DeactivateInstructor)
	admin.Post("/exercises", exerciseHandler.Create)
	admin.Put("/exercises/:id", exerciseHandler.Update)
	admin.Delete("/exercises/:id", exerciseHandler.Deactivate)
}
