package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

var testDBSeq atomic.Int64

// openTestDB returns a fresh in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.Instructor{},
		&models.Patient{},
		&models.Exercise{},
		&models.Complex{},
		&models.ComplexExercise{},
		&models.ProgressLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.JWTSecret = "test-secret"
	return cfg
}

func seedInstructor(t *testing.T, db *gorm.DB, email, role string) *models.Instructor {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	instructor := models.Instructor{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		FullName: "Test Instructor",
		Role:     role,
	}
	if err := db.Create(&instructor).Error; err != nil {
		t.Fatalf("failed to seed instructor: %v", err)
	}
	return &instructor
}

func seedPatient(t *testing.T, db *gorm.DB, instructorID uuid.UUID) *models.Patient {
	t.Helper()
	patient := models.Patient{
		ID:        uuid.New(),
		FirstName: "Jordan",
		LastName:  "Lee",
		CreatedBy: instructorID,
	}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("failed to seed patient: %v", err)
	}
	return &patient
}

func seedExercise(t *testing.T, db *gorm.DB, title string) *models.Exercise {
	t.Helper()
	exercise := models.Exercise{
		ID:    uuid.New(),
		Title: title,
	}
	if err := db.Create(&exercise).Error; err != nil {
		t.Fatalf("failed to seed exercise: %v", err)
	}
	return &exercise
}

// seedComplex creates a complex with one line item per given exercise.
func seedComplex(t *testing.T, db *gorm.DB, instructorID, patientID uuid.UUID, exercises ...*models.Exercise) *models.Complex {
	t.Helper()
	svc := NewComplexService(db)
	req := dto.CreateComplexRequest{PatientID: patientID}
	for i, ex := range exercises {
		req.Exercises = append(req.Exercises, dto.ComplexExerciseInput{
			ExerciseID:  ex.ID,
			OrderNumber: i + 1,
			Sets:        3,
			Reps:        10,
		})
	}
	cx, err := svc.Create(instructorID, &req)
	if err != nil {
		t.Fatalf("failed to seed complex: %v", err)
	}
	return cx
}

func capabilityCtx(complexID uuid.UUID) *access.Context {
	return &access.Context{Kind: access.KindCapability, ComplexID: complexID}
}

func identityCtx(instructorID uuid.UUID) *access.Context {
	return &access.Context{Kind: access.KindIdentity, InstructorID: instructorID, Role: models.RoleInstructor}
}
