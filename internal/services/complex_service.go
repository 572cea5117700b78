package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

// ComplexService owns the full lifecycle of complexes and their line items.
// Every multi-statement operation runs as one transaction: a half-created or
// half-deleted plan is never visible.
type ComplexService struct {
	db *gorm.DB
}

func NewComplexService(db *gorm.DB) *ComplexService {
	return &ComplexService{db: db}
}

// Create builds a new plan for a patient the instructor owns. The complex row
// and all line items are inserted atomically; a failing line item rolls back
// everything including the complex row.
func (s *ComplexService) Create(instructorID uuid.UUID, req *dto.CreateComplexRequest) (*models.Complex, error) {
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if err := validateLineItems(req.Exercises); err != nil {
		return nil, err
	}

	// Ownership check before any write. A patient that does not exist and a
	// patient owned by another instructor fail identically.
	var patient models.Patient
	if err := s.db.Where("id = ? AND created_by = ?", req.PatientID, instructorID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: patient does not belong to instructor", ErrForbidden)
		}
		return nil, fmt.Errorf("failed to verify patient: %w", err)
	}

	token, err := NewAccessToken()
	if err != nil {
		return nil, err
	}

	cx := models.Complex{
		ID:              uuid.New(),
		PatientID:       req.PatientID,
		InstructorID:    instructorID,
		Diagnosis:       req.Diagnosis,
		Recommendations: req.Recommendations,
		Warnings:        req.Warnings,
		AccessToken:     token,
		Version:         1,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := verifyExercisesExist(tx, req.Exercises); err != nil {
			return err
		}
		if err := tx.Create(&cx).Error; err != nil {
			return fmt.Errorf("failed to create complex: %w", err)
		}
		return insertLineItems(tx, cx.ID, req.Exercises)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(cx.ID, instructorID)
}

// Update replaces the scalar fields and the entire line-item set in one
// transaction. The scalar update is a compare-and-swap on the version column;
// a concurrent edit that got there first surfaces as ErrConflict instead of
// interleaving with this writer's delete-and-reinsert. The access token is
// never rotated, so existing patient links keep working.
func (s *ComplexService) Update(id, instructorID uuid.UUID, req *dto.UpdateComplexRequest) (*models.Complex, error) {
	if err := validateLineItems(req.Exercises); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cx models.Complex
		if err := tx.Scopes(access.OwnedBy(instructorID)).First(&cx, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load complex: %w", err)
		}

		if err := verifyExercisesExist(tx, req.Exercises); err != nil {
			return err
		}

		result := tx.Model(&models.Complex{}).
			Where("id = ? AND version = ?", id, req.Version).
			Updates(map[string]interface{}{
				"diagnosis":       req.Diagnosis,
				"recommendations": req.Recommendations,
				"warnings":        req.Warnings,
				"version":         req.Version + 1,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update complex: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: complex was modified concurrently", ErrConflict)
		}

		if err := tx.Where("complex_id = ?", id).Delete(&models.ComplexExercise{}).Error; err != nil {
			return fmt.Errorf("failed to clear line items: %w", err)
		}
		return insertLineItems(tx, id, req.Exercises)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id, instructorID)
}

// Get returns a live complex with its line items, owner-scoped.
func (s *ComplexService) Get(id, instructorID uuid.UUID) (*models.Complex, error) {
	var cx models.Complex
	err := s.db.Scopes(access.OwnedBy(instructorID)).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("order_number ASC") }).
		Preload("Exercises.Exercise").
		First(&cx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load complex: %w", err)
	}
	return &cx, nil
}

// Plan returns the patient view of a live complex. Used by capability
// contexts: no ownership applies, the token already resolved to this id.
func (s *ComplexService) Plan(complexID uuid.UUID) (*dto.PlanResponse, error) {
	var cx models.Complex
	err := s.db.
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("order_number ASC") }).
		Preload("Exercises.Exercise").
		First(&cx, "id = ?", complexID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	plan := dto.PlanResponse{
		ComplexID:       cx.ID,
		Diagnosis:       cx.Diagnosis,
		Recommendations: cx.Recommendations,
		Warnings:        cx.Warnings,
		Exercises:       make([]dto.PlanExercise, 0, len(cx.Exercises)),
	}
	for _, item := range cx.Exercises {
		plan.Exercises = append(plan.Exercises, dto.PlanExercise{
			OrderNumber:     item.OrderNumber,
			Sets:            item.Sets,
			Reps:            item.Reps,
			DurationSeconds: item.DurationSeconds,
			RestSeconds:     item.RestSeconds,
			Notes:           item.Notes,
			Exercise:        item.Exercise,
			ExerciseID:      item.ExerciseID,
		})
	}
	return &plan, nil
}

// ListByPatient returns the live complexes of one owned patient.
func (s *ComplexService) ListByPatient(instructorID, patientID uuid.UUID) ([]models.Complex, error) {
	var patient models.Patient
	if err := s.db.Unscoped().Where("id = ? AND created_by = ?", patientID, instructorID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to verify patient: %w", err)
	}

	var complexes []models.Complex
	err := s.db.Scopes(access.OwnedBy(instructorID)).
		Where("patient_id = ?", patientID).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("order_number ASC") }).
		Order("created_at DESC").
		Find(&complexes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list complexes: %w", err)
	}
	return complexes, nil
}

// ListTrash returns the instructor's soft-deleted complexes.
func (s *ComplexService) ListTrash(instructorID uuid.UUID) ([]models.Complex, error) {
	var complexes []models.Complex
	err := s.db.Unscoped().Scopes(access.OwnedBy(instructorID)).
		Where("deleted_at IS NOT NULL").
		Order("updated_at DESC").
		Find(&complexes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trash: %w", err)
	}
	return complexes, nil
}

// SoftDelete moves a complex to the trash. The access token stops resolving
// until the complex is restored. Deleting an already-trashed complex is a
// no-op success.
func (s *ComplexService) SoftDelete(id, instructorID uuid.UUID) error {
	cx, err := s.findAnyState(id, instructorID)
	if err != nil {
		return err
	}
	if cx.DeletedAt.Valid {
		return nil
	}
	if err := s.db.Delete(cx).Error; err != nil {
		return fmt.Errorf("failed to soft delete complex: %w", err)
	}
	return nil
}

// Restore brings a trashed complex back; its access token resolves again.
// Restoring a live complex is a no-op success.
func (s *ComplexService) Restore(id, instructorID uuid.UUID) error {
	cx, err := s.findAnyState(id, instructorID)
	if err != nil {
		return err
	}
	if !cx.DeletedAt.Valid {
		return nil
	}
	err = s.db.Unscoped().Model(&models.Complex{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
	if err != nil {
		return fmt.Errorf("failed to restore complex: %w", err)
	}
	return nil
}

// PermanentDelete removes the complex and everything hanging off it:
// progress logs first, then line items, then the complex row. Child rows go
// before the parent so referential integrity holds at every step; any
// failure rolls the whole transaction back. Irreversible.
func (s *ComplexService) PermanentDelete(id, instructorID uuid.UUID) error {
	if _, err := s.findAnyState(id, instructorID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complex_id = ?", id).Delete(&models.ProgressLog{}).Error; err != nil {
			return fmt.Errorf("failed to delete progress logs: %w", err)
		}
		if err := tx.Where("complex_id = ?", id).Delete(&models.ComplexExercise{}).Error; err != nil {
			return fmt.Errorf("failed to delete line items: %w", err)
		}
		if err := tx.Unscoped().Where("id = ?", id).Delete(&models.Complex{}).Error; err != nil {
			return fmt.Errorf("failed to delete complex: %w", err)
		}
		return nil
	})
}

// findAnyState loads a complex regardless of trash state, owner-scoped.
func (s *ComplexService) findAnyState(id, instructorID uuid.UUID) (*models.Complex, error) {
	var cx models.Complex
	err := s.db.Unscoped().Scopes(access.OwnedBy(instructorID)).First(&cx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load complex: %w", err)
	}
	return &cx, nil
}

func validateLineItems(items []dto.ComplexExerciseInput) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one exercise is required", ErrValidation)
	}
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if item.ExerciseID == uuid.Nil {
			return fmt.Errorf("%w: exercise_id is required on every line item", ErrValidation)
		}
		if seen[item.OrderNumber] {
			return fmt.Errorf("%w: duplicate order_number %d", ErrValidation, item.OrderNumber)
		}
		seen[item.OrderNumber] = true
	}
	return nil
}

// verifyExercisesExist keeps line items from referencing catalog entries that
// do not exist.
func verifyExercisesExist(tx *gorm.DB, items []dto.ComplexExerciseInput) error {
	ids := make([]uuid.UUID, 0, len(items))
	unique := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !unique[item.ExerciseID] {
			unique[item.ExerciseID] = true
			ids = append(ids, item.ExerciseID)
		}
	}

	var count int64
	if err := tx.Model(&models.Exercise{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to verify exercises: %w", err)
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("%w: one or more exercise ids do not exist", ErrValidation)
	}
	return nil
}

func insertLineItems(tx *gorm.DB, complexID uuid.UUID, items []dto.ComplexExerciseInput) error {
	for _, item := range items {
		row := models.ComplexExercise{
			ID:              uuid.New(),
			ComplexID:       complexID,
			ExerciseID:      item.ExerciseID,
			OrderNumber:     item.OrderNumber,
			Sets:            item.Sets,
			Reps:            item.Reps,
			DurationSeconds: item.DurationSeconds,
			RestSeconds:     item.RestSeconds,
			Notes:           item.Notes,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert line item %d: %w", item.OrderNumber, err)
		}
	}
	return nil
}
