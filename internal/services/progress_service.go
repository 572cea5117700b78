package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

// ProgressService is the append-only ledger of exercise-completion events and
// its read-side aggregation. Logs are never updated or individually deleted;
// they only disappear when their complex is permanently deleted.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// Record appends one progress log. Capability contexts must be bound to the
// target complex; identity contexts must own it. The (complex, exercise) pair
// must exist as a line item — progress cannot be recorded against an exercise
// that is not on the plan. completed_at is set only when the exercise was
// actually completed, so "attempted" and "done" stay distinguishable.
func (s *ProgressService) Record(ctx *access.Context, complexID uuid.UUID, req *dto.RecordProgressRequest) (*models.ProgressLog, error) {
	if !ctx.CanAccessComplex(complexID) {
		return nil, fmt.Errorf("%w: token is not valid for this complex", ErrForbidden)
	}
	if req.ExerciseID == uuid.Nil {
		return nil, fmt.Errorf("%w: exercise_id is required", ErrValidation)
	}
	if err := validateRating(req.PainLevel, "pain_level"); err != nil {
		return nil, err
	}
	if err := validateRating(req.DifficultyRating, "difficulty_rating"); err != nil {
		return nil, err
	}

	if err := s.checkComplexScope(ctx, complexID); err != nil {
		return nil, err
	}

	var item models.ComplexExercise
	err := s.db.Where("complex_id = ? AND exercise_id = ?", complexID, req.ExerciseID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: exercise is not part of this plan", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to verify line item: %w", err)
	}

	log := models.ProgressLog{
		ID:               uuid.New(),
		ComplexID:        complexID,
		ExerciseID:       req.ExerciseID,
		Completed:        req.Completed,
		PainLevel:        req.PainLevel,
		DifficultyRating: req.DifficultyRating,
		SessionID:        req.SessionID,
		Comment:          req.Comment,
	}
	if req.Completed {
		now := time.Now()
		log.CompletedAt = &now
	}

	if err := s.db.Create(&log).Error; err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}
	return &log, nil
}

// ListByComplex returns every log for a complex, most recent activity first,
// plus the aggregate summary.
func (s *ProgressService) ListByComplex(ctx *access.Context, complexID uuid.UUID) (*dto.ProgressListResponse, error) {
	if !ctx.CanAccessComplex(complexID) {
		return nil, fmt.Errorf("%w: token is not valid for this complex", ErrForbidden)
	}
	if err := s.checkComplexScope(ctx, complexID); err != nil {
		return nil, err
	}

	var logs []models.ProgressLog
	err := s.db.Where("complex_id = ?", complexID).
		Order("COALESCE(completed_at, created_at) DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	summary, err := s.summarize(s.db.Where("complex_id = ?", complexID))
	if err != nil {
		return nil, err
	}

	return &dto.ProgressListResponse{Logs: logs, Summary: *summary}, nil
}

// SummarizeForPatient aggregates progress across every complex of an owned
// patient, trashed complexes included, per complex and overall. Instructor
// only. All numbers default to zero when there are no logs.
func (s *ProgressService) SummarizeForPatient(instructorID, patientID uuid.UUID) (*dto.PatientProgressSummary, error) {
	var patient models.Patient
	err := s.db.Unscoped().Where("id = ? AND created_by = ?", patientID, instructorID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to verify patient: %w", err)
	}

	var complexes []models.Complex
	err = s.db.Unscoped().Scopes(access.OwnedBy(instructorID)).
		Where("patient_id = ?", patientID).
		Order("created_at ASC").
		Find(&complexes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list complexes: %w", err)
	}

	result := dto.PatientProgressSummary{
		PatientID: patientID,
		Complexes: make([]dto.ComplexProgressSummary, 0, len(complexes)),
	}

	complexIDs := make([]uuid.UUID, 0, len(complexes))
	for _, cx := range complexes {
		complexIDs = append(complexIDs, cx.ID)
		summary, err := s.summarize(s.db.Where("complex_id = ?", cx.ID))
		if err != nil {
			return nil, err
		}
		result.Complexes = append(result.Complexes, dto.ComplexProgressSummary{
			ComplexID: cx.ID,
			Diagnosis: cx.Diagnosis,
			Deleted:   cx.DeletedAt.Valid,
			Summary:   *summary,
		})
	}

	if len(complexIDs) == 0 {
		result.Overall = dto.ProgressSummary{}
		return &result, nil
	}

	overall, err := s.summarize(s.db.Where("complex_id IN ?", complexIDs))
	if err != nil {
		return nil, err
	}
	result.Overall = *overall
	return &result, nil
}

// checkComplexScope runs the per-scheme authorization against storage.
// Capability contexts were already resolved against a live complex by the
// gate; identity contexts must own the complex (trashed ones stay readable to
// their owner for history).
func (s *ProgressService) checkComplexScope(ctx *access.Context, complexID uuid.UUID) error {
	if !ctx.IsInstructor() {
		return nil
	}
	var cx models.Complex
	err := s.db.Unscoped().Scopes(access.OwnedBy(ctx.InstructorID)).First(&cx, "id = ?", complexID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load complex: %w", err)
	}
	return nil
}

// summarize computes the aggregate block for whatever log scope the caller
// passes in. Averages run only over rows where the rating is present — AVG
// skips NULLs — and coalesce to 0 so absent data never surfaces as NULL/NaN.
func (s *ProgressService) summarize(scope *gorm.DB) (*dto.ProgressSummary, error) {
	var row struct {
		TotalLogs     int64
		CompletedLogs int64
		AvgPainLevel  float64
		AvgDifficulty float64
		SessionCount  int64
		ActiveDays    int64
	}

	err := scope.Model(&models.ProgressLog{}).
		Select("COUNT(*) AS total_logs, " +
			"COUNT(CASE WHEN completed THEN 1 END) AS completed_logs, " +
			"COALESCE(AVG(pain_level), 0) AS avg_pain_level, " +
			"COALESCE(AVG(difficulty_rating), 0) AS avg_difficulty, " +
			"COUNT(DISTINCT session_id) AS session_count, " +
			"COUNT(DISTINCT date(created_at)) AS active_days").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize progress: %w", err)
	}

	return &dto.ProgressSummary{
		TotalLogs:     row.TotalLogs,
		CompletedLogs: row.CompletedLogs,
		AvgPainLevel:  row.AvgPainLevel,
		AvgDifficulty: row.AvgDifficulty,
		SessionCount:  row.SessionCount,
		ActiveDays:    row.ActiveDays,
	}, nil
}

func validateRating(v *int, field string) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 10 {
		return fmt.Errorf("%w: %s must be between 0 and 10", ErrValidation, field)
	}
	return nil
}
