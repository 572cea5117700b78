package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

// ExerciseService maintains the read-mostly exercise catalog. Instructors
// browse it while building plans; writes are admin-only.
type ExerciseService struct {
	db *gorm.DB
}

func NewExerciseService(db *gorm.DB) *ExerciseService {
	return &ExerciseService{db: db}
}

func (s *ExerciseService) List(search string, limit, offset int) ([]models.Exercise, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.Model(&models.Exercise{})
	if search != "" {
		searchLower := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ?", searchLower)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count exercises: %w", err)
	}

	var exercises []models.Exercise
	err := query.Order("title ASC").Limit(limit).Offset(offset).Find(&exercises).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, total, nil
}

func (s *ExerciseService) Get(id uuid.UUID) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := s.db.First(&exercise, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}
	return &exercise, nil
}

func (s *ExerciseService) Create(req *dto.CreateExerciseRequest) (*models.Exercise, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	exercise := models.Exercise{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		VideoURL:     req.VideoURL,
		Media:        req.Media,
	}

	if err := s.db.Create(&exercise).Error; err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return &exercise, nil
}

func (s *ExerciseService) Update(id uuid.UUID, req *dto.UpdateExerciseRequest) (*models.Exercise, error) {
	exercise, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	exercise.Title = req.Title
	exercise.Description = req.Description
	exercise.Instructions = req.Instructions
	exercise.VideoURL = req.VideoURL
	exercise.Media = req.Media

	if err := s.db.Save(exercise).Error; err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	return exercise, nil
}

// Deactivate hides a catalog entry from new plans. Existing line items keep
// their reference; the entry is soft-deleted, not removed.
func (s *ExerciseService) Deactivate(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&models.Exercise{})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate exercise: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
