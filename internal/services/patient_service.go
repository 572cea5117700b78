package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

// PatientService manages patient records. Patients are exclusively owned by
// the instructor who created them; another instructor's patients look like
// they do not exist.
type PatientService struct {
	db *gorm.DB
}

func NewPatientService(db *gorm.DB) *PatientService {
	return &PatientService{db: db}
}

func (s *PatientService) Create(instructorID uuid.UUID, req *dto.CreatePatientRequest) (*models.Patient, error) {
	if req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("%w: first_name and last_name are required", ErrValidation)
	}

	patient := models.Patient{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Phone:     req.Phone,
		Email:     req.Email,
		Diagnosis: req.Diagnosis,
		Notes:     req.Notes,
		CreatedBy: instructorID,
	}

	if err := s.db.Create(&patient).Error; err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return &patient, nil
}

func (s *PatientService) List(instructorID uuid.UUID) ([]models.Patient, error) {
	var patients []models.Patient
	err := s.db.Where("created_by = ?", instructorID).
		Order("last_name ASC, first_name ASC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *PatientService) ListTrash(instructorID uuid.UUID) ([]models.Patient, error) {
	var patients []models.Patient
	err := s.db.Unscoped().
		Where("created_by = ? AND deleted_at IS NOT NULL", instructorID).
		Order("updated_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trash: %w", err)
	}
	return patients, nil
}

func (s *PatientService) Get(id, instructorID uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := s.db.Where("id = ? AND created_by = ?", id, instructorID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	return &patient, nil
}

func (s *PatientService) Update(id, instructorID uuid.UUID, req *dto.UpdatePatientRequest) (*models.Patient, error) {
	patient, err := s.Get(id, instructorID)
	if err != nil {
		return nil, err
	}
	if req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("%w: first_name and last_name are required", ErrValidation)
	}

	patient.FirstName = req.FirstName
	patient.LastName = req.LastName
	patient.BirthDate = req.BirthDate
	patient.Phone = req.Phone
	patient.Email = req.Email
	patient.Diagnosis = req.Diagnosis
	patient.Notes = req.Notes

	if err := s.db.Save(patient).Error; err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

// SoftDelete moves a patient to the trash. The patient's complexes are left
// untouched: their tokens keep resolving until each complex is deleted on its
// own. Idempotent.
func (s *PatientService) SoftDelete(id, instructorID uuid.UUID) error {
	patient, err := s.findAnyState(id, instructorID)
	if err != nil {
		return err
	}
	if patient.DeletedAt.Valid {
		return nil
	}
	if err := s.db.Delete(patient).Error; err != nil {
		return fmt.Errorf("failed to soft delete patient: %w", err)
	}
	return nil
}

// Restore brings a trashed patient back. Idempotent.
func (s *PatientService) Restore(id, instructorID uuid.UUID) error {
	patient, err := s.findAnyState(id, instructorID)
	if err != nil {
		return err
	}
	if !patient.DeletedAt.Valid {
		return nil
	}
	err = s.db.Unscoped().Model(&models.Patient{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
	if err != nil {
		return fmt.Errorf("failed to restore patient: %w", err)
	}
	return nil
}

// PermanentDelete removes the patient and every complex of theirs, children
// first: progress logs, then line items, then the complexes, then the patient
// row. One transaction, all or nothing. Irreversible.
func (s *PatientService) PermanentDelete(id, instructorID uuid.UUID) error {
	if _, err := s.findAnyState(id, instructorID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var complexIDs []uuid.UUID
		err := tx.Unscoped().Model(&models.Complex{}).
			Where("patient_id = ?", id).
			Pluck("id", &complexIDs).Error
		if err != nil {
			return fmt.Errorf("failed to list complexes: %w", err)
		}

		if len(complexIDs) > 0 {
			if err := tx.Where("complex_id IN ?", complexIDs).Delete(&models.ProgressLog{}).Error; err != nil {
				return fmt.Errorf("failed to delete progress logs: %w", err)
			}
			if err := tx.Where("complex_id IN ?", complexIDs).Delete(&models.ComplexExercise{}).Error; err != nil {
				return fmt.Errorf("failed to delete line items: %w", err)
			}
			if err := tx.Unscoped().Where("id IN ?", complexIDs).Delete(&models.Complex{}).Error; err != nil {
				return fmt.Errorf("failed to delete complexes: %w", err)
			}
		}

		if err := tx.Unscoped().Where("id = ?", id).Delete(&models.Patient{}).Error; err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		return nil
	})
}

func (s *PatientService) findAnyState(id, instructorID uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := s.db.Unscoped().Where("id = ? AND created_by = ?", id, instructorID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	return &patient, nil
}
