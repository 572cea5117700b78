package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

type ComplexExerciseInput struct {
	ExerciseID      uuid.UUID `json:"exercise_id"`
	OrderNumber     int       `json:"order_number"`
	Sets            int       `json:"sets"`
	Reps            int       `json:"reps"`
	DurationSeconds int       `json:"duration_seconds"`
	RestSeconds     int       `json:"rest_seconds"`
	Notes           string    `json:"notes,omitempty"`
}

type CreateComplexRequest struct {
	PatientID       uuid.UUID              `json:"patient_id"`
	Diagnosis       string                 `json:"diagnosis,omitempty"`
	Recommendations string                 `json:"recommendations,omitempty"`
	Warnings        string                 `json:"warnings,omitempty"`
	Exercises       []ComplexExerciseInput `json:"exercises"`
}

type UpdateComplexRequest struct {
	Version         int                    `json:"version"`
	Diagnosis       string                 `json:"diagnosis,omitempty"`
	Recommendations string                 `json:"recommendations,omitempty"`
	Warnings        string                 `json:"warnings,omitempty"`
	Exercises       []ComplexExerciseInput `json:"exercises"`
}

// ComplexResponse is the instructor view: includes the share token so the
// instructor can hand the plan link to the patient.
type ComplexResponse struct {
	ID              uuid.UUID                `json:"id"`
	PatientID       uuid.UUID                `json:"patient_id"`
	InstructorID    uuid.UUID                `json:"instructor_id"`
	Diagnosis       string                   `json:"diagnosis,omitempty"`
	Recommendations string                   `json:"recommendations,omitempty"`
	Warnings        string                   `json:"warnings,omitempty"`
	AccessToken     string                   `json:"access_token"`
	Version         int                      `json:"version"`
	Exercises       []models.ComplexExercise `json:"exercises"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Deleted         bool                     `json:"deleted"`
}

// PlanExercise is one line item as shown to the patient, joined with the
// catalog entry it references.
type PlanExercise struct {
	OrderNumber     int              `json:"order_number"`
	Sets            int              `json:"sets"`
	Reps            int              `json:"reps"`
	DurationSeconds int              `json:"duration_seconds"`
	RestSeconds     int              `json:"rest_seconds"`
	Notes           string           `json:"notes,omitempty"`
	Exercise        *models.Exercise `json:"exercise,omitempty"`
	ExerciseID      uuid.UUID        `json:"exercise_id"`
}

// PlanResponse is the patient view resolved from a capability token. It
// deliberately omits instructor and patient identity fields.
type PlanResponse struct {
	ComplexID       uuid.UUID      `json:"complex_id"`
	Diagnosis       string         `json:"diagnosis,omitempty"`
	Recommendations string         `json:"recommendations,omitempty"`
	Warnings        string         `json:"warnings,omitempty"`
	Exercises       []PlanExercise `json:"exercises"`
}

func NewComplexResponse(cx *models.Complex) ComplexResponse {
	return ComplexResponse{
		ID:              cx.ID,
		PatientID:       cx.PatientID,
		InstructorID:    cx.InstructorID,
		Diagnosis:       cx.Diagnosis,
		Recommendations: cx.Recommendations,
		Warnings:        cx.Warnings,
		AccessToken:     cx.AccessToken,
		Version:         cx.Version,
		Exercises:       cx.Exercises,
		CreatedAt:       cx.CreatedAt,
		UpdatedAt:       cx.UpdatedAt,
		Deleted:         cx.DeletedAt.Valid,
	}
}
