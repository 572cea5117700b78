package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complex is a prescribed exercise plan: one instructor, one patient, both
// fixed at creation. AccessToken is the patient-facing capability credential;
// Version backs optimistic locking on edits.
type Complex struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	InstructorID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Diagnosis       string            `gorm:"type:text" json:"diagnosis,omitempty"`
	Recommendations string            `gorm:"type:text" json:"recommendations,omitempty"`
	Warnings        string            `gorm:"type:text" json:"warnings,omitempty"`
	AccessToken     string            `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Version         int               `gorm:"not null;default:1" json:"version"`
	Exercises       []ComplexExercise `gorm:"foreignKey:ComplexID" json:"exercises,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
}

// ComplexExercise is one line item of a plan. The full set for a complex is
// replaced atomically on every edit; (complex_id, order_number) is unique.
type ComplexExercise struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ComplexID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_complex_exercises_order" json:"complex_id"`
	ExerciseID      uuid.UUID `gorm:"type:uuid;not null;index:idx_complex_exercises_pair" json:"exercise_id"`
	OrderNumber     int       `gorm:"not null;uniqueIndex:idx_complex_exercises_order" json:"order_number"`
	Sets            int       `gorm:"default:0" json:"sets"`
	Reps            int       `gorm:"default:0" json:"reps"`
	DurationSeconds int       `gorm:"default:0" json:"duration_seconds"`
	RestSeconds     int       `gorm:"default:0" json:"rest_seconds"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	Exercise        *Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
