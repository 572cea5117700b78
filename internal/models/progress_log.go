package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressLog is one exercise-completion event recorded by a patient.
// Append-only: rows are never updated or individually deleted, they only go
// away when their complex is permanently deleted. CompletedAt is set iff the
// exercise was actually completed, which keeps "attempted" distinguishable
// from "done" in time-series queries.
type ProgressLog struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ComplexID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"complex_id"`
	ExerciseID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"exercise_id"`
	Completed        bool       `gorm:"not null;default:false" json:"completed"`
	PainLevel        *int       `json:"pain_level,omitempty"`
	DifficultyRating *int       `json:"difficulty_rating,omitempty"`
	SessionID        *uuid.UUID `gorm:"type:uuid;index" json:"session_id,omitempty"`
	Comment          string     `gorm:"type:text" json:"comment,omitempty"`
	CompletedAt      *time.Time `gorm:"index" json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
