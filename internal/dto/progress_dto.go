package dto

import (
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

type RecordProgressRequest struct {
	ExerciseID       uuid.UUID  `json:"exercise_id"`
	Completed        bool       `json:"completed"`
	PainLevel        *int       `json:"pain_level,omitempty"`
	DifficultyRating *int       `json:"difficulty_rating,omitempty"`
	SessionID        *uuid.UUID `json:"session_id,omitempty"`
	Comment          string     `json:"comment,omitempty"`
	// AccessToken lets anonymous patients pass the capability token in the
	// body when neither the header nor the query param is practical.
	AccessToken string `json:"access_token,omitempty"`
}

// ProgressSummary aggregates a set of progress logs. Averages cover only the
// rows where the rating was supplied; with no such rows they are 0, never
// NaN or null.
type ProgressSummary struct {
	TotalLogs     int64   `json:"total_logs"`
	CompletedLogs int64   `json:"completed_logs"`
	AvgPainLevel  float64 `json:"avg_pain_level"`
	AvgDifficulty float64 `json:"avg_difficulty"`
	SessionCount  int64   `json:"session_count"`
	ActiveDays    int64   `json:"active_days"`
}

type ProgressListResponse struct {
	Logs    []models.ProgressLog `json:"logs"`
	Summary ProgressSummary      `json:"summary"`
}

type ComplexProgressSummary struct {
	ComplexID uuid.UUID       `json:"complex_id"`
	Diagnosis string          `json:"diagnosis,omitempty"`
	Deleted   bool            `json:"deleted"`
	Summary   ProgressSummary `json:"summary"`
}

type PatientProgressSummary struct {
	PatientID uuid.UUID                `json:"patient_id"`
	Complexes []ComplexProgressSummary `json:"complexes"`
	Overall   ProgressSummary          `json:"overall"`
}
