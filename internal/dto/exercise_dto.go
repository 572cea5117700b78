package dto

import "gorm.io/datatypes"

type CreateExerciseRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Instructions string         `json:"instructions,omitempty"`
	VideoURL     string         `json:"video_url,omitempty"`
	Media        datatypes.JSON `json:"media,omitempty"`
}

type UpdateExerciseRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Instructions string         `json:"instructions,omitempty"`
	VideoURL     string         `json:"video_url,omitempty"`
	Media        datatypes.JSON `json:"media,omitempty"`
}
