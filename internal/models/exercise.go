package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Exercise is a catalog entry referenced by plan line items. Read-mostly;
// maintained by admins, never owned by a complex.
type Exercise struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string         `gorm:"size:255;not null;index" json:"title"`
	Description  string         `gorm:"type:text" json:"description,omitempty"`
	Instructions string         `gorm:"type:text" json:"instructions,omitempty"`
	VideoURL     string         `gorm:"type:text" json:"video_url,omitempty"`
	Media        datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"media"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
