package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles an instructor account can hold.
const (
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// Instructor is a clinic staff account. Instructors own the patients and
// complexes they create; admins additionally manage accounts and the catalog.
type Instructor struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FullName  string         `gorm:"size:255" json:"full_name"`
	Role      string         `gorm:"size:20;default:'instructor'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
