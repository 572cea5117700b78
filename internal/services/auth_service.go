package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates an instructor account. The admin role can only be granted
// by a caller who is already an admin; everyone else gets a plain instructor
// account regardless of what the request asked for.
func (s *AuthService) Register(req *dto.RegisterRequest, callerIsAdmin bool) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: email required and password must be at least 8 characters", ErrValidation)
	}

	var existing models.Instructor
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleInstructor
	if callerIsAdmin && req.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}

	instructor := models.Instructor{
		ID:       uuid.New(),
		Email:    req.Email,
		Password: string(hash),
		FullName: req.FullName,
		Role:     role,
	}

	if err := s.db.Create(&instructor).Error; err != nil {
		return nil, fmt.Errorf("failed to create instructor: %w", err)
	}

	return s.authResponse(&instructor)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var instructor models.Instructor
	if err := s.db.Where("email = ?", req.Email).First(&instructor).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(instructor.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(&instructor)
}

// Me returns the account behind an identity context.
func (s *AuthService) Me(instructorID uuid.UUID) (*models.Instructor, error) {
	var instructor models.Instructor
	if err := s.db.First(&instructor, "id = ?", instructorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load instructor: %w", err)
	}
	return &instructor, nil
}

// ListInstructors returns every account, live and deactivated. Admin only.
func (s *AuthService) ListInstructors() ([]models.Instructor, error) {
	var instructors []models.Instructor
	if err := s.db.Unscoped().Order("created_at ASC").Find(&instructors).Error; err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}
	return instructors, nil
}

// DeactivateInstructor soft-deletes an account so it can no longer log in.
// Deactivating an already-deactivated account is a no-op.
func (s *AuthService) DeactivateInstructor(id uuid.UUID) error {
	var instructor models.Instructor
	if err := s.db.Unscoped().First(&instructor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load instructor: %w", err)
	}
	if instructor.DeletedAt.Valid {
		return nil
	}
	return s.db.Delete(&instructor).Error
}

func (s *AuthService) authResponse(instructor *models.Instructor) (*dto.AuthResponse, error) {
	token, err := access.SignIdentityToken(instructor, s.cfg.JWTSecret, s.cfg.JWTAccessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		Instructor: dto.InstructorResponse{
			ID:       instructor.ID,
			Email:    instructor.Email,
			FullName: instructor.FullName,
			Role:     instructor.Role,
		},
	}, nil
}
