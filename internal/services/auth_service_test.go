package services

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	cfg := testConfig()
	svc := NewAuthService(db, cfg)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "new@clinic.test",
		Password: "password123",
		FullName: "New Instructor",
	}, false)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Instructor.Role != models.RoleInstructor {
		t.Fatalf("expected instructor role, got %q", resp.Instructor.Role)
	}

	// The issued token must parse back to the same account
	claims, id, err := access.ParseIdentityToken(resp.AccessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if id != resp.Instructor.ID || claims.Email != "new@clinic.test" {
		t.Fatalf("token claims do not match the account")
	}

	login, err := svc.Login(&dto.LoginRequest{Email: "new@clinic.test", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Instructor.ID != resp.Instructor.ID {
		t.Fatalf("login resolved a different account")
	}
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db, testConfig())

	if _, err := svc.Register(&dto.RegisterRequest{
		Email: "a@clinic.test", Password: "password123",
	}, false); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Login(&dto.LoginRequest{Email: "a@clinic.test", Password: "wrong-password"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@clinic.test", Password: "password123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthRegister_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db, testConfig())

	req := &dto.RegisterRequest{Email: "a@clinic.test", Password: "password123"}
	if _, err := svc.Register(req, false); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register(req, false); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthRegister_ShortPassword(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@clinic.test", Password: "short"}, false)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthRegister_RoleEscalation(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db, testConfig())

	// Self-registration asking for admin silently gets instructor
	resp, err := svc.Register(&dto.RegisterRequest{
		Email: "sneaky@clinic.test", Password: "password123", Role: models.RoleAdmin,
	}, false)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Instructor.Role != models.RoleInstructor {
		t.Fatalf("non-admin caller must not grant admin, got %q", resp.Instructor.Role)
	}

	// An admin caller can
	resp, err = svc.Register(&dto.RegisterRequest{
		Email: "boss@clinic.test", Password: "password123", Role: models.RoleAdmin,
	}, true)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Instructor.Role != models.RoleAdmin {
		t.Fatalf("admin caller should grant admin, got %q", resp.Instructor.Role)
	}
}

func TestAuthDeactivatedAccountCannotLogin(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email: "gone@clinic.test", Password: "password123",
	}, false)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.DeactivateInstructor(resp.Instructor.ID); err != nil {
		t.Fatalf("DeactivateInstructor failed: %v", err)
	}
	// Repeat deactivation is a no-op
	if err := svc.DeactivateInstructor(resp.Instructor.ID); err != nil {
		t.Fatalf("second DeactivateInstructor should be a no-op, got %v", err)
	}

	_, err = svc.Login(&dto.LoginRequest{Email: "gone@clinic.test", Password: "password123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for deactivated account, got %v", err)
	}

	// Still visible to the admin roster
	list, err := svc.ListInstructors()
	if err != nil {
		t.Fatalf("ListInstructors failed: %v", err)
	}
	if len(list) != 1 || !list[0].DeletedAt.Valid {
		t.Fatalf("expected the deactivated account in the roster")
	}
}
