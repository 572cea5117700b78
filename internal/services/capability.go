package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

// NewAccessToken mints a complex capability token: 256 bits of crypto-random
// data, hex encoded. Possession of the token is the patient's entire
// authorization; tokens never expire or rotate and die with the complex.
func NewAccessToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// CapabilityStore resolves capability tokens to the one complex they are
// bound to. Soft-deleted complexes do not resolve; restoring a complex makes
// its token work again.
type CapabilityStore struct {
	db *gorm.DB
}

func NewCapabilityStore(db *gorm.DB) *CapabilityStore {
	return &CapabilityStore{db: db}
}

// Resolve returns the id of the live complex the token belongs to, or
// ErrNotFound.
func (s *CapabilityStore) Resolve(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrNotFound
	}
	var cx models.Complex
	if err := s.db.Select("id").Where("access_token = ?", token).First(&cx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve access token: %w", err)
	}
	return cx.ID, nil
}
