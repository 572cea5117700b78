package access

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

// IdentityClaims is the payload of an instructor identity token.
type IdentityClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

var errMissingSubject = errors.New("token missing subject claim")

// SignIdentityToken issues an instructor identity token, signed HS256.
func SignIdentityToken(instructor *models.Instructor, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		Email: instructor.Email,
		Role:  instructor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   instructor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseIdentityToken verifies an instructor identity token. The signing
// algorithm is pinned to HS256: tokens signed with anything else are rejected
// regardless of signature validity.
func ParseIdentityToken(raw, secret string) (*IdentityClaims, uuid.UUID, error) {
	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if claims.Subject == "" {
		return nil, uuid.Nil, errMissingSubject
	}
	instructorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return claims, instructorID, nil
}
