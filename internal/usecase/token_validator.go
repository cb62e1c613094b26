package usecase

import (
	"hotel-reservation-engine/internal/domain/user"
	"hotel-reservation-engine/internal/pkg/jwt"

	"github.com/google/uuid"
)

type Principal struct {
	UserID uuid.UUID
	Role   user.Role
	Email  string
}

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (Principal, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (Principal, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return Principal{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return Principal{}, err
	}

	return Principal{UserID: claims.UserID, Role: role, Email: claims.Email}, nil
}
