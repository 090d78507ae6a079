package outbound

import (
	"time"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
)

// JWTClaims represents the claims of a validated access token.
type JWTClaims struct {
	UserID uuid.UUID
	Email  string
	Role   model.UserRole
}

// JWTPort issues and validates access tokens.
type JWTPort interface {
	GenerateAccessToken(userID uuid.UUID, email string, role model.UserRole) (string, time.Time, error)
	ValidateAccessToken(token string) (*JWTClaims, error)
}
