package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
)

// ErrInvalidToken is returned for tokens that fail validation.
var ErrInvalidToken = errors.New("invalid token")

// Config holds JWT configuration.
type Config struct {
	Secret            string
	Issuer            string
	AccessTokenExpiry time.Duration
}

// DefaultConfig returns default JWT configuration.
func DefaultConfig() *Config {
	return &Config{
		Issuer:            "homerent",
		AccessTokenExpiry: 15 * time.Minute,
	}
}

// accessClaims is the token payload shared with the auth service.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	gojwt.RegisteredClaims
}

// manager implements outbound.JWTPort with HS256.
type manager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewManager creates a new JWT manager.
func NewManager(cfg *Config) outbound.JWTPort {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &manager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expiry: cfg.AccessTokenExpiry,
		now:    time.Now,
	}
}

// GenerateAccessToken signs an access token for the user.
func (m *manager) GenerateAccessToken(userID uuid.UUID, email string, role model.UserRole) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.expiry)

	claims := accessClaims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken parses and verifies an access token.
func (m *manager) ValidateAccessToken(tokenString string) (*outbound.JWTClaims, error) {
	claims := &accessClaims{}
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(m.issuer))
	}

	token, err := gojwt.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	role := model.UserRole(claims.Role)
	if role == "" {
		role = model.UserRoleUser
	}

	return &outbound.JWTClaims{
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}

// Compile-time check
var _ outbound.JWTPort = (*manager)(nil)
