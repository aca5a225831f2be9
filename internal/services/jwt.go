package services

import (
	"fmt"
	"time"

	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTService struct {
	secret []byte
	expiry time.Duration
}

// SessionClaims is the payload of the internal session cookie token.
type SessionClaims struct {
	UserID   uuid.UUID   `json:"userId"`
	Role     models.Role `json:"role"`
	TenantID *uuid.UUID  `json:"tenantId,omitempty"`
	jwt.RegisteredClaims
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{secret: []byte(secret), expiry: expiry}
}

func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

func (s *JWTService) Generate(userID uuid.UUID, role models.Role, tenantID *uuid.UUID) (string, error) {
	now := time.Now()

	claims := SessionClaims{
		UserID:   userID,
		Role:     role,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "atelier-api",
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify returns the session claims, or nil for any invalid token (bad
// signature, expiry, malformed input). A nil result means unauthenticated,
// never an error to propagate.
func (s *JWTService) Verify(tokenString string) *SessionClaims {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil
	}
	return claims
}
