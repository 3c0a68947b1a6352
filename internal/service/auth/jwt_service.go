package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenTypeAccess is the only token type this service accepts.
const TokenTypeAccess = "access"

// JWTService issues and verifies access tokens. In production tokens come from
// the identity provider; GenerateToken exists for development and tests.
type JWTService interface {
	// GenerateToken creates a signed access token for userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the signature and time claims of tokenString
	// and returns its claims.
	//
	// Errors: ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType, or
	// ErrInvalidToken for everything else.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the application view of a verified token.
type Claims struct {
	UserID    uuid.UUID `json:"uid,omitempty"`
	TokenType string    `json:"type,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
