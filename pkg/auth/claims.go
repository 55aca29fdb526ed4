package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	MerchantID uuid.UUID
	Plan       string
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to merchant dashboards.
type AccessTokenClaims struct {
	MerchantID uuid.UUID `json:"merchant_id"`
	Plan       string    `json:"plan,omitempty"`
	jwt.RegisteredClaims
}
