package jwt

import (
	"testing"
	"time"

	"go-care-scheduling/config"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "caregiver")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "caregiver", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(config.JWTConfig{Secret: "one", AccessExpiry: time.Minute})
	verifier := NewJWTService(config.JWTConfig{Secret: "two", AccessExpiry: time.Minute})

	token, _, err := issuer.GenerateAccessToken(uuid.New(), "admin")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: -time.Minute})

	token, _, err := svc.GenerateAccessToken(uuid.New(), "patient")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenRejectsOtherTokenTypes(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Minute})
	now := time.Now()
	claims := Claims{
		UserID:    uuid.New(),
		Role:      "admin",
		TokenType: "refresh",
		TokenID:   uuid.NewString(),
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRequiresExpiry(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Minute})
	claims := Claims{UserID: uuid.New(), Role: "admin", TokenType: AccessToken, TokenID: uuid.NewString()}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
