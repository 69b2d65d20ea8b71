package jwt

import (
	"errors"
	"fmt"
	"time"

	"go-care-scheduling/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken TokenType = "access"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// clockSkew tolerated between the issuing auth service and this one.
const clockSkew = 30 * time.Second

// Claims are issued by the external auth service and validated here.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
	TokenID   string    `json:"token_id"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret       []byte
	accessExpiry time.Duration
	parser       *jwt.Parser
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:       []byte(cfg.Secret),
		accessExpiry: cfg.AccessExpiry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(clockSkew),
			jwt.WithExpirationRequired(),
		),
	}
}

// GenerateAccessToken signs a token with the shared secret. The service itself only
// validates tokens; this is used by the seed command and tests.
func (s *JWTService) GenerateAccessToken(userID uuid.UUID, role string) (string, string, error) {
	tokenID := uuid.New().String()
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: AccessToken,
		TokenID:   tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, tokenID, nil
}

// ValidateToken verifies signature and expiry and returns the claims of an access
// token. Failures wrap ErrTokenExpired or ErrInvalidToken.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != AccessToken {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.TokenType)
	}
	if claims.TokenID == "" || claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing token id or user id", ErrInvalidToken)
	}
	return claims, nil
}
