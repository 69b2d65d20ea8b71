package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/service"
	"go-care-scheduling/pkg/jwt"
	"go-care-scheduling/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	ActorKey       contextKey = "actor"
	TokenIDKey     contextKey = "token_id"
	TokenExpiryKey contextKey = "token_expiry"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	revocation service.TokenRevocationService
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, revocation service.TokenRevocationService, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		revocation: revocation,
		log:        log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if errors.Is(err, jwt.ErrTokenExpired) {
			response.Unauthorized(w, "Token has expired")
			return
		}
		if err != nil {
			m.log.Debugf("Rejected bearer token: %v", err)
			response.Unauthorized(w, "Invalid token")
			return
		}

		role, err := entity.ParseRole(claims.Role)
		if err != nil {
			response.Unauthorized(w, "Token carries an unknown role")
			return
		}

		revoked, err := m.revocation.IsRevoked(r.Context(), claims.TokenID)
		if err != nil {
			m.log.Warnf("Failed to check token revocation: %+v", err)
			response.ServiceUnavailable(w, "Failed to validate token", response.ErrorBody{Kind: "storage_failure", Retryable: true})
			return
		}
		if revoked {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := WithActor(r.Context(), entity.Actor{ID: claims.UserID, Role: role})
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
		if claims.ExpiresAt != nil {
			ctx = context.WithValue(ctx, TokenExpiryKey, claims.ExpiresAt.Time)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithActor stores the authenticated actor in ctx.
func WithActor(ctx context.Context, actor entity.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActorFromContext extracts the authenticated actor from context
func GetActorFromContext(ctx context.Context) (entity.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(entity.Actor)
	return actor, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetTokenExpiryFromContext extracts the token expiry from context
func GetTokenExpiryFromContext(ctx context.Context) (time.Time, bool) {
	expiry, ok := ctx.Value(TokenExpiryKey).(time.Time)
	return expiry, ok
}
