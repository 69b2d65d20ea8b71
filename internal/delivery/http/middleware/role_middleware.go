package middleware

import (
	"net/http"

	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/pkg/response"
)

// RequireRole creates a middleware that checks if the actor has any of the allowed roles
// Actor is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowed ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			for _, role := range allowed {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireCaregiver is a convenience middleware for caregiver-only endpoints
func RequireCaregiver(next http.Handler) http.Handler {
	return RequireRole(entity.RoleCaregiver)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}
