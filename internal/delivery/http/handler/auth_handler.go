package handler

import (
	"net/http"

	"go-care-scheduling/internal/delivery/http/middleware"
	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/response"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Logout revokes the bearer token used for this request
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Token ID not found")
		return
	}
	expiry, _ := middleware.GetTokenExpiryFromContext(r.Context())

	if err := h.authUsecase.Logout(r.Context(), tokenID, expiry); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Logged out successfully", nil)
}

// GetCurrentAccount returns the account behind the bearer token
// @Summary Current account
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	account, err := h.authUsecase.CurrentAccount(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Account retrieved successfully", account)
}
