package handler

import (
	"encoding/json"
	"net/http"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/response"
	"go-care-scheduling/pkg/validator"
)

type AdminHandler struct {
	directoryUsecase usecase.DirectoryUsecase
	validator        *validator.CustomValidator
}

func NewAdminHandler(directoryUsecase usecase.DirectoryUsecase, validator *validator.CustomValidator) *AdminHandler {
	return &AdminHandler{
		directoryUsecase: directoryUsecase,
		validator:        validator,
	}
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	var req dto.CreateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	admin, err := h.directoryUsecase.CreateAdmin(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Admin created successfully", admin)
}
