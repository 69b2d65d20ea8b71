package handler

import (
	"encoding/json"
	"net/http"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/response"
	"go-care-scheduling/pkg/validator"
)

type CaregiverHandler struct {
	directoryUsecase    usecase.DirectoryUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewCaregiverHandler(directoryUsecase usecase.DirectoryUsecase, availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *CaregiverHandler {
	return &CaregiverHandler{
		directoryUsecase:    directoryUsecase,
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

func (h *CaregiverHandler) CreateCaregiver(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	var req dto.CreateCaregiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	caregiver, err := h.directoryUsecase.CreateCaregiver(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Caregiver created successfully", caregiver)
}

func (h *CaregiverHandler) ListCaregivers(w http.ResponseWriter, r *http.Request) {
	result, err := h.directoryUsecase.ListCaregivers(r.Context(), r.URL.Query().Get("department"), pagination(r))
	if err != nil {
		writeError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Caregivers retrieved successfully", result.Caregivers,
		response.NewMeta(result.Page, result.Limit, result.Total))
}

func (h *CaregiverHandler) GetCaregiver(w http.ResponseWriter, r *http.Request) {
	caregiverID, ok := pathUUID(w, r, "id", "caregiver")
	if !ok {
		return
	}

	caregiver, err := h.directoryUsecase.GetCaregiver(r.Context(), caregiverID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Caregiver retrieved successfully", caregiver)
}

// GetSelf returns the caregiver record of the caller
func (h *CaregiverHandler) GetSelf(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	caregiver, err := h.directoryUsecase.GetCaregiver(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Caregiver retrieved successfully", caregiver)
}

func (h *CaregiverHandler) UpdateCaregiver(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	caregiverID, ok := pathUUID(w, r, "id", "caregiver")
	if !ok {
		return
	}

	var req dto.UpdateCaregiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	caregiver, err := h.directoryUsecase.UpdateCaregiver(r.Context(), actor, caregiverID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Caregiver updated successfully", caregiver)
}

func (h *CaregiverHandler) DeleteCaregiver(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	caregiverID, ok := pathUUID(w, r, "id", "caregiver")
	if !ok {
		return
	}

	if err := h.directoryUsecase.DeleteCaregiver(r.Context(), actor, caregiverID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Caregiver deleted successfully", nil)
}

// CheckAvailability reports caregivers whose availability disagrees with their
// reservations. An empty list means the data is consistent.
func (h *CaregiverHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	violations, err := h.availabilityUsecase.CheckAvailability(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Availability checked", map[string]interface{}{
		"consistent": len(violations) == 0,
		"violations": violations,
	})
}
