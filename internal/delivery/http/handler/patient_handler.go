package handler

import (
	"encoding/json"
	"net/http"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/response"
	"go-care-scheduling/pkg/validator"
)

type PatientHandler struct {
	directoryUsecase usecase.DirectoryUsecase
	validator        *validator.CustomValidator
}

func NewPatientHandler(directoryUsecase usecase.DirectoryUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		directoryUsecase: directoryUsecase,
		validator:        validator,
	}
}

func (h *PatientHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.directoryUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

func (h *PatientHandler) GetSelf(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	patient, err := h.directoryUsecase.GetPatient(r.Context(), actor, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	patientID, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.directoryUsecase.GetPatient(r.Context(), actor, patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	result, err := h.directoryUsecase.ListPatients(r.Context(), pagination(r))
	if err != nil {
		writeError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", result.Patients,
		response.NewMeta(result.Page, result.Limit, result.Total))
}
