package handler

import (
	"encoding/json"
	"net/http"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/response"
	"go-care-scheduling/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// CreateAppointment books a pending appointment
// @Summary Book an appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Appointment request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment requested successfully", appointment)
}

// ListAppointments lists appointments within the caller's scope
// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Param patient_id query string false "Patient ID"
// @Param caregiver_id query string false "Caregiver ID"
// @Param status query string false "Status"
// @Param department query string false "Department"
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req := dto.AppointmentListRequest{
		PatientID:   q.Get("patient_id"),
		CaregiverID: q.Get("caregiver_id"),
		Status:      q.Get("status"),
		Department:  q.Get("department"),
		Page:        queryInt(r, "page"),
		Limit:       queryInt(r, "limit"),
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.ListAppointments(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", result.Appointments,
		response.NewMeta(result.Page, result.Limit, result.Total))
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), actor, appointmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) ApproveAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.ApproveAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.ApproveAppointment(r.Context(), actor, appointmentID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment approved successfully", appointment)
}

func (h *AppointmentHandler) ReassignCaregiver(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.ReassignCaregiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.ReassignCaregiver(r.Context(), actor, appointmentID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Caregiver reassigned successfully", appointment)
}

// CancelAppointment accepts an optional body with a reason
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.CancelAppointmentRequest
	if err := decodeOptional(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CancelAppointment(r.Context(), actor, appointmentID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment canceled successfully", appointment)
}

func (h *AppointmentHandler) StartAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.StartAppointment(r.Context(), actor, appointmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment started", appointment)
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.CompleteAppointmentRequest
	if err := decodeOptional(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CompleteAppointment(r.Context(), actor, appointmentID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed", appointment)
}
