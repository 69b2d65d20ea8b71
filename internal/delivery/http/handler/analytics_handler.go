package handler

import (
	"net/http"

	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/response"
)

type AnalyticsHandler struct {
	analyticsUsecase usecase.AnalyticsUsecase
}

func NewAnalyticsHandler(analyticsUsecase usecase.AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUsecase: analyticsUsecase}
}

func (h *AnalyticsHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsUsecase.DashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (h *AnalyticsHandler) AppointmentAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsUsecase.AppointmentAnalytics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Appointment analytics retrieved successfully", stats)
}

func (h *AnalyticsHandler) CaregiverAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsUsecase.CaregiverAnalytics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Caregiver analytics retrieved successfully", stats)
}

func (h *AnalyticsHandler) PatientAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsUsecase.PatientAnalytics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Patient analytics retrieved successfully", stats)
}
