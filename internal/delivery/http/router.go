package http

import (
	"net/http"

	"go-care-scheduling/internal/delivery/http/handler"
	"go-care-scheduling/internal/delivery/http/middleware"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/pkg/response"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	caregiverHandler   *handler.CaregiverHandler
	patientHandler     *handler.PatientHandler
	adminHandler       *handler.AdminHandler
	auditLogHandler    *handler.AuditLogHandler
	analyticsHandler   *handler.AnalyticsHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	metricsMiddleware  *middleware.MetricsMiddleware
	gatherer           prometheus.Gatherer
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	caregiverHandler *handler.CaregiverHandler,
	patientHandler *handler.PatientHandler,
	adminHandler *handler.AdminHandler,
	auditLogHandler *handler.AuditLogHandler,
	analyticsHandler *handler.AnalyticsHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	gatherer prometheus.Gatherer,
) *Router {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		caregiverHandler:   caregiverHandler,
		patientHandler:     patientHandler,
		adminHandler:       adminHandler,
		auditLogHandler:    auditLogHandler,
		analyticsHandler:   analyticsHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		metricsMiddleware:  metricsMiddleware,
		gatherer:           gatherer,
	}
}

func (r *Router) Setup() *mux.Router {
	// Health check and metrics
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/patients/register", r.patientHandler.RegisterPatient).Methods(http.MethodPost)

	// Authenticated routes (any role)
	authed := api.NewRoute().Subrouter()
	authed.Use(r.authMiddleware.Authenticate)
	authed.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authed.HandleFunc("/auth/me", r.authHandler.GetCurrentAccount).Methods(http.MethodGet)
	authed.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	authed.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	authed.Handle("/appointments", middleware.RequireRole(entity.RolePatient, entity.RoleCaregiver, entity.RoleAdmin)(
		http.HandlerFunc(r.appointmentHandler.CreateAppointment))).Methods(http.MethodPost)

	// Patient routes
	patient := api.PathPrefix("/patients").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/me", r.patientHandler.GetSelf).Methods(http.MethodGet)

	// Caregiver routes
	caregiver := api.PathPrefix("/caregiver").Subrouter()
	caregiver.Use(r.authMiddleware.Authenticate)
	caregiver.Use(middleware.RequireCaregiver)
	caregiver.HandleFunc("/me", r.caregiverHandler.GetSelf).Methods(http.MethodGet)
	caregiver.HandleFunc("/patients", r.patientHandler.ListPatients).Methods(http.MethodGet)
	caregiver.HandleFunc("/appointments/{id}/start", r.appointmentHandler.StartAppointment).Methods(http.MethodPut)
	caregiver.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.CompleteAppointment).Methods(http.MethodPut)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Appointment lifecycle (admin)
	admin.HandleFunc("/appointments/{id}/approve", r.appointmentHandler.ApproveAppointment).Methods(http.MethodPut)
	admin.HandleFunc("/appointments/{id}/reassign", r.appointmentHandler.ReassignCaregiver).Methods(http.MethodPut)
	admin.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPut)

	// Caregiver management (admin)
	admin.HandleFunc("/caregivers", r.caregiverHandler.CreateCaregiver).Methods(http.MethodPost)
	admin.HandleFunc("/caregivers", r.caregiverHandler.ListCaregivers).Methods(http.MethodGet)
	admin.HandleFunc("/caregivers/availability-check", r.caregiverHandler.CheckAvailability).Methods(http.MethodGet)
	admin.HandleFunc("/caregivers/analytics", r.analyticsHandler.CaregiverAnalytics).Methods(http.MethodGet)
	admin.HandleFunc("/caregivers/{id}", r.caregiverHandler.GetCaregiver).Methods(http.MethodGet)
	admin.HandleFunc("/caregivers/{id}", r.caregiverHandler.UpdateCaregiver).Methods(http.MethodPut)
	admin.HandleFunc("/caregivers/{id}", r.caregiverHandler.DeleteCaregiver).Methods(http.MethodDelete)

	// Patients and admins (admin)
	admin.HandleFunc("/patients", r.patientHandler.ListPatients).Methods(http.MethodGet)
	admin.HandleFunc("/patients/analytics", r.analyticsHandler.PatientAnalytics).Methods(http.MethodGet)
	admin.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	admin.HandleFunc("/admins", r.adminHandler.CreateAdmin).Methods(http.MethodPost)

	// Audit logs and analytics (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.ListAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/stats", r.analyticsHandler.DashboardStats).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/analytics", r.analyticsHandler.AppointmentAnalytics).Methods(http.MethodGet)

	r.router.Use(r.metricsMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
