package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CountShare is one bucket of a distribution with its share of the total, in percent.
type CountShare struct {
	Key        string          `json:"key"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

type DashboardStatsResponse struct {
	TotalPatients            int          `json:"total_patients"`
	TotalCaregivers          int          `json:"total_caregivers"`
	TotalAppointments        int          `json:"total_appointments"`
	PendingAppointments      int          `json:"pending_appointments"`
	ActiveAppointments       int          `json:"active_appointments"`
	AppointmentsByDepartment []CountShare `json:"appointments_by_department"`
}

type AppointmentAnalyticsResponse struct {
	TotalAppointments    int                   `json:"total_appointments"`
	ByStatus             []CountShare          `json:"by_status"`
	ByDepartment         []CountShare          `json:"by_department"`
	TodayAppointments    []AppointmentResponse `json:"today_appointments"`
	UpcomingAppointments []AppointmentResponse `json:"upcoming_appointments"`
}

type CaregiverWorkload struct {
	CaregiverID        uuid.UUID `json:"caregiver_id"`
	FullName           string    `json:"full_name"`
	Department         string    `json:"department"`
	ActiveAppointments int       `json:"active_appointments"`
}

type CaregiverAnalyticsResponse struct {
	TotalCaregivers        int                 `json:"total_caregivers"`
	AvailableCaregivers    int                 `json:"available_caregivers"`
	AvailablePercentage    decimal.Decimal     `json:"available_percentage"`
	DepartmentDistribution []CountShare        `json:"department_distribution"`
	Workload               []CaregiverWorkload `json:"workload"`
}

type PatientAnalyticsResponse struct {
	TotalPatients        int          `json:"total_patients"`
	GenderDistribution   []CountShare `json:"gender_distribution"`
	AgeDistribution      []CountShare `json:"age_distribution"`
	NewPatientsLast30    int          `json:"new_patients_last_30_days"`
	PatientsByDepartment []CountShare `json:"patients_by_department"`
}
