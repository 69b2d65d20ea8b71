package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-care-scheduling/internal/converter"
	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/domain/repository"
	"go-care-scheduling/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type AnalyticsUsecase interface {
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	AppointmentAnalytics(ctx context.Context) (*dto.AppointmentAnalyticsResponse, error)
	CaregiverAnalytics(ctx context.Context) (*dto.CaregiverAnalyticsResponse, error)
	PatientAnalytics(ctx context.Context) (*dto.PatientAnalyticsResponse, error)
}

type analyticsUsecase struct {
	transactor      repository.Transactor
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	caregiverRepo   repository.CaregiverRepository
	patientRepo     repository.PatientRepository
	location        *time.Location
	now             Clock
}

func NewAnalyticsUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	caregiverRepo repository.CaregiverRepository,
	patientRepo repository.PatientRepository,
	location *time.Location,
	now Clock,
) AnalyticsUsecase {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &analyticsUsecase{
		transactor:      transactor,
		log:             log,
		appointmentRepo: appointmentRepo,
		caregiverRepo:   caregiverRepo,
		patientRepo:     patientRepo,
		location:        location,
		now:             now,
	}
}

// snapshotData is what the aggregations read. Nil slices mean "not loaded".
type snapshotData struct {
	appointments []entity.Appointment
	caregivers   []entity.Caregiver
	patients     []entity.Patient
}

// load fetches the requested collections concurrently.
func (u *analyticsUsecase) load(ctx context.Context, appointments, caregivers, patients bool) (*snapshotData, error) {
	data := &snapshotData{}
	g, gctx := errgroup.WithContext(ctx)

	if appointments {
		g.Go(func() error {
			var err error
			data.appointments, err = u.appointmentRepo.FindAll(u.transactor.Conn(gctx))
			return err
		})
	}
	if caregivers {
		g.Go(func() error {
			var err error
			data.caregivers, err = u.caregiverRepo.FindAll(u.transactor.Conn(gctx))
			return err
		})
	}
	if patients {
		g.Go(func() error {
			var err error
			data.patients, err = u.patientRepo.FindAll(u.transactor.Conn(gctx))
			return err
		})
	}

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load analytics data: %+v", err)
		return nil, apperror.Storage(err)
	}
	return data, nil
}

func (u *analyticsUsecase) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	data, err := u.load(ctx, true, true, true)
	if err != nil {
		return nil, err
	}
	return BuildDashboardStats(data.appointments, data.caregivers, data.patients), nil
}

func (u *analyticsUsecase) AppointmentAnalytics(ctx context.Context) (*dto.AppointmentAnalyticsResponse, error) {
	now := u.now().In(u.location)
	data, err := u.load(ctx, true, false, false)
	if err != nil {
		return nil, err
	}
	return BuildAppointmentAnalytics(data.appointments, now), nil
}

func (u *analyticsUsecase) CaregiverAnalytics(ctx context.Context) (*dto.CaregiverAnalyticsResponse, error) {
	data, err := u.load(ctx, true, true, false)
	if err != nil {
		return nil, err
	}
	return BuildCaregiverAnalytics(data.caregivers, data.appointments), nil
}

func (u *analyticsUsecase) PatientAnalytics(ctx context.Context) (*dto.PatientAnalyticsResponse, error) {
	now := u.now().In(u.location)
	data, err := u.load(ctx, true, false, true)
	if err != nil {
		return nil, err
	}
	return BuildPatientAnalytics(data.patients, data.appointments, now), nil
}

// BuildDashboardStats summarizes the whole clinic.
func BuildDashboardStats(appointments []entity.Appointment, caregivers []entity.Caregiver, patients []entity.Patient) *dto.DashboardStatsResponse {
	stats := &dto.DashboardStatsResponse{
		TotalPatients:     len(patients),
		TotalCaregivers:   len(caregivers),
		TotalAppointments: len(appointments),
	}

	departments := newCounter()
	for _, a := range appointments {
		switch {
		case a.Status == entity.AppointmentStatusPending:
			stats.PendingAppointments++
		case a.Status.HoldsReservation():
			stats.ActiveAppointments++
		}
		departments.add(a.Department)
	}
	stats.AppointmentsByDepartment = departments.shares(len(appointments))
	return stats
}

// BuildAppointmentAnalytics buckets appointments by status and department and lists
// today's and the coming week's confirmed appointments. now must already be in the
// clinic timezone.
func BuildAppointmentAnalytics(appointments []entity.Appointment, now time.Time) *dto.AppointmentAnalyticsResponse {
	today := civilDate(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekEnd := today.AddDate(0, 0, 7)

	statuses := newCounter()
	for _, s := range entity.AppointmentStatuses {
		statuses.ensure(string(s))
	}
	departments := newCounter()

	var todays, upcoming []entity.Appointment
	for _, a := range appointments {
		statuses.add(string(a.Status))
		departments.add(a.Department)

		if a.AppointmentDate == nil {
			continue
		}
		date := civilDate(*a.AppointmentDate)
		switch {
		case !date.Before(today) && date.Before(tomorrow):
			todays = append(todays, a)
		case !date.Before(tomorrow) && !date.After(weekEnd):
			upcoming = append(upcoming, a)
		}
	}
	sortBySchedule(todays)
	sortBySchedule(upcoming)

	return &dto.AppointmentAnalyticsResponse{
		TotalAppointments:    len(appointments),
		ByStatus:             statuses.sharesInOrder(len(appointments)),
		ByDepartment:         departments.shares(len(appointments)),
		TodayAppointments:    converter.AppointmentsToResponses(todays),
		UpcomingAppointments: converter.AppointmentsToResponses(upcoming),
	}
}

// BuildCaregiverAnalytics reports availability, department spread and the active
// workload of every caregiver that has one.
func BuildCaregiverAnalytics(caregivers []entity.Caregiver, appointments []entity.Appointment) *dto.CaregiverAnalyticsResponse {
	res := &dto.CaregiverAnalyticsResponse{TotalCaregivers: len(caregivers)}

	departments := newCounter()
	byID := make(map[uuid.UUID]entity.Caregiver, len(caregivers))
	for _, c := range caregivers {
		if c.Available {
			res.AvailableCaregivers++
		}
		departments.add(c.Department)
		byID[c.ID] = c
	}
	res.AvailablePercentage = percentage(res.AvailableCaregivers, len(caregivers))
	res.DepartmentDistribution = departments.shares(len(caregivers))

	active := make(map[uuid.UUID]int)
	for _, a := range appointments {
		if a.Status.HoldsReservation() && a.HasCaregiver() {
			active[*a.CaregiverID]++
		}
	}

	res.Workload = make([]dto.CaregiverWorkload, 0, len(active))
	for id, n := range active {
		c, ok := byID[id]
		if !ok {
			continue
		}
		res.Workload = append(res.Workload, dto.CaregiverWorkload{
			CaregiverID:        id,
			FullName:           c.FullName(),
			Department:         c.Department,
			ActiveAppointments: n,
		})
	}
	sort.Slice(res.Workload, func(i, j int) bool {
		if res.Workload[i].ActiveAppointments != res.Workload[j].ActiveAppointments {
			return res.Workload[i].ActiveAppointments > res.Workload[j].ActiveAppointments
		}
		return res.Workload[i].FullName < res.Workload[j].FullName
	})
	return res
}

// BuildPatientAnalytics reports gender and age spread, recent sign-ups and how many
// distinct patients each department has seen. now must be in the clinic timezone.
func BuildPatientAnalytics(patients []entity.Patient, appointments []entity.Appointment, now time.Time) *dto.PatientAnalyticsResponse {
	res := &dto.PatientAnalyticsResponse{TotalPatients: len(patients)}

	genders := newCounter()
	ages := newCounter()
	cutoff := now.AddDate(0, 0, -30)
	for _, p := range patients {
		gender := p.Gender
		if gender == "" {
			gender = "unknown"
		}
		genders.add(gender)
		if !p.DateOfBirth.IsZero() {
			ages.add(ageBucket(ageOn(p.DateOfBirth, now)))
		}
		if p.CreatedAt.After(cutoff) {
			res.NewPatientsLast30++
		}
	}
	res.GenderDistribution = genders.shares(len(patients))
	res.AgeDistribution = ages.sharesByKey(ages.total)

	seen := make(map[string]map[uuid.UUID]struct{})
	for _, a := range appointments {
		dept := strings.TrimSpace(a.Department)
		if dept == "" {
			continue
		}
		if seen[dept] == nil {
			seen[dept] = make(map[uuid.UUID]struct{})
		}
		seen[dept][a.PatientID] = struct{}{}
	}
	departments := newCounter()
	for dept, ids := range seen {
		departments.addN(dept, len(ids))
	}
	res.PatientsByDepartment = departments.shares(len(patients))
	return res
}

// ageOn returns the age in whole years at now.
func ageOn(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		birthday := time.Date(now.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, now.Location())
		if now.Before(birthday) {
			years--
		}
	}
	if years < 0 {
		return 0
	}
	return years
}

// ageBucket labels an age with its decade, e.g. "30-39".
func ageBucket(age int) string {
	low := age / 10 * 10
	return fmt.Sprintf("%02d-%02d", low, low+9)
}

func sortBySchedule(appointments []entity.Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		di, dj := *appointments[i].AppointmentDate, *appointments[j].AppointmentDate
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return appointments[i].AppointmentTime < appointments[j].AppointmentTime
	})
}

// counter keeps insertion order so ties come out deterministically.
type counter struct {
	order  []string
	counts map[string]int
	total  int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) ensure(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
		c.counts[key] = 0
	}
}

func (c *counter) add(key string) {
	c.addN(key, 1)
}

func (c *counter) addN(key string, n int) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unspecified"
	}
	c.ensure(key)
	c.counts[key] += n
	c.total += n
}

// shares sorts buckets by count, largest first, then by key.
func (c *counter) shares(total int) []dto.CountShare {
	out := c.sharesInOrder(total)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// sharesInOrder keeps insertion order.
func (c *counter) sharesInOrder(total int) []dto.CountShare {
	out := make([]dto.CountShare, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, dto.CountShare{
			Key:        k,
			Count:      c.counts[k],
			Percentage: percentage(c.counts[k], total),
		})
	}
	return out
}

func (c *counter) sharesByKey(total int) []dto.CountShare {
	out := c.sharesInOrder(total)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// percentage returns part/total*100 rounded to two places; zero when total is zero.
func percentage(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 2)
}
