package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-care-scheduling/config"
	deliveryHttp "go-care-scheduling/internal/delivery/http"
	"go-care-scheduling/internal/delivery/http/handler"
	"go-care-scheduling/internal/delivery/http/middleware"
	"go-care-scheduling/internal/domain/repository"
	"go-care-scheduling/internal/infrastructure/cache"
	"go-care-scheduling/internal/infrastructure/database"
	"go-care-scheduling/internal/infrastructure/mail"
	repositoryImpl "go-care-scheduling/internal/repository"
	"go-care-scheduling/internal/repository/memory"
	"go-care-scheduling/internal/service"
	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/jwt"
	"go-care-scheduling/pkg/metrics"
	"go-care-scheduling/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Usecases groups the application services shared by the HTTP server and the CLI.
type Usecases struct {
	Appointment  usecase.AppointmentUsecase
	Directory    usecase.DirectoryUsecase
	AuditLog     usecase.AuditLogUsecase
	Analytics    usecase.AnalyticsUsecase
	Availability usecase.AvailabilityUsecase
	Auth         usecase.AuthUsecase
}

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	JWT         *jwt.JWTService
	Usecases    *Usecases
	Server      *http.Server

	notifier *service.NotificationService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	app := &App{
		Config: cfg,
		Log:    SetupLogger(cfg.App),
		JWT:    jwt.NewJWTService(cfg.JWT),
	}
	app.Log.Info("Configuration loaded successfully")

	st, err := app.openStores()
	if err != nil {
		app.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
	} else {
		app.Log.Warn("Redis disabled: caregiver locks and token revocation are process-local")
	}

	app.initialize(st)
	return app, nil
}

// OpenDatabase loads the configuration and connects to Postgres. Used by the migrate command.
func OpenDatabase() (*gorm.DB, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	SetupLogger(cfg.App)

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

// SetupLogger configures the logrus standard logger
func SetupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

type stores struct {
	transactor  repository.Transactor
	appointment repository.AppointmentRepository
	caregiver   repository.CaregiverRepository
	patient     repository.PatientRepository
	admin       repository.AdminRepository
	auditLog    repository.AuditLogRepository
}

func (app *App) openStores() (*stores, error) {
	switch app.Config.App.StoreDriver {
	case StoreDriverMemory:
		app.Log.Warn("Using in-memory store: data is lost on restart")
		store := memory.NewStore()
		return &stores{
			transactor:  store,
			appointment: store.Appointments(),
			caregiver:   store.Caregivers(),
			patient:     store.Patients(),
			admin:       store.Admins(),
			auditLog:    store.AuditLogs(),
		}, nil
	case StoreDriverPostgres, "":
		db, err := database.NewPostgresConnection(app.Config.DB, app.Config.App)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		return &stores{
			transactor:  repositoryImpl.NewTransactor(db),
			appointment: repositoryImpl.NewAppointmentRepository(),
			caregiver:   repositoryImpl.NewCaregiverRepository(),
			patient:     repositoryImpl.NewPatientRepository(),
			admin:       repositoryImpl.NewAdminRepository(),
			auditLog:    repositoryImpl.NewAuditLogRepository(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", app.Config.App.StoreDriver)
	}
}

// initialize wires services, usecases and the HTTP server.
func (app *App) initialize(s *stores) {
	cfg := app.Config
	log := app.Log
	m := metrics.Default()
	location := cfg.App.Location()

	var (
		locker     service.CaregiverLocker
		revocation service.TokenRevocationService
	)
	if app.RedisClient != nil {
		locker = service.NewRedisCaregiverLocker(app.RedisClient, cfg.Lock.TTL, log)
		revocation = service.NewRedisTokenRevocation(app.RedisClient)
	} else {
		locker = service.NewNoopCaregiverLocker()
		revocation = service.NewMemoryTokenRevocation()
	}

	var sender service.Sender
	if cfg.SMTP.Enabled {
		sender = mail.NewSMTPSender(cfg.SMTP)
	} else {
		sender = mail.NewLogSender(log)
	}
	app.notifier = service.NewNotificationService(sender, log, m, cfg.Notify)

	auditService := service.NewAuditService(s.transactor, log, s.auditLog, m)

	directory := usecase.NewDirectoryUsecase(s.transactor, log, s.patient, s.caregiver, s.admin, s.appointment, auditService)
	app.Usecases = &Usecases{
		Appointment: usecase.NewAppointmentUsecase(s.transactor, log, s.appointment, s.caregiver, s.patient,
			locker, auditService, app.notifier, m, location, time.Now),
		Directory:    directory,
		AuditLog:     usecase.NewAuditLogUsecase(s.transactor, log, s.auditLog, location),
		Analytics:    usecase.NewAnalyticsUsecase(s.transactor, log, s.appointment, s.caregiver, s.patient, location, time.Now),
		Availability: usecase.NewAvailabilityUsecase(s.transactor, log, s.appointment, s.caregiver),
		Auth:         usecase.NewAuthUsecase(log, revocation, directory, time.Now),
	}

	customValidator := validator.NewValidator()
	uc := app.Usecases

	// Initialize handlers
	authHandler := handler.NewAuthHandler(uc.Auth)
	appointmentHandler := handler.NewAppointmentHandler(uc.Appointment, customValidator)
	caregiverHandler := handler.NewCaregiverHandler(uc.Directory, uc.Availability, customValidator)
	patientHandler := handler.NewPatientHandler(uc.Directory, customValidator)
	adminHandler := handler.NewAdminHandler(uc.Directory, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(uc.AuditLog, customValidator)
	analyticsHandler := handler.NewAnalyticsHandler(uc.Analytics)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(app.JWT, revocation, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	metricsMiddleware := middleware.NewMetricsMiddleware(m)

	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		caregiverHandler,
		patientHandler,
		adminHandler,
		auditLogHandler,
		analyticsHandler,
		authMiddleware,
		corsMiddleware,
		metricsMiddleware,
		prometheus.DefaultGatherer,
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s, store: %s", app.Config.App.Env, app.Config.App.StoreDriver)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.shutdown()
	return nil
}

// shutdown stops the HTTP server, drains queued notifications and closes connections.
func (app *App) shutdown() {
	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.notifier != nil {
		app.notifier.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
