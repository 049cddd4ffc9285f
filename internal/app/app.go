package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"transport-service/internal/attendance"
	"transport-service/internal/auth"
	"transport-service/internal/calendar"
	"transport-service/internal/clock"
	"transport-service/internal/config"
	"transport-service/internal/db"
	"transport-service/internal/events"
	"transport-service/internal/fleet"
	"transport-service/internal/health"
	"transport-service/internal/logger"
	"transport-service/internal/metrics"
	"transport-service/internal/middleware"
	"transport-service/internal/payment"
	"transport-service/internal/promotion"
	"transport-service/internal/student"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

type App struct {
	config   *config.Config
	router   *gin.Engine
	server   *http.Server
	database *bun.DB
	producer *events.Producer
	logger   *slog.Logger
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handlers
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		config: cfg,
		router: gin.New(),
		logger: slogLogger,
	}
	app.router.Use(gin.Recovery())
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	app.database = db.New(cfg.Database)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, app.database,
		(*fleet.Vehicle)(nil),
		(*fleet.Recorder)(nil),
		(*student.Student)(nil),
		(*calendar.NonSchoolDay)(nil),
		(*calendar.SchoolConfig)(nil),
		(*attendance.Record)(nil),
		(*payment.Payment)(nil),
	); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	serviceClock, err := clock.NewReal(cfg.Calendar.Timezone)
	if err != nil {
		log.Fatalf("failed to load operating timezone: %v", err)
	}

	meter := otel.Meter(ServiceName)
	m, err := metrics.New(meter)
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = nil
	}

	// NATS is the notification sink; the service runs fine without it.
	var publisher events.Publisher
	producer, err := events.NewProducer(cfg.NATS.URL, cfg.NATS.SubjectPrefix, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize NATS producer", "error", err)
	} else {
		app.producer = producer
		publisher = producer
	}

	calendarRepo := calendar.NewRepository(app.database)
	// The singleton config row is created here, once; every later read
	// is side-effect free.
	if _, err := calendarRepo.EnsureConfig(ctx); err != nil {
		log.Fatal("failed to initialize school config:", err)
	}
	oracle := calendar.NewOracle(calendarRepo)

	fleetRepo := fleet.NewRepository(app.database)
	studentRepo := student.NewRepository(app.database)
	attendanceRepo := attendance.NewRepository(app.database)
	paymentRepo := payment.NewRepository(app.database)

	attendanceService := attendance.NewService(
		attendanceRepo, oracle, fleetRepo, studentRepo, serviceClock, publisher, m, slogLogger)
	paymentService := payment.NewService(
		paymentRepo, studentRepo, serviceClock, cfg.Calendar.ClosingMonth, publisher, m, slogLogger)
	promotionService := promotion.NewService(studentRepo, publisher, m, slogLogger)

	attendanceHandler := attendance.NewHandler(attendanceService, slogLogger)
	paymentHandler := payment.NewHandler(paymentService, slogLogger)
	promotionHandler := promotion.NewHandler(promotionService, slogLogger)
	calendarHandler := calendar.NewHandler(calendarRepo, slogLogger)
	studentHandler := student.NewHandler(studentRepo, slogLogger)

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler(app.database)
	healthHandler.RegisterRoutes(app.router)

	api := app.router.Group("/api")
	api.Use(auth.Middleware(cfg.Auth.JWTSecret, slogLogger))
	{
		attendanceHandler.RegisterRoutes(api)
		paymentHandler.RegisterRoutes(api)
		studentHandler.RegisterRoutes(api)

		// Owner-only administrative surface.
		admin := api.Group("")
		admin.Use(auth.RequireRole(auth.RoleOwner))
		promotionHandler.RegisterRoutes(admin)
		calendarHandler.RegisterRoutes(admin)
	}

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	if a.producer != nil {
		a.producer.Close()
	}
	db.Close(a.database)
	return a.server.Shutdown(ctx)
}
