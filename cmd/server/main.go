package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	identityapp "github.com/hexlet/taskmanager/internal/application/identity"
	"github.com/hexlet/taskmanager/internal/application/seed"
	trackerapp "github.com/hexlet/taskmanager/internal/application/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/auth"
	"github.com/hexlet/taskmanager/internal/infrastructure/cache"
	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"github.com/hexlet/taskmanager/internal/infrastructure/logger"
	"github.com/hexlet/taskmanager/internal/infrastructure/migration"
	"github.com/hexlet/taskmanager/internal/infrastructure/persistence"
	"github.com/hexlet/taskmanager/internal/infrastructure/telemetry"
	"github.com/hexlet/taskmanager/internal/interfaces/http/handler"
	"github.com/hexlet/taskmanager/internal/interfaces/http/middleware"
	"github.com/hexlet/taskmanager/internal/interfaces/http/router"
	"github.com/hexlet/taskmanager/migrations"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/hexlet/taskmanager/docs"
)

//	@title			Task Manager API
//	@version		1.0
//	@description	Task tracker with users, task statuses, labels and tasks.

//	@contact.name	API Support
//	@contact.url	https://github.com/hexlet/taskmanager

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Bootstrap logger, replaced once the OTLP log bridge is up
	bootLog, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	telCfg := telemetry.FromAppConfig(cfg.Telemetry)
	logProvider, err := telemetry.NewLoggerProvider(ctx, telCfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := bootLog
	if logProvider.IsEnabled() {
		log, err = logger.New(logger.FromAppConfig(cfg.Log),
			logProvider.ZapCore(cfg.Telemetry.ServiceName, zapcore.InfoLevel))
		if err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting task manager",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFromApp(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Telemetry.ProfilingSpanProfile {
		tracerProvider.EnableSpanProfiles()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := errors.Join(
			tracerProvider.Shutdown(shutdownCtx),
			meterProvider.Shutdown(shutdownCtx),
			logProvider.Shutdown(shutdownCtx),
			profiler.Stop(),
		); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	// Database
	if cfg.Database.Driver == config.DriverPostgres && cfg.Database.AutoMigrate {
		if err := migration.Apply(cfg.Database.DSN(), migration.FromFS(migrations.FS), log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithParameterizedQueries(!cfg.Telemetry.DBLogFullSQL))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == config.DriverSQLite && cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create schema", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access connection pool", zap.Error(err))
	}
	dbMetrics, err := telemetry.NewDBMetrics(meter, sqlDB, log)
	if err != nil {
		log.Fatal("Failed to create database metrics", zap.Error(err))
	}
	defer func() { _ = dbMetrics.Close() }()
	if err := dbMetrics.Register(db.DB); err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(meter, telemetry.NewGormTaskMetricsProvider(db.DB), log)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	defer func() { _ = businessMetrics.Close() }()

	// Token blacklist, shared through Redis when configured
	blacklist, closeBlacklist, err := cache.NewBlacklistFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateBlacklist(ctx)
	if err != nil {
		log.Fatal("Failed to create token blacklist", zap.Error(err))
	}
	defer func() { _ = closeBlacklist() }()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	statusRepo := persistence.NewGormTaskStatusRepository(db.DB)
	labelRepo := persistence.NewGormLabelRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)

	// Default data
	if cfg.Seed.Enabled {
		result, err := seed.NewDataInitializer(userRepo, statusRepo, labelRepo, cfg.Seed, log).Run(ctx)
		if err != nil {
			log.Fatal("Failed to seed default data", zap.Error(err))
		}
		log.Info("Default data ready",
			zap.Bool("admin_created", result.AdminCreated),
			zap.Int("statuses_created", result.StatusesCreated),
			zap.Int("labels_created", result.LabelsCreated),
		)
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	authService.SetBusinessMetrics(businessMetrics)
	userService := identityapp.NewUserService(userRepo, taskRepo, log)
	userService.SetTokenBlacklist(blacklist, cfg.JWT.AccessTokenExpiration)
	userService.SetBusinessMetrics(businessMetrics)
	statusService := trackerapp.NewTaskStatusService(statusRepo, taskRepo, log)
	statusService.SetBusinessMetrics(businessMetrics)
	labelService := trackerapp.NewLabelService(labelRepo, taskRepo, log)
	labelService.SetBusinessMetrics(businessMetrics)
	taskService := trackerapp.NewTaskService(taskRepo, statusRepo, labelRepo, userRepo, log)
	taskService.SetBusinessMetrics(businessMetrics)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go rateLimiter.Run(ctx)
	}

	engineDeps := router.EngineDeps{
		Config:        cfg,
		Logger:        log,
		Authenticator: authService,
		Handlers: router.Handlers{
			Auth:       handler.NewAuthHandler(authService),
			User:       handler.NewUserHandler(userService),
			TaskStatus: handler.NewTaskStatusHandler(statusService),
			Label:      handler.NewLabelHandler(labelService),
			Task:       handler.NewTaskHandler(taskService),
			System: handler.NewSystemHandler(map[string]handler.Pinger{
				"database": handler.PingerFunc(db.Ping),
			}),
		},
		RateLimiter: rateLimiter,
		Profiling:   profiler.IsEnabled(),
	}
	if tracerProvider.IsEnabled() {
		engineDeps.TracerProvider = otel.GetTracerProvider()
	}
	if meterProvider.IsEnabled() {
		engineDeps.Meter = meterProvider.Meter("http.server")
	}

	engine, err := router.NewEngine(engineDeps)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		if err != nil {
			log.Error("Server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
