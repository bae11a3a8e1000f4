package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/novahq/taskhub-backend/internal/config"
	dataagg "github.com/novahq/taskhub-backend/internal/data/aggregates"
	"github.com/novahq/taskhub-backend/internal/data/cache"
	"github.com/novahq/taskhub-backend/internal/data/db"
	"github.com/novahq/taskhub-backend/internal/data/repos"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/events/bus"
	apphttp "github.com/novahq/taskhub-backend/internal/http"
	"github.com/novahq/taskhub-backend/internal/http/handlers"
	"github.com/novahq/taskhub-backend/internal/http/middleware"
	"github.com/novahq/taskhub-backend/internal/observability"
	"github.com/novahq/taskhub-backend/internal/platform/envutil"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
	"github.com/novahq/taskhub-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Config load failed", "error", err)
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Observability.Environment,
		Version:     cfg.Observability.Version,
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shutdownCtx); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	// Metrics
	metrics := observability.Init(log)
	if metrics != nil {
		metrics.StartServer(ctx, log, envutil.String("METRICS_ADDR", ":9090"))
	}

	// Postgres
	log.Info("Connecting to postgres...")
	postgresService, err := db.NewPostgresService(cfg.Postgres.DSN, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	thePG := postgresService.DB()
	if metrics != nil {
		metrics.StartPostgresCollector(ctx, log, thePG)
	}

	// Event bus: redis when configured, in-process otherwise
	var eventBus bus.Bus
	if cfg.Redis.Addr != "" {
		eventBus, err = bus.NewRedisBus(log, cfg.Redis.Addr, cfg.Redis.EventChannel)
		if err != nil {
			log.Warn("Redis event bus init failed, using in-process bus", "error", err)
			eventBus = bus.NewInprocBus()
		} else if metrics != nil {
			metrics.StartRedisCollector(ctx, log, cfg.Redis.Addr)
		}
	} else {
		eventBus = bus.NewInprocBus()
	}
	defer eventBus.Close()

	// Repos
	log.Info("Setting up repos...")
	var userRepo repos.UserRepo = repos.NewUserRepo(thePG, log)
	teamRepo := repos.NewTeamRepo(thePG, log)
	projectRepo := repos.NewProjectRepo(thePG, log)
	taskRepo := repos.NewTaskRepo(thePG, log)

	var userCache *cache.CachedUserRepo
	if cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr, DialTimeout: 5 * time.Second})
		if pingErr := rdb.Ping(ctx).Err(); pingErr != nil {
			log.Warn("Redis cache unavailable, serving users from postgres", "error", pingErr)
			_ = rdb.Close()
		} else {
			userCache = cache.NewCachedUserRepo(userRepo, rdb, log, cfg.Redis.CacheTTL)
			userRepo = userCache
			defer rdb.Close()
		}
	}

	// Stores
	deps := dataagg.BaseDeps{
		DB:    thePG,
		Log:   log,
		Hooks: dataagg.NewObservabilityHooks(metrics),
	}
	userStore := dataagg.NewUserStore(deps, userRepo, teamRepo)
	teamStore := dataagg.NewTeamStore(deps, teamRepo, projectRepo)
	projectStore := dataagg.NewProjectStore(deps, projectRepo, taskRepo)
	taskStore := dataagg.NewTaskStore(deps, taskRepo)

	seedAdmin(ctx, log, userStore)

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(log, userStore, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	var invalidator services.UserCacheInvalidator
	if userCache != nil {
		invalidator = userCache
	}
	userService := services.NewUserService(log, userStore, invalidator, eventBus, metrics)
	teamService := services.NewTeamService(log, teamStore, userStore, invalidator, eventBus, metrics)
	projectService := services.NewProjectService(log, projectStore, teamStore, userStore, eventBus, metrics)
	taskService := services.NewTaskService(log, taskStore, projectStore, userStore, eventBus, metrics)

	// Handlers + middleware
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	healthHandler := handlers.NewHealthHandler()
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Server
	srv := apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.Observability.ServiceName,
		CORSOrigins:    cfg.Server.CORSOrigins,
		AuthMiddleware: authMiddleware,
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		TeamHandler:    teamHandler,
		ProjectHandler: projectHandler,
		TaskHandler:    taskHandler,
		HealthHandler:  healthHandler,
	}, cfg.Server.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "addr", cfg.Server.Addr)
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server exited", "error", err)
	}
	log.Info("Server stopped")
}

// seedAdmin creates the initial admin account on a fresh database. User
// registration requires an admin actor, so without this a new install would
// have no way to sign in.
func seedAdmin(ctx context.Context, log *logger.Logger, users *dataagg.UserStore) {
	email := envutil.String("ADMIN_EMAIL", "")
	password := envutil.String("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		return
	}
	if _, err := users.LoadByEmail(ctx, strings.ToLower(email)); err == nil {
		return
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		log.Warn("Admin seed skipped", "error", err)
		return
	}
	now := time.Now().UTC()
	snap := user.Snapshot{
		ID:        ids.NewUserID(),
		Name:      envutil.String("ADMIN_NAME", "Administrator"),
		Email:     strings.ToLower(email),
		Role:      user.RoleAdmin,
		Status:    user.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, snap, hash); err != nil {
		log.Warn("Admin seed failed", "error", err)
		return
	}
	log.Info("Admin account seeded", "email", snap.Email)
}
