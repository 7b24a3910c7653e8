package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/secondchance/secondchance-backend/api/routes"
	"github.com/secondchance/secondchance-backend/internal/adminlog"
	"github.com/secondchance/secondchance-backend/internal/auth"
	"github.com/secondchance/secondchance-backend/internal/categories"
	"github.com/secondchance/secondchance-backend/internal/chats"
	"github.com/secondchance/secondchance-backend/internal/items"
	"github.com/secondchance/secondchance-backend/internal/locations"
	"github.com/secondchance/secondchance-backend/internal/orders"
	"github.com/secondchance/secondchance-backend/internal/reviews"
	"github.com/secondchance/secondchance-backend/internal/users"
	pkgauth "github.com/secondchance/secondchance-backend/pkg/auth"
	"github.com/secondchance/secondchance-backend/pkg/auth/session"
	"github.com/secondchance/secondchance-backend/pkg/config"
	"github.com/secondchance/secondchance-backend/pkg/db"
	"github.com/secondchance/secondchance-backend/pkg/logger"
	"github.com/secondchance/secondchance-backend/pkg/metrics"
	"github.com/secondchance/secondchance-backend/pkg/migrate"
	"github.com/secondchance/secondchance-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	categoriesRepo := categories.NewRepository(dbClient.DB())
	locationsRepo := locations.NewRepository(dbClient.DB())
	itemsRepo := items.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	reviewsRepo := reviews.NewRepository(dbClient.DB())
	adminRepo := adminlog.NewRepository(dbClient.DB())

	chatsRepo := chats.NewGormRepository(dbClient.DB())
	if cfg.FeatureFlags.UseMemoryChats {
		logg.Warn(context.Background(), "using in-memory chat store; conversations will not survive a restart")
		chatsRepo = chats.NewMemoryRepository()
	}

	adminService, err := adminlog.NewService(adminRepo, adminlog.Counters{
		Users:   usersRepo,
		Items:   itemsRepo,
		Orders:  ordersRepo,
		Reviews: reviewsRepo,
		Chats:   chatsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, adminService, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categoriesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	locationsService, err := locations.NewService(locationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create locations service", err)
		os.Exit(1)
	}

	itemsService, err := items.NewService(itemsRepo, dbClient, categoriesRepo, adminService)
	if err != nil {
		logg.Error(context.Background(), "failed to create items service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, adminService)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviewsRepo, itemsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	chatsService, err := chats.NewService(chatsRepo, itemsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create chats service", err)
		os.Exit(1)
	}

	var googleProvider *pkgauth.GoogleProvider
	if cfg.Google.Enabled() {
		googleProvider, err = pkgauth.NewGoogleProvider(cfg.Google)
		if err != nil {
			logg.Error(context.Background(), "failed to create google oauth provider", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "google oauth not configured; /auth/google is disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	router := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		httpMetrics,
		metricsHandler,
		sessionManager,
		googleProvider,
		authService,
		usersService,
		itemsService,
		categoriesService,
		locationsService,
		ordersService,
		reviewsService,
		chatsService,
		adminService,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server stopped")
}
