package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accesslogHandler "aforo/internal/accesslog/handler"
	accesslogStore "aforo/internal/accesslog/store"
	areaHandler "aforo/internal/area/handler"
	areaService "aforo/internal/area/service"
	areaStore "aforo/internal/area/store"
	decisionHandler "aforo/internal/decision/handler"
	decisionMetrics "aforo/internal/decision/metrics"
	decisionService "aforo/internal/decision/service"
	"aforo/internal/enrollment"
	permissionHandler "aforo/internal/permission/handler"
	permissionService "aforo/internal/permission/service"
	permissionStore "aforo/internal/permission/store"
	personHandler "aforo/internal/person/handler"
	personService "aforo/internal/person/service"
	personStore "aforo/internal/person/store"
	"aforo/internal/platform/config"
	"aforo/internal/platform/database"
	"aforo/internal/platform/health"
	"aforo/internal/platform/httpserver"
	"aforo/internal/platform/logger"
	"aforo/internal/platform/metrics"
	"aforo/internal/seeder"
	"aforo/migrations"
	adminmw "aforo/pkg/platform/middleware/admin"
	requestmw "aforo/pkg/platform/middleware/request"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing aforo",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	var (
		persons personStore.Store
		areas   areaStore.Store
		perms   permissionStore.Store
		audit   accesslogStore.Store
	)
	if pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.Migrate(ctx, pool.DB(), migrations.FS); err != nil {
			cancel()
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		cancel()

		persons = personStore.NewPostgres(pool.DB())
		areas = areaStore.NewPostgres(pool.DB())
		perms = permissionStore.NewPostgres(pool.DB())
		audit = accesslogStore.NewPostgres(pool.DB())
		log.Info("using postgresql storage")
	} else {
		persons = personStore.NewInMemory()
		areas = areaStore.NewInMemory()
		perms = permissionStore.NewInMemory()
		audit = accesslogStore.NewInMemory()
		log.Warn("no DATABASE_URL set, using in-memory storage")
	}

	if cfg.SeedDemo && pool == nil {
		if err := seeder.New(persons, areas, perms, log).SeedAll(context.Background()); err != nil {
			log.Error("seeding failed", "error", err)
			os.Exit(1)
		}
	}

	var device personService.Enroller
	if cfg.EnrollDeviceURL != "" {
		device = enrollment.New(cfg.EnrollDeviceURL, cfg.EnrollTimeout)
	}

	adminMetrics := metrics.New()
	decMetrics := decisionMetrics.New()

	personSvc := personService.New(persons, device,
		personService.WithLogger(log),
		personService.WithMetrics(adminMetrics),
		personService.WithPermissionPurger(perms),
	)
	areaSvc := areaService.New(areas, perms,
		areaService.WithLogger(log),
		areaService.WithMetrics(adminMetrics),
	)
	permSvc := permissionService.New(perms, persons, areas,
		permissionService.WithLogger(log),
		permissionService.WithMetrics(adminMetrics),
	)
	decisionSvc := decisionService.New(persons, perms, audit,
		decisionService.WithLogger(log),
		decisionService.WithMetrics(decMetrics),
	)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	}

	router := chi.NewRouter()
	router.Use(requestmw.Recovery(log))
	router.Use(requestmw.RequestID)
	router.Use(requestmw.Logger(log))
	router.Use(requestmw.LatencyMiddleware(requestmw.NewMetrics()))

	healthHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	// The reader device authenticates nothing; the decision procedure is
	// fail-closed on its own.
	decisionHandler.New(decisionSvc, log).Register(router)

	router.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.AdminToken, log))
		personHandler.New(personSvc, log).Register(r)
		areaHandler.New(areaSvc, log).Register(r)
		permissionHandler.New(permSvc, log).Register(r)
		accesslogHandler.New(audit, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	if pool != nil {
		if err := pool.Close(); err != nil {
			log.Error("closing database failed", "error", err)
		}
	}

	log.Info("server stopped")
}
