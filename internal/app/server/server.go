package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"ams/internal/domain/allowance"
	"ams/internal/domain/audit"
	"ams/internal/domain/org"
	"ams/internal/domain/rates"
	"ams/internal/domain/reports"
	"ams/internal/domain/route"
	"ams/internal/domain/user"
	"ams/internal/platform/config"
	"ams/internal/platform/db"
	"ams/internal/platform/jobs"
	allowancehandler "ams/internal/transport/http/handlers/allowances"
	audithandler "ams/internal/transport/http/handlers/audit"
	authhandler "ams/internal/transport/http/handlers/auth"
	orghandler "ams/internal/transport/http/handlers/org"
	rateshandler "ams/internal/transport/http/handlers/rates"
	reportshandler "ams/internal/transport/http/handlers/reports"
	routehandler "ams/internal/transport/http/handlers/routes"
	userhandler "ams/internal/transport/http/handlers/users"
	"ams/internal/transport/http/middleware"
)

func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	userStore := user.NewStore(pool)
	userSvc := user.NewService(userStore)

	ratesSvc := rates.NewService(rates.NewStore(pool))
	routeSvc := route.NewService(route.NewStore(pool))
	allowanceSvc := allowance.NewService(allowance.NewStore(pool), userSvc, ratesSvc, routeSvc)
	orgSvc := org.NewService(org.NewStore(pool))
	auditSvc := audit.New(pool)
	reportsSvc := reports.NewService(reports.NewStore(pool), userSvc)

	jobsSvc := jobs.New(pool, cfg, allowanceSvc)

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	jobsSvc.Start(schedulerCtx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.LoginRateLimit(cfg.LoginRateLimit, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(userStore, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)
		userhandler.NewHandler(userSvc, auditSvc).RegisterRoutes(r)
		orghandler.NewHandler(orgSvc, auditSvc).RegisterRoutes(r)
		rateshandler.NewHandler(ratesSvc, auditSvc).RegisterRoutes(r)
		routehandler.NewHandler(routeSvc, auditSvc).RegisterRoutes(r)
		allowancehandler.NewHandler(allowanceSvc, auditSvc, jobsSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	slog.Info("allowance server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
