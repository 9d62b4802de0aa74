package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"hroffice/internal/domain/approval"
	"hroffice/internal/domain/audit"
	"hroffice/internal/domain/auth"
	"hroffice/internal/domain/finance"
	"hroffice/internal/domain/notifications"
	"hroffice/internal/domain/payroll"
	"hroffice/internal/domain/periodlock"
	"hroffice/internal/domain/reminders"
	"hroffice/internal/domain/reports"
	"hroffice/internal/domain/settings"
	"hroffice/internal/domain/settlement"
	"hroffice/internal/domain/staff"
	"hroffice/internal/platform/config"
	"hroffice/internal/platform/db"
	"hroffice/internal/platform/email"
	"hroffice/internal/platform/jobs"
	"hroffice/internal/platform/metrics"
	"hroffice/internal/transport/http/api"
	approvalshandler "hroffice/internal/transport/http/handlers/approvals"
	audithandler "hroffice/internal/transport/http/handlers/audit"
	authhandler "hroffice/internal/transport/http/handlers/auth"
	financehandler "hroffice/internal/transport/http/handlers/finance"
	notificationshandler "hroffice/internal/transport/http/handlers/notifications"
	payrollhandler "hroffice/internal/transport/http/handlers/payroll"
	periodshandler "hroffice/internal/transport/http/handlers/periods"
	remindershandler "hroffice/internal/transport/http/handlers/reminders"
	reportshandler "hroffice/internal/transport/http/handlers/reports"
	settingshandler "hroffice/internal/transport/http/handlers/settings"
	settlementshandler "hroffice/internal/transport/http/handlers/settlements"
	staffhandler "hroffice/internal/transport/http/handlers/staff"
	"hroffice/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
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

	settingsService := settings.NewService(settings.NewStore(pool))
	if err := settingsService.ValidateDefaults(ctx); err != nil {
		log.Fatalf("settings validation failed: %v", err)
	}

	auditService := audit.New(pool)
	lockService := periodlock.NewService(periodlock.NewStore(pool))
	approvalService := approval.NewService(approval.NewStore(pool))
	staffStore := staff.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	financeService := finance.NewService(finance.NewStore(pool), lockService)
	settlementStore := settlement.NewStore(pool)
	reminderStore := reminders.NewStore(pool)
	notificationStore := notifications.NewStore(pool)
	reportService := reports.NewService(payrollStore, cfg.ExportDir)

	mailer := email.New(cfg)
	jobService := jobs.New(pool, cfg, reminderStore, notificationStore, mailer, settingsService)
	jobService.Start(ctx)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

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

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	authHandler := authhandler.NewHandler(auth.NewStore(pool), cfg.JWTSecret)

	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			authHandler.RegisterProtectedRoutes(r)
			staffhandler.NewHandler(staffStore, auditService).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollStore, lockService, auditService).RegisterRoutes(r)
			financehandler.NewHandler(financeService, auditService).RegisterRoutes(r)
			settingshandler.NewHandler(settingsService, auditService).RegisterRoutes(r)
			periodshandler.NewHandler(lockService, auditService).RegisterRoutes(r)
			approvalshandler.NewHandler(approvalService, auditService).RegisterRoutes(r)
			settlementshandler.NewHandler(settlementStore, staffStore, auditService).RegisterRoutes(r)
			remindershandler.NewHandler(reminderStore, settingsService, auditService).RegisterRoutes(r)
			notificationshandler.NewHandler(notificationStore).RegisterRoutes(r)
			audithandler.NewHandler(auditService).RegisterRoutes(r)
			reportshandler.NewHandler(reportService).RegisterRoutes(r)
		})
	})

	log.Printf("server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
