package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/config"
	"github.com/restoflow/leads-api/internal/entity"
	"github.com/restoflow/leads-api/internal/infra/database"
	"github.com/restoflow/leads-api/internal/infra/http/handlers"
	"github.com/restoflow/leads-api/internal/infra/http/middleware"
	"github.com/restoflow/leads-api/internal/infra/integration/supabase"
	"github.com/restoflow/leads-api/internal/infra/mail"
	"github.com/restoflow/leads-api/internal/infra/queue"
	"github.com/restoflow/leads-api/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	// --- Postgres (self-hosted backend; optional) ---
	db, err := openDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if db != nil {
		defer db.Close()
	}

	// --- Supabase (hosted backend + identity provider) ---
	supaClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseServiceKey, logger)

	// --- RabbitMQ (notification events; degraded mode without it) ---
	var producer usecase.QueueProducerInterface
	rabbit, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		logger.Warn("rabbitmq unavailable, lead notifications disabled", zap.Error(err))
	} else {
		defer rabbit.Conn.Close()
		defer rabbit.Ch.Close()
		producer = queue.NewProducer(rabbit.Conn, rabbit.Ch)

		var notifier queue.LeadNotifier
		if cfg.MailHost != "" {
			notifier = mail.NewEmailSender(
				cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass,
				cfg.MailFrom, cfg.SalesNotifyMail,
			)
		}
		worker := queue.NewWorker(rabbit.Ch, notifier, logger)
		go worker.Start(queue.QueueName)
	}

	// --- Repositories (backend variant selection) ---
	var leadRepo entity.LeadRepositoryInterface
	var roleRepo entity.RoleRepositoryInterface
	switch cfg.LeadBackend {
	case config.BackendSupabase:
		leadRepo = supaClient
		roleRepo = supaClient
	default:
		if db != nil {
			leadRepo = database.NewLeadRepository(db)
			roleRepo = database.NewRoleRepository(db)
		}
	}
	if leadRepo == nil {
		logger.Warn("no lead backend configured, running in fallback mode")
	}

	// --- Usecases ---
	submitUC := usecase.NewSubmitLead(leadRepo, producer, logger)
	resolveUC := usecase.NewResolveUser(supaClient, roleRepo, logger)

	// --- Handlers ---
	policy := usecase.ParseFallbackPolicy(cfg.OnBackendUnavailable)
	leadHandler := handlers.NewLeadHandler(submitUC, policy, logger)

	var contactRepo entity.ContactRepositoryInterface
	if db != nil {
		contactRepo = database.NewContactRepository(db)
	}
	contactHandler := handlers.NewContactHandler(contactRepo, logger)

	adminHandler := handlers.NewAdminHandler(leadRepo, submitUC, logger)
	dashHandler := handlers.NewDashboardHandler(leadRepo, supaClient, logger)

	var rabbitConn *amqp091.Connection
	if rabbit != nil {
		rabbitConn = rabbit.Conn
	}
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, supaClient.Configured())

	guard := middleware.NewGuard(resolveUC, logger)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://restoflow.fr", "http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Post("/api/leads", leadHandler.Capture)
	r.Post("/api/contacts", contactHandler.Create)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(guard.RequireAdmin)
		r.Get("/leads", adminHandler.ListLeads)
		r.Post("/leads", adminHandler.CreateLead)
		r.Patch("/leads/{id}/status", adminHandler.UpdateStatus)
	})

	r.Route("/affiliate", func(r chi.Router) {
		r.Use(guard.RequireAffiliate)
		r.Get("/leads", dashHandler.AffiliateLeads)
	})

	r.With(guard.RequireAuth).Get("/dashboard", dashHandler.Home)
	r.Post("/auth/logout", dashHandler.Logout)

	// --- Serve ---
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("restoflow leads api listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openDatabase connects the self-hosted pool and optionally runs the
// idempotent schema migration. A missing DATABASE_URL is not an error: the
// service then runs on the hosted backend or in fallback mode.
func openDatabase(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, postgres backend disabled")
		return nil, nil
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnBoot {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			return nil, err
		}
		logger.Info("schema migration complete")
	}

	return db, nil
}

func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		zcfg.Level = lvl
	}
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
