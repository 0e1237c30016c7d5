package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dhyhn5012/ward-tracker/internal/config"
	"github.com/dhyhn5012/ward-tracker/internal/domain/catalog"
	"github.com/dhyhn5012/ward-tracker/internal/domain/dutyfile"
	"github.com/dhyhn5012/ward-tracker/internal/domain/order"
	"github.com/dhyhn5012/ward-tracker/internal/domain/patient"
	"github.com/dhyhn5012/ward-tracker/internal/domain/wardround"
	"github.com/dhyhn5012/ward-tracker/internal/platform/db"
	"github.com/dhyhn5012/ward-tracker/internal/platform/middleware"
	"github.com/dhyhn5012/ward-tracker/internal/platform/querycache"
	"github.com/dhyhn5012/ward-tracker/internal/report"
	"github.com/dhyhn5012/ward-tracker/pkg/dateutil"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ward-server",
		Short: "Ward patient tracking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the ward tracking API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.NewMigrator(pool, logger).Up(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info().Msg("schema is up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo patients and orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.NewMigrator(pool, logger).Up(ctx); err != nil {
				return err
			}
			if err := seedSampleData(ctx, pool); err != nil {
				return err
			}
			logger.Info().Msg("sample data inserted")
			return nil
		},
	}
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	if err := db.NewMigrator(pool, logger).Up(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	cat, err := catalog.LoadFile(cfg.CatalogFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("failed to load test catalog")
	}

	cache := querycache.New(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	cleanupCtx, cleanupCancel := context.WithCancel(ctx)
	defer cleanupCancel()
	cache.StartCleanup(cleanupCtx, time.Minute)

	tx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}

	// Repositories and services
	patientRepo := patient.NewRepo(pool)
	orderRepo := order.NewRepo(pool)
	roundRepo := wardround.NewRepo(pool)
	fileRepo := dutyfile.NewRepo(pool)

	fileStore, err := dutyfile.NewStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload directory")
	}

	patientSvc := patient.NewService(patientRepo, orderRepo, roundRepo, cat, cache, tx)
	orderSvc := order.NewService(orderRepo, cache)
	roundSvc := wardround.NewService(roundRepo, orderRepo, patientRepo, cat, cache, tx)
	fileSvc := dutyfile.NewService(fileRepo, fileStore, cache)
	reportSvc := report.NewService(patientRepo, orderRepo, roundRepo, cache)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))

	e.GET("/healthz", db.HealthHandler(pool))

	api := e.Group("/api")
	if cfg.GateEnabled() {
		api.Use(middleware.PasswordGate(cfg.AppPassword))
	} else {
		logger.Warn().Msg("APP_PASSWORD not set; the API is open")
	}

	patient.NewHandler(patientSvc).RegisterRoutes(api)
	order.NewHandler(orderSvc).RegisterRoutes(api)
	wardround.NewHandler(roundSvc).RegisterRoutes(api)
	dutyfile.NewHandler(fileSvc).RegisterRoutes(api)
	catalog.NewHandler(cat).RegisterRoutes(api)
	report.NewHandler(reportSvc).RegisterRoutes(api)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}

// seedSampleData inserts three demo patients and three orders with
// scheduled dates relative to today.
func seedSampleData(ctx context.Context, pool *pgxpool.Pool) error {
	today := dateutil.Today()
	rel := func(days int) string {
		d, err := dateutil.AddDays(today, days)
		if err != nil {
			return today
		}
		return d
	}
	intp := func(n int) *int { return &n }
	strp := func(s string) *string { return &s }

	patients := []*patient.Patient{
		{
			MedicalID: "BN001", Name: "Nguyễn A", DOB: "1975-02-10",
			Ward: "304", Bed: "01", AdmissionDate: today,
			Severity: intp(4), SurgeryNeeded: true, PlannedTreatmentDays: intp(7),
			Diagnosis: "Tăng huyết áp", Active: true,
		},
		{
			MedicalID: "BN002", Name: "Trần B", DOB: "1960-07-22",
			Ward: "305", Bed: "02", AdmissionDate: rel(-2),
			SurgeryNeeded: true, Operated: true,
			Diagnosis: "ĐTĐ typ 2", Active: true,
		},
		{
			MedicalID: "BN003", Name: "Lê C", DOB: "1988-11-03",
			Ward: "306", Bed: "01", AdmissionDate: rel(-6),
			Severity: intp(5), SurgeryNeeded: true, PlannedTreatmentDays: intp(10),
			Diagnosis: "Chấn thương sọ não", Active: true,
		},
	}

	patientRepo := patient.NewRepo(pool)
	orderRepo := order.NewRepo(pool)

	return db.WithTx(ctx, pool, func(ctx context.Context) error {
		for _, p := range patients {
			if err := patientRepo.Create(ctx, p); err != nil {
				return fmt.Errorf("seed patient %s: %w", p.MedicalID, err)
			}
		}

		orders := []*order.Order{
			{
				PatientID: patients[0].ID, OrderType: "CT", Description: "CT não",
				DateOrdered: today, ScheduledDate: strp(rel(1)), Status: order.StatusScheduled,
			},
			{
				PatientID: patients[1].ID, OrderType: "XN máu", Description: "Tổng phân tích",
				DateOrdered: rel(-1), ScheduledDate: strp(today), Status: order.StatusPending,
			},
			{
				PatientID: patients[2].ID, OrderType: "Siêu âm", Description: "Ổ bụng",
				DateOrdered: today, ScheduledDate: strp(rel(2)), Status: order.StatusScheduled,
			},
		}
		for _, o := range orders {
			if err := orderRepo.Create(ctx, o); err != nil {
				return fmt.Errorf("seed order %s: %w", o.OrderType, err)
			}
		}
		return nil
	})
}
