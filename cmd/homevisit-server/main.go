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
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yorisoi/homevisit/internal/config"
	"github.com/yorisoi/homevisit/internal/domain/facility"
	"github.com/yorisoi/homevisit/internal/domain/patient"
	"github.com/yorisoi/homevisit/internal/domain/roster"
	"github.com/yorisoi/homevisit/internal/domain/round"
	"github.com/yorisoi/homevisit/internal/domain/workspace"
	"github.com/yorisoi/homevisit/internal/platform/auth"
	"github.com/yorisoi/homevisit/internal/platform/db"
	"github.com/yorisoi/homevisit/internal/platform/idgen"
	"github.com/yorisoi/homevisit/internal/platform/metrics"
	"github.com/yorisoi/homevisit/internal/platform/middleware"
	"github.com/yorisoi/homevisit/internal/platform/seed"
	"github.com/yorisoi/homevisit/internal/platform/summarizer"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "homevisit-server",
		Short: "Home-visit rounds API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the rounds API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	// Stores
	var (
		facilityRepo facility.Repository
		patientRepo  patient.Repository
		roundRepo    round.Repository
		pool         *pgxpool.Pool
	)
	switch cfg.Store {
	case config.StorePostgres:
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")

		facilityRepo = facility.NewRepoPG(pool)
		patientRepo = patient.NewRepoPG(pool)
		roundRepo = round.NewRepoPG(pool)
	default:
		facilityRepo = facility.NewRepoMem()
		patientRepo = patient.NewRepoMem()
		roundRepo = round.NewRepoMem()

		if cfg.SeedDemoData {
			stores := seed.Stores{Facilities: facilityRepo, Patients: patientRepo, Rounds: roundRepo}
			if err := seed.Load(ctx, stores); err != nil {
				logger.Fatal().Err(err).Msg("failed to seed demo data")
			}
			logger.Info().Msg("seeded demo dataset")
		}
	}

	// Services
	ids := idgen.New(idgen.SystemClock{})
	sum := summarizer.NewRuleBased()
	col := metrics.NewCollector("homevisit")

	facilitySvc := facility.NewService(facilityRepo)
	patientSvc := patient.NewService(patientRepo, ids, sum)
	roundSvc := round.NewService(roundRepo, patientSvc, ids, sum)
	rosterSvc := roster.NewService(facilityRepo, patientSvc, ids)
	workspaceSvc := workspace.NewService(roundSvc, patientSvc)
	authSvc := auth.NewService(cfg.DemoUser, cfg.DemoPassword, cfg.JWTSecret)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M", "10M"))
	e.Use(col.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check and metrics
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	// Login endpoint, outside the authenticated group
	auth.NewHandler(authSvc).RegisterRoutes(e)

	// API group
	apiV1 := e.Group("/api/v1")

	if cfg.IsDev() {
		apiV1.Use(auth.DevMiddleware())
	} else {
		apiV1.Use(auth.Middleware(authSvc))
	}

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Domain routes
	facility.NewHandler(facilitySvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc, col).RegisterRoutes(apiV1)
	round.NewHandler(roundSvc, col).RegisterRoutes(apiV1)
	roster.NewHandler(rosterSvc, col).RegisterRoutes(apiV1)
	workspace.NewHandler(workspaceSvc).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("store", cfg.Store).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
