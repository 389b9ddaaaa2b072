package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pgRepo "inkwell/internal/infra/adapter/persistence/postgres"
	"inkwell/internal/infra/db"
	workerPkg "inkwell/internal/infra/worker"
	"inkwell/internal/observability/logging"
	"inkwell/internal/resilience/circuitbreaker"
	searchUC "inkwell/internal/usecase/search"
	envcfg "inkwell/pkg/config"
)

const (
	jobPopularTerms = "popular_terms"
	jobPruneQueries = "prune_queries"
)

// waitForMigrations blocks until cmd/api has created the search tables.
func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM search_queries LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := initLogger()

	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	cfg := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("popular_schedule", cfg.PopularSchedule),
		slog.String("prune_schedule", cfg.PruneSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("popular_window", cfg.PopularWindow),
		slog.Duration("query_retention", cfg.QueryRetention),
		slog.Int("health_port", cfg.HealthPort))

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := setupSearchService(database)
	sched, startupJob := setupScheduler(logger, cfg, workerMetrics, svc)

	healthAddr := fmt.Sprintf(":%d", cfg.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger, sched, prometheus.DefaultGatherer)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	// 起動直後に一度だけ集計し、検索候補を空のままにしない
	if err := sched.RunNow(ctx, startupJob); err != nil {
		logger.Warn("initial popular terms run failed", slog.Any("error", err))
	}

	sched.Start(ctx)
	healthServer.SetReady(true)
	logger.Info("worker started")

	<-ctx.Done()
	logger.Info("shutting down worker")
	healthServer.SetReady(false)

	select {
	case <-sched.Stop().Done():
		logger.Info("running jobs finished")
	case <-time.After(30 * time.Second):
		logger.Warn("timed out waiting for running jobs")
	}
}

func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens DATABASE_URL and waits for the schema to exist.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open(context.Background(), envcfg.GetEnvString("DATABASE_URL", ""))
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	waitForMigrations(logger, database)
	return database
}

func setupSearchService(database *sql.DB) *searchUC.Service {
	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	timeout := envcfg.GetEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second)
	return &searchUC.Service{Repo: pgRepo.NewSearchRepo(breaker, pgRepo.WithQueryTimeout(timeout))}
}

// setupScheduler registers the maintenance jobs.
// It also returns the popular terms job, which main runs once at startup.
func setupScheduler(logger *slog.Logger, cfg workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics,
	svc *searchUC.Service) (*workerPkg.Scheduler, workerPkg.Job) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		// LoadConfigFromEnv は検証済みだが念のため UTC にフォールバック
		logger.Warn("failed to load timezone, using UTC", slog.String("timezone", cfg.Timezone))
		loc = time.UTC
	}

	sched := workerPkg.NewScheduler(loc, cfg.JobTimeout, logger, metrics)

	popular := workerPkg.Job{
		Name:     jobPopularTerms,
		Schedule: cfg.PopularSchedule,
		Run: func(ctx context.Context) (int64, error) {
			return svc.RecomputePopular(ctx, cfg.PopularWindow)
		},
	}
	prune := workerPkg.Job{
		Name:     jobPruneQueries,
		Schedule: cfg.PruneSchedule,
		Run: func(ctx context.Context) (int64, error) {
			return svc.PruneQueries(ctx, cfg.QueryRetention)
		},
	}

	for _, job := range []workerPkg.Job{popular, prune} {
		if err := sched.Add(job); err != nil {
			logger.Error("failed to register job", slog.String("job", job.Name), slog.Any("error", err))
			os.Exit(1)
		}
	}
	return sched, popular
}
