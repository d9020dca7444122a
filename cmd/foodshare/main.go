package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/foodshare/foodshare/cmd/foodshare/cli"
	"github.com/foodshare/foodshare/internal/app"
	"github.com/foodshare/foodshare/internal/auth"
	"github.com/foodshare/foodshare/internal/food"
	jobmetrics "github.com/foodshare/foodshare/internal/jobs"
	"github.com/foodshare/foodshare/internal/mealplan"
	"github.com/foodshare/foodshare/internal/nutrition"
	"github.com/foodshare/foodshare/internal/observability"
	"github.com/foodshare/foodshare/internal/platform/cache"
	"github.com/foodshare/foodshare/internal/platform/db"
	"github.com/foodshare/foodshare/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		os.Exit(runJobs(ctx, cfg, os.Args[2:]))
	}

	if err := serve(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func runJobs(ctx context.Context, cfg *app.Config, args []string) int {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	jsonOutput := fs.Bool("json", false, "print machine readable output")
	if len(args) > 0 {
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		args = append([]string{args[0]}, fs.Args()...)
	}
	jobsCLI, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobs: %v\n", err)
		return 1
	}
	defer jobsCLI.Close()
	return jobsCLI.Command(ctx, cli.JobsOptions{Args: args, JSONOutput: *jsonOutput})
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, cfg.PGDSN, db.Options{})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	authService := app.NewSessionService(cfg, auth.NewRepository(pool), redisClient, logger)
	authHandler := auth.NewHandler(logger, authService, cfg.IsProduction())
	foodHandler := food.NewHandler(logger, food.NewService(food.NewRepository(pool)))
	nutritionHandler := nutrition.NewHandler(logger, nutrition.NewService(nutrition.NewRepository(pool)))
	mealPlanHandler := mealplan.NewHandler(logger, mealplan.NewService(mealplan.NewRepository(pool)))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer inspector.Close()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		FoodHandler:      foodHandler,
		NutritionHandler: nutritionHandler,
		MealPlanHandler:  mealPlanHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown", slog.Any("error", err))
		}
		return nil
	})
	if cfg.JanitorEmbedded {
		worker, err := app.NewJanitorWorker(cfg, authService, logger, jobMetrics)
		if err != nil {
			return fmt.Errorf("init janitor: %w", err)
		}
		group.Go(func() error {
			if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("janitor worker: %w", err)
			}
			return nil
		})
	}
	return group.Wait()
}
