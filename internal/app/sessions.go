package app

import (
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/foodshare/foodshare/internal/auth"
	jobmetrics "github.com/foodshare/foodshare/internal/jobs"
	"github.com/foodshare/foodshare/jobs"
)

// NewThrottle selects the login throttle backend from configuration.
func NewThrottle(cfg *Config, client *redis.Client) auth.Throttle {
	if cfg.ThrottleBackend == ThrottleRedis && client != nil {
		return auth.NewRedisThrottle(client, cfg.LoginThrottleWindow, "foodshare:login")
	}
	return auth.NewMemoryThrottle(cfg.LoginThrottleWindow)
}

// NewSessionService wires the hasher, signer and throttle around repo.
func NewSessionService(cfg *Config, repo auth.Repository, client *redis.Client, logger *slog.Logger) *auth.Service {
	return auth.NewService(
		repo,
		auth.NewPasswordHasher(cfg.BcryptCost),
		auth.NewTokenSigner([]byte(cfg.JWTSecret), cfg.SessionLifetime),
		NewThrottle(cfg, client),
		logger,
	)
}

// NewJanitorWorker builds the Asynq worker that runs the session janitor on
// JANITOR_INTERVAL.
func NewJanitorWorker(cfg *Config, sweeper jobs.Sweeper, logger *slog.Logger, metrics *jobmetrics.Metrics) (*jobs.Worker, error) {
	task, err := jobs.NewSessionsSweepTask("scheduler")
	if err != nil {
		return nil, err
	}
	janitor := jobs.NewSessionJanitorJob(sweeper, logger, metrics)
	return jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  []jobs.TaskHandler{janitor.TaskHandler()},
		Cron: []jobs.CronRegistration{
			{Spec: jobs.SweepCronSpec(cfg.JanitorInterval), Task: task},
		},
	})
}
