package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/foodshare/foodshare/internal/jobs"
)

// Sweeper deletes session tokens older than one session lifetime.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// SessionJanitorJob removes expired session tokens on a schedule.
type SessionJanitorJob struct {
	Sweeper Sweeper
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewSessionJanitorJob initialises the janitor handler.
func NewSessionJanitorJob(sweeper Sweeper, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionJanitorJob {
	return &SessionJanitorJob{Sweeper: sweeper, Logger: logger, Metrics: metrics}
}

// Handle executes a single sweep. Failures are logged and left for the next
// scheduled run.
func (j *SessionJanitorJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Sweeper == nil {
		return errors.New("session janitor: handler not configured")
	}
	var payload SessionsSweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	tracker := j.Metrics.Track(TaskSessionsSweep)
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.logger()
	removed, err := j.Sweeper.SweepExpired(ctx)
	if err != nil {
		logger.Error("session sweep failed", slog.String("source", payload.Source), slog.Any("error", err))
		return err
	}
	j.Metrics.AddSweptTokens(removed)
	if removed > 0 {
		logger.Info("expired session tokens removed", slog.Int64("count", removed), slog.String("source", payload.Source))
	} else {
		logger.Debug("no expired session tokens", slog.String("source", payload.Source))
	}
	return nil
}

func (j *SessionJanitorJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

// TaskHandler adapts the job for WorkerConfig registration.
func (j *SessionJanitorJob) TaskHandler() TaskHandler {
	return TaskHandler{Type: TaskSessionsSweep, Handler: j.Handle}
}
