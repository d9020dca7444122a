package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionsSweep is the task type that deletes expired session tokens.
	TaskSessionsSweep = "sessions:sweep"
	// DefaultSweepInterval is the janitor cadence when none is configured.
	DefaultSweepInterval = 15 * time.Minute
)

// SessionsSweepPayload describes a janitor run. Source identifies who queued it.
type SessionsSweepPayload struct {
	Source string `json:"source,omitempty"`
}

// NewSessionsSweepTask constructs an Asynq task for the session janitor.
func NewSessionsSweepTask(source string) (*asynq.Task, error) {
	data, err := json.Marshal(SessionsSweepPayload{Source: source})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionsSweep, data, asynq.MaxRetry(0), asynq.Queue(QueueDefault)), nil
}

// SweepCronSpec renders interval as an Asynq "@every" schedule.
func SweepCronSpec(interval time.Duration) string {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return "@every " + interval.String()
}
