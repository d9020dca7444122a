package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/jobs"
)

type stubEnqueuer struct {
	sources []string
	err     error
}

func (s *stubEnqueuer) EnqueueSessionsSweep(_ context.Context, source string) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sources = append(s.sources, source)
	return &asynq.TaskInfo{ID: "task-1", Type: jobs.TaskSessionsSweep, Queue: jobs.QueueDefault}, nil
}

func (s *stubEnqueuer) Close() error { return nil }

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, s.err }

func (s stubInspector) ListScheduledTasks(string, ...asynq.ListOption) ([]*asynq.TaskInfo, error) {
	return nil, s.err
}

func (s stubInspector) Close() error { return nil }

func TestTriggerSessionsSweep(t *testing.T) {
	enq := &stubEnqueuer{}
	cli := NewJobsCLIWith(enq, stubInspector{})

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	code := cli.Command(context.Background(), JobsOptions{
		Args: []string{"trigger", jobs.TaskSessionsSweep}, Stdout: stdout, Stderr: stderr,
	})
	require.Zero(t, code)
	require.Empty(t, stderr.String())
	require.Contains(t, stdout.String(), "enqueued sessions:sweep id=task-1")
	require.Equal(t, []string{"cli"}, enq.sources)
}

func TestTriggerUnknownTask(t *testing.T) {
	cli := NewJobsCLIWith(&stubEnqueuer{}, stubInspector{})
	stderr := new(bytes.Buffer)
	code := cli.Command(context.Background(), JobsOptions{Args: []string{"trigger", "mail:send"}, Stdout: new(bytes.Buffer), Stderr: stderr})
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "unsupported job mail:send")
}

func TestStatsJSON(t *testing.T) {
	cli := NewJobsCLIWith(&stubEnqueuer{}, stubInspector{info: &asynq.QueueInfo{Queue: jobs.QueueDefault, Pending: 2, Scheduled: 1}})
	stdout := new(bytes.Buffer)
	code := cli.Command(context.Background(), JobsOptions{Args: []string{"stats"}, JSONOutput: true, Stdout: stdout, Stderr: new(bytes.Buffer)})
	require.Zero(t, code)

	var stats QueueStats
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &stats))
	require.Equal(t, QueueStats{Queue: jobs.QueueDefault, Pending: 2, Scheduled: 1}, stats)
}

func TestStatsQueueMissing(t *testing.T) {
	cli := NewJobsCLIWith(&stubEnqueuer{}, stubInspector{err: asynq.ErrQueueNotFound})
	stats, err := cli.InspectQueue(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.Pending)
}

func TestStatsInspectorFailure(t *testing.T) {
	cli := NewJobsCLIWith(&stubEnqueuer{}, stubInspector{err: errors.New("redis: connection refused")})
	stderr := new(bytes.Buffer)
	code := cli.Command(context.Background(), JobsOptions{Args: []string{"stats"}, Stdout: new(bytes.Buffer), Stderr: stderr})
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "connection refused")
}

func TestCommandUsage(t *testing.T) {
	cli := NewJobsCLIWith(&stubEnqueuer{}, stubInspector{})
	require.Equal(t, 2, cli.Command(context.Background(), JobsOptions{Stdout: new(bytes.Buffer), Stderr: new(bytes.Buffer)}))
	require.Equal(t, 2, cli.Command(context.Background(), JobsOptions{Args: []string{"trigger"}, Stdout: new(bytes.Buffer), Stderr: new(bytes.Buffer)}))
}
