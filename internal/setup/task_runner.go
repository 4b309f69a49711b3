package setup

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/pdfsplit/internal/config"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/metrics"
	splitTask "github.com/bornholm/pdfsplit/internal/task/split"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var TaskRunner = NewRegistry[port.TaskRunner]()

var getTaskRunner = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.TaskRunner, error) {
	taskRunner, err := TaskRunner.From(conf.TaskRunner.URI)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve task runner for uri '%s'", conf.TaskRunner.URI)
	}

	if err := setupTaskHandlers(ctx, conf, taskRunner); err != nil {
		return nil, errors.WithStack(err)
	}

	go func() {
		taskRunnerCtx := context.Background()
		backoff := time.Second
		for {
			start := time.Now()
			if err := taskRunner.Run(taskRunnerCtx); err != nil {
				slog.ErrorContext(taskRunnerCtx, "error while running task runner", slog.Any("error", errors.WithStack(err)))
			}
			time.Sleep(backoff)
			if time.Since(start) > backoff/2 {
				backoff = time.Second
			} else {
				backoff *= 2
			}
		}
	}()

	go collectTaskMetrics(context.Background(), taskRunner, 30*time.Second)

	return taskRunner, nil
})

func collectTaskMetrics(ctx context.Context, taskRunner port.TaskRunner, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		tasks, err := taskRunner.ListTasks(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "could not list tasks", slog.Any("error", errors.WithStack(err)))
		} else {
			stats := map[port.TaskStatus]float64{
				port.TaskStatusPending:   0,
				port.TaskStatusRunning:   0,
				port.TaskStatusFailed:    0,
				port.TaskStatusSucceeded: 0,
			}
			for _, t := range tasks {
				stats[t.Status] += 1
			}

			for status, total := range stats {
				metrics.Tasks.With(prometheus.Labels{
					metrics.LabelStatus: string(status),
				}).Set(total)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func setupTaskHandlers(ctx context.Context, conf *config.Config, taskRunner port.TaskRunner) error {
	sessions, err := getSessionManager(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "could not create session manager from config")
	}

	taskRunner.RegisterTask(splitTask.TaskTypeSplit, splitTask.NewSplitHandler(sessions))

	return nil
}
