package memory

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
)

type dummyTask struct {
	id model.TaskID
}

func (t *dummyTask) ID() model.TaskID {
	return t.id
}

func (t *dummyTask) Type() model.TaskType {
	return "dummy"
}

func TestTaskRunner(t *testing.T) {
	runner := NewTaskRunner(10, time.Hour, time.Minute)

	var executed atomic.Int64

	runner.RegisterTask("dummy", port.TaskHandlerFunc(func(ctx context.Context, task model.Task, events chan port.TaskEvent) error {
		events <- port.NewTaskEvent(port.WithTaskProgress(0.5), port.WithTaskMessage("half way"))
		executed.Add(1)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("%+v", errors.WithStack(err))
		}
	}()

	total := 50
	tasks := make([]*dummyTask, 0, total)

	for range total {
		task := &dummyTask{id: model.NewTaskID()}
		if err := runner.ScheduleTask(ctx, task); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}
		tasks = append(tasks, task)
	}

	deadline := time.Now().Add(5 * time.Second)
	for executed.Load() < int64(total) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if e, g := int64(total), executed.Load(); e != g {
		t.Fatalf("executed: expected %d, got %d", e, g)
	}

	for _, task := range tasks {
		state := waitForFinish(t, runner, task.ID())

		if e, g := port.TaskStatusSucceeded, state.Status; e != g {
			t.Errorf("task %s: status: expected '%s', got '%s'", task.ID(), e, g)
		}

		if e, g := float32(1), state.Progress; e != g {
			t.Errorf("task %s: progress: expected %v, got %v", task.ID(), e, g)
		}

		if e, g := "half way", state.Message; e != g {
			t.Errorf("task %s: message: expected '%s', got '%s'", task.ID(), e, g)
		}
	}
}

func TestTaskRunnerCancelPending(t *testing.T) {
	runner := NewTaskRunner(1, time.Hour, time.Minute)

	var executed atomic.Int64

	runner.RegisterTask("dummy", port.TaskHandlerFunc(func(ctx context.Context, task model.Task, events chan port.TaskEvent) error {
		executed.Add(1)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The runner is not started yet: the task stays pending
	task := &dummyTask{id: model.NewTaskID()}
	if err := runner.ScheduleTask(ctx, task); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := runner.CancelTask(ctx, task.ID()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	go runner.Run(ctx)

	state := waitForFinish(t, runner, task.ID())

	if e, g := port.TaskStatusFailed, state.Status; e != g {
		t.Errorf("status: expected '%s', got '%s'", e, g)
	}

	if !errors.Is(state.Error, port.ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %+v", state.Error)
	}

	// Let the goroutine observe the cancellation
	time.Sleep(50 * time.Millisecond)

	if e, g := int64(0), executed.Load(); e != g {
		t.Errorf("executed: expected %d, got %d", e, g)
	}

	if err := runner.CancelTask(ctx, task.ID()); !errors.Is(err, port.ErrCanceled) {
		t.Errorf("expected ErrCanceled when canceling a finished task, got %+v", err)
	}

	if err := runner.CancelTask(ctx, model.NewTaskID()); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown task, got %+v", err)
	}
}

func TestTaskRunnerCleanup(t *testing.T) {
	runner := NewTaskRunner(1, time.Minute, time.Minute)

	task := &dummyTask{id: model.NewTaskID()}
	finishedAt := time.Now()

	runner.updateState(task, func(s *port.TaskState) {
		s.Status = port.TaskStatusSucceeded
		s.FinishedAt = finishedAt
	})

	runner.cleanup(context.Background(), finishedAt.Add(30*time.Second))

	if _, err := runner.GetTaskState(context.Background(), task.ID()); err != nil {
		t.Fatalf("expected task to be kept, got %+v", err)
	}

	runner.cleanup(context.Background(), finishedAt.Add(2*time.Minute))

	if _, err := runner.GetTaskState(context.Background(), task.ID()); !errors.Is(err, port.ErrNotFound) {
		t.Fatalf("expected task to be removed, got %+v", err)
	}
}

func waitForFinish(t *testing.T, runner *TaskRunner, id model.TaskID) *port.TaskState {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		state, err := runner.GetTaskState(context.Background(), id)
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if !state.FinishedAt.IsZero() {
			return state
		}

		if time.Now().After(deadline) {
			t.Fatalf("task %s did not finish in time", id)
		}

		time.Sleep(10 * time.Millisecond)
	}
}
