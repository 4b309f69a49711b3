package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/pdfsplit/internal/adapter/memory/syncx"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
)

type taskEntry struct {
	Task  model.Task
	State port.TaskState
}

type TaskRunner struct {
	runningMutex *sync.Mutex
	runningCond  *sync.Cond
	running      bool

	tasks      syncx.Map[model.TaskID, taskEntry]
	stateMutex sync.Mutex

	handlers  syncx.Map[model.TaskType, port.TaskHandler]
	semaphore chan struct{}

	cleanupDelay    time.Duration
	cleanupInterval time.Duration
}

// CancelTask implements [port.TaskRunner].
func (r *TaskRunner) CancelTask(ctx context.Context, id model.TaskID) error {
	r.stateMutex.Lock()
	defer r.stateMutex.Unlock()

	entry, exists := r.tasks.Load(id)
	if !exists {
		return errors.WithStack(port.ErrNotFound)
	}

	if entry.State.Status != port.TaskStatusPending {
		return errors.WithStack(port.ErrCanceled)
	}

	entry.State.Error = errors.WithStack(port.ErrCanceled)
	entry.State.Status = port.TaskStatusFailed
	entry.State.FinishedAt = time.Now()

	r.tasks.Store(id, entry)

	return nil
}

// Run implements port.TaskRunner.
func (r *TaskRunner) Run(ctx context.Context) error {
	r.runningMutex.Lock()
	r.running = true
	r.runningCond.Broadcast()
	r.runningMutex.Unlock()

	go func() {
		ticker := time.NewTicker(r.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				slog.DebugContext(ctx, "running task cleaner")
				r.cleanup(ctx, time.Now())
			}
		}
	}()

	<-ctx.Done()

	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (r *TaskRunner) cleanup(ctx context.Context, now time.Time) {
	var expired []model.TaskID

	r.tasks.Range(func(id model.TaskID, entry taskEntry) bool {
		if entry.State.FinishedAt.IsZero() || !now.After(entry.State.FinishedAt.Add(r.cleanupDelay)) {
			return true
		}

		expired = append(expired, id)

		return true
	})

	for _, id := range expired {
		slog.DebugContext(ctx, "deleting expired task", slog.String("taskID", string(id)))
		r.tasks.Delete(id)
	}
}

// ListTasks implements port.TaskRunner.
func (r *TaskRunner) ListTasks(ctx context.Context) ([]port.TaskStateHeader, error) {
	headers := make([]port.TaskStateHeader, 0)
	r.tasks.Range(func(id model.TaskID, entry taskEntry) bool {
		headers = append(headers, entry.State.TaskStateHeader)
		return true
	})
	return headers, nil
}

// RegisterTask implements port.TaskRunner.
func (r *TaskRunner) RegisterTask(taskType model.TaskType, handler port.TaskHandler) {
	r.handlers.Store(taskType, handler)
}

// ScheduleTask implements port.TaskRunner.
func (r *TaskRunner) ScheduleTask(ctx context.Context, task model.Task) error {
	taskID := task.ID()

	ctx = slogx.WithAttrs(context.WithoutCancel(ctx),
		slog.String("taskID", string(taskID)),
		slog.String("taskType", string(task.Type())),
	)

	r.updateState(task, func(s *port.TaskState) {
		s.ID = taskID
		s.ScheduledAt = time.Now()
		s.Status = port.TaskStatusPending
		s.Type = task.Type()
	})

	go r.execute(ctx, task)

	return nil
}

func (r *TaskRunner) execute(ctx context.Context, task model.Task) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err, ok := recovered.(error)
			if !ok {
				err = errors.Errorf("%+v", recovered)
			}

			slog.ErrorContext(ctx, "recovered panic while running task", slog.Any("error", errors.WithStack(err)))

			r.updateState(task, func(s *port.TaskState) {
				s.Error = errors.WithStack(err)
				s.Status = port.TaskStatusFailed
				s.FinishedAt = time.Now()
			})
		}
	}()

	r.runningMutex.Lock()
	for !r.running {
		r.runningCond.Wait()
	}
	r.runningMutex.Unlock()

	r.semaphore <- struct{}{}
	defer func() {
		<-r.semaphore
	}()

	if !r.start(task) {
		slog.DebugContext(ctx, "task was canceled before starting")
		return
	}

	handler, exists := r.handlers.Load(task.Type())
	if !exists {
		r.updateState(task, func(s *port.TaskState) {
			s.Error = errors.Errorf("no handler registered for task type '%s'", task.Type())
			s.Status = port.TaskStatusFailed
			s.FinishedAt = time.Now()
		})

		return
	}

	events := make(chan port.TaskEvent)

	var eventsWg sync.WaitGroup
	eventsWg.Add(1)
	go func() {
		defer eventsWg.Done()
		for e := range events {
			r.updateState(task, func(s *port.TaskState) {
				if e.Progress != nil {
					s.Progress = max(min(*e.Progress, 1), 0)
				}
				if e.Message != nil {
					s.Message = *e.Message
				}
			})
		}
	}()

	start := time.Now()

	slog.DebugContext(ctx, "executing task")

	err := handler.Handle(ctx, task, events)

	// Drain events before writing the final state
	close(events)
	eventsWg.Wait()

	if err != nil {
		err = errors.WithStack(err)
		slog.ErrorContext(ctx, "task failed", slog.Any("error", err))

		r.updateState(task, func(s *port.TaskState) {
			s.Error = err
			s.Status = port.TaskStatusFailed
			s.FinishedAt = time.Now()
		})
		return
	}

	slog.DebugContext(ctx, "task finished", slog.Duration("duration", time.Since(start)))

	r.updateState(task, func(s *port.TaskState) {
		s.Status = port.TaskStatusSucceeded
		s.FinishedAt = time.Now()
		s.Progress = 1
	})
}

// start moves a pending task to the running state. It returns false if the
// task has been canceled in the meantime.
func (r *TaskRunner) start(task model.Task) bool {
	r.stateMutex.Lock()
	defer r.stateMutex.Unlock()

	entry, exists := r.tasks.Load(task.ID())
	if !exists || entry.State.Status != port.TaskStatusPending {
		return false
	}

	entry.State.Status = port.TaskStatusRunning
	r.tasks.Store(task.ID(), entry)

	return true
}

func (r *TaskRunner) updateState(task model.Task, fn func(s *port.TaskState)) {
	r.stateMutex.Lock()
	defer r.stateMutex.Unlock()

	entry, _ := r.tasks.LoadOrStore(task.ID(), taskEntry{
		Task: task,
		State: port.TaskState{
			TaskStateHeader: port.TaskStateHeader{
				ID: task.ID(),
			},
		},
	})

	fn(&entry.State)

	r.tasks.Store(task.ID(), entry)
}

// GetTaskState implements port.TaskRunner.
func (r *TaskRunner) GetTaskState(ctx context.Context, id model.TaskID) (*port.TaskState, error) {
	entry, exists := r.tasks.Load(id)
	if !exists {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	return &entry.State, nil
}

func NewTaskRunner(parallelism int, cleanupDelay time.Duration, cleanupInterval time.Duration) *TaskRunner {
	runningMutex := &sync.Mutex{}
	return &TaskRunner{
		runningMutex:    runningMutex,
		runningCond:     sync.NewCond(runningMutex),
		running:         false,
		semaphore:       make(chan struct{}, max(parallelism, 1)),
		cleanupDelay:    cleanupDelay,
		cleanupInterval: cleanupInterval,
	}
}

var _ port.TaskRunner = &TaskRunner{}
