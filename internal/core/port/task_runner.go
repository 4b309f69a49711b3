package port

import (
	"context"
	"time"

	"github.com/bornholm/pdfsplit/internal/core/model"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusSucceeded TaskStatus = "succeeded"
	TaskStatusFailed    TaskStatus = "failed"
)

type TaskStateHeader struct {
	ID          model.TaskID
	Type        model.TaskType
	ScheduledAt time.Time
	Status      TaskStatus
}

type TaskState struct {
	TaskStateHeader
	FinishedAt time.Time
	Progress   float32
	Error      error
	Message    string
}

// TaskEvent reports the progress of a running task. Nil fields are left unchanged.
type TaskEvent struct {
	Message  *string
	Progress *float32
}

type TaskEventFunc func(e *TaskEvent)

func WithTaskMessage(message string) TaskEventFunc {
	return func(e *TaskEvent) {
		e.Message = &message
	}
}

func WithTaskProgress(progress float32) TaskEventFunc {
	return func(e *TaskEvent) {
		e.Progress = &progress
	}
}

func NewTaskEvent(funcs ...TaskEventFunc) TaskEvent {
	e := TaskEvent{}
	for _, fn := range funcs {
		fn(&e)
	}
	return e
}

type TaskHandler interface {
	Handle(ctx context.Context, task model.Task, events chan TaskEvent) error
}

type TaskHandlerFunc func(ctx context.Context, task model.Task, events chan TaskEvent) error

func (f TaskHandlerFunc) Handle(ctx context.Context, task model.Task, events chan TaskEvent) error {
	return f(ctx, task, events)
}

type TaskRunner interface {
	ScheduleTask(ctx context.Context, task model.Task) error
	// CancelTask cancels a task that has not started yet. Running tasks
	// cannot be interrupted and ErrCanceled is returned for them.
	CancelTask(ctx context.Context, id model.TaskID) error
	GetTaskState(ctx context.Context, id model.TaskID) (*TaskState, error)
	ListTasks(ctx context.Context) ([]TaskStateHeader, error)
	RegisterTask(taskType model.TaskType, handler TaskHandler)
	Run(ctx context.Context) error
}
