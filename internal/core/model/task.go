package model

import (
	"github.com/rs/xid"
)

type TaskID string

func NewTaskID() TaskID {
	return TaskID(xid.New().String())
}

type TaskType string

// Task is a unit of asynchronous work scheduled on a task runner.
type Task interface {
	ID() TaskID
	Type() TaskType
}
