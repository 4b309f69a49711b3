package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
)

type ListTasksResponse struct {
	Tasks []TaskStateHeader `json:"tasks"`
}

type TaskStateHeader struct {
	ID          model.TaskID    `json:"id"`
	Type        model.TaskType  `json:"type"`
	ScheduledAt time.Time       `json:"scheduledAt"`
	Status      port.TaskStatus `json:"status"`
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	headers, err := h.taskRunner.ListTasks(r.Context())
	if err != nil {
		writeError(w, r, errors.Wrap(err, "could not list tasks"))
		return
	}

	slices.SortFunc(headers, func(h1, h2 port.TaskStateHeader) int {
		return h1.ScheduledAt.Compare(h2.ScheduledAt)
	})

	tasks := make([]TaskStateHeader, 0, len(headers))
	for _, h := range headers {
		tasks = append(tasks, TaskStateHeader{ID: h.ID, Type: h.Type, ScheduledAt: h.ScheduledAt, Status: h.Status})
	}

	writeJSON(w, r, http.StatusOK, ListTasksResponse{Tasks: tasks})
}

type ShowTaskResponse struct {
	Task *Task `json:"task"`
}

type Task struct {
	ID          model.TaskID    `json:"id"`
	Type        model.TaskType  `json:"type"`
	Status      port.TaskStatus `json:"status"`
	Progress    float32         `json:"progress"`
	ScheduledAt time.Time       `json:"scheduledAt"`
	FinishedAt  time.Time       `json:"finishedAt"`
	Error       string          `json:"error,omitempty"`
	Message     string          `json:"message"`
}

func (h *Handler) showTask(w http.ResponseWriter, r *http.Request) {
	taskID := model.TaskID(r.PathValue("taskID"))

	taskState, err := h.taskRunner.GetTaskState(r.Context(), taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res := ShowTaskResponse{
		Task: &Task{
			ID:          taskID,
			Type:        taskState.Type,
			Status:      taskState.Status,
			Progress:    taskState.Progress,
			ScheduledAt: taskState.ScheduledAt,
			FinishedAt:  taskState.FinishedAt,
			Message:     taskState.Message,
		},
	}

	if taskState.Error != nil {
		if userFacing, ok := errors.Cause(taskState.Error).(UserFacingError); ok {
			res.Task.Error = userFacing.UserMessage()
		} else {
			res.Task.Error = taskState.Error.Error()
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

// cancelTask cancels a pending task. Running tasks cannot be interrupted.
func (h *Handler) cancelTask(w http.ResponseWriter, r *http.Request) {
	taskID := model.TaskID(r.PathValue("taskID"))

	if err := h.taskRunner.CancelTask(r.Context(), taskID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
