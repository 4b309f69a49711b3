package api

import (
	"net/http"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	splitTask "github.com/bornholm/pdfsplit/internal/task/split"
	"github.com/pkg/errors"
)

type SplitResponse struct {
	TaskID model.TaskID `json:"taskId"`
}

// handleSplit schedules the split of the session. Preconditions are checked
// before scheduling so that an impossible split never becomes a task.
func (h *Handler) handleSplit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.getSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if session.Running() {
		writeError(w, r, errors.WithStack(port.ErrBusy))
		return
	}

	if err := session.CanSplit(); err != nil {
		writeError(w, r, err)
		return
	}

	task := splitTask.NewSplitTask(session.ID())

	if err := h.taskRunner.ScheduleTask(ctx, task); err != nil {
		writeError(w, r, errors.Wrap(err, "could not schedule split task"))
		return
	}

	writeJSON(w, r, http.StatusAccepted, SplitResponse{TaskID: task.ID()})
}
