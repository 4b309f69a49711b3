package split

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/pkg/errors"
)

type SessionProvider interface {
	Get(ctx context.Context, id service.SessionID) (*service.Session, error)
}

type SplitHandler struct {
	sessions SessionProvider
}

func NewSplitHandler(sessions SessionProvider) *SplitHandler {
	return &SplitHandler{
		sessions: sessions,
	}
}

// Handle implements [port.TaskHandler].
func (h *SplitHandler) Handle(ctx context.Context, task model.Task, events chan port.TaskEvent) error {
	splitTask, ok := task.(*SplitTask)
	if !ok {
		return errors.Errorf("unexpected task type '%T'", task)
	}

	ctx = slogx.WithAttrs(ctx, slog.String("sessionID", string(splitTask.sessionID)))

	session, err := h.sessions.Get(ctx, splitTask.sessionID)
	if err != nil {
		return errors.Wrapf(err, "could not retrieve session '%s'", splitTask.sessionID)
	}

	events <- port.NewTaskEvent(port.WithTaskProgress(0), port.WithTaskMessage("splitting document"))

	result, err := session.Split(ctx, func(done, total int) {
		events <- port.NewTaskEvent(
			port.WithTaskProgress(float32(done)/float32(total)),
			port.WithTaskMessage(fmt.Sprintf("%d/%d outputs created", done, total)),
		)
	})
	if err != nil {
		return errors.WithStack(err)
	}

	events <- port.NewTaskEvent(port.WithTaskMessage(fmt.Sprintf("%d outputs ready", len(result.Artifacts))))

	return nil
}

var _ port.TaskHandler = &SplitHandler{}
