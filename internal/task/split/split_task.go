package split

import (
	"encoding/json"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/pkg/errors"
)

const TaskTypeSplit model.TaskType = "split"

type splitTaskPayload struct {
	SessionID service.SessionID `json:"sessionId"`
}

// SplitTask executes the current split of a session in the background.
type SplitTask struct {
	id        model.TaskID
	sessionID service.SessionID
}

// MarshalJSON implements [json.Marshaler].
func (t *SplitTask) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(splitTaskPayload{
		SessionID: t.sessionID,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (t *SplitTask) UnmarshalJSON(data []byte) error {
	var payload splitTaskPayload

	if err := json.Unmarshal(data, &payload); err != nil {
		return errors.WithStack(err)
	}

	t.sessionID = payload.SessionID

	return nil
}

func (t *SplitTask) SessionID() service.SessionID {
	return t.sessionID
}

// ID implements [model.Task].
func (t *SplitTask) ID() model.TaskID {
	return t.id
}

// Type implements [model.Task].
func (t *SplitTask) Type() model.TaskType {
	return TaskTypeSplit
}

func NewSplitTask(sessionID service.SessionID) *SplitTask {
	return &SplitTask{
		id:        model.NewTaskID(),
		sessionID: sessionID,
	}
}

var _ model.Task = &SplitTask{}
