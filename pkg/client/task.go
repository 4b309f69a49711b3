package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/http/handler/api"
	"github.com/pkg/errors"
)

type WaitForOptions struct {
	PollInterval time.Duration
}

type WaitForOptionFunc func(opts *WaitForOptions)

func WithWaitForPollInterval(interval time.Duration) WaitForOptionFunc {
	return func(opts *WaitForOptions) {
		opts.PollInterval = interval
	}
}

func NewWaitForOptions(funcs ...WaitForOptionFunc) *WaitForOptions {
	opts := &WaitForOptions{
		PollInterval: time.Second * 2,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

// WaitFor polls the task until it is finished, successfully or not.
func (c *Client) WaitFor(ctx context.Context, taskID model.TaskID, funcs ...WaitForOptionFunc) (*api.Task, error) {
	opts := NewWaitForOptions(funcs...)

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	endpoint := fmt.Sprintf("/tasks/%s", taskID)

	for {
		var res api.ShowTaskResponse
		if err := c.jsonRequest(ctx, http.MethodGet, endpoint, nil, &res); err != nil {
			return nil, errors.WithStack(err)
		}

		if !res.Task.FinishedAt.IsZero() {
			return res.Task, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) CancelTask(ctx context.Context, taskID model.TaskID) error {
	if err := c.jsonRequest(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%s", taskID), nil, nil); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
