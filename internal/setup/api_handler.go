package setup

import (
	"context"

	"github.com/bornholm/pdfsplit/internal/config"
	"github.com/bornholm/pdfsplit/internal/http/handler/api"
	"github.com/pkg/errors"
)

func getAPIHandlerFromConfig(ctx context.Context, conf *config.Config) (*api.Handler, error) {
	sessions, err := getSessionManager(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create session manager from config")
	}

	taskRunner, err := getTaskRunner(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create task runner from config")
	}

	handoff, err := getHandoffStore(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create handoff store from config")
	}

	handler := api.NewHandler(
		sessions, taskRunner, handoff,
		api.WithMaxUploadSize(conf.HTTP.MaxUploadSize),
		api.WithThumbnailScale(conf.Thumbnail.Scale),
	)

	return handler, nil
}
