package setup

import (
	"context"

	"github.com/bornholm/pdfsplit/internal/config"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/thumbnail"
	"github.com/pkg/errors"
)

var ThumbnailRenderer = NewRegistry[port.ThumbnailRenderer]()

var getThumbnailRenderer = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.ThumbnailRenderer, error) {
	renderer, err := ThumbnailRenderer.From(conf.Thumbnail.URI)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve thumbnail renderer for uri '%s'", conf.Thumbnail.URI)
	}

	if conf.Thumbnail.RateLimit.Enabled {
		renderer = thumbnail.NewRateLimitedRenderer(renderer, conf.Thumbnail.RateLimit.Interval, conf.Thumbnail.RateLimit.MaxBurst)
	}

	return renderer, nil
})
