package thumbnail

import (
	"context"
	"image"
	"time"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

type RateLimitedRenderer struct {
	limiter  *rate.Limiter
	renderer port.ThumbnailRenderer
}

// RenderThumbnail implements [port.ThumbnailRenderer].
func (r *RateLimitedRenderer) RenderThumbnail(ctx context.Context, doc *model.Document, page model.PageIndex, scale float64) (image.Image, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return r.renderer.RenderThumbnail(ctx, doc, page, scale)
}

func NewRateLimitedRenderer(renderer port.ThumbnailRenderer, interval time.Duration, maxBurst int) *RateLimitedRenderer {
	return &RateLimitedRenderer{
		limiter:  rate.NewLimiter(rate.Every(interval), maxBurst),
		renderer: renderer,
	}
}

var _ port.ThumbnailRenderer = &RateLimitedRenderer{}
