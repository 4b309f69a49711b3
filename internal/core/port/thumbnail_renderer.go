package port

import (
	"context"
	"image"

	"github.com/bornholm/pdfsplit/internal/core/model"
)

type ThumbnailRenderer interface {
	RenderThumbnail(ctx context.Context, doc *model.Document, page model.PageIndex, scale float64) (image.Image, error)
}
