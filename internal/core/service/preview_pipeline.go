package service

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

type PreviewPipelineOptions struct {
	BatchSize int
	CacheSize int
}

type PreviewPipelineOptionFunc func(opts *PreviewPipelineOptions)

func WithPreviewBatchSize(size int) PreviewPipelineOptionFunc {
	return func(opts *PreviewPipelineOptions) {
		opts.BatchSize = size
	}
}

func WithPreviewCacheSize(size int) PreviewPipelineOptionFunc {
	return func(opts *PreviewPipelineOptions) {
		opts.CacheSize = size
	}
}

func NewPreviewPipelineOptions(funcs ...PreviewPipelineOptionFunc) *PreviewPipelineOptions {
	opts := &PreviewPipelineOptions{
		BatchSize: 5,
		CacheSize: 512,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// Preview is the thumbnail of one page. Failed renders carry a blank image
// and the rendering error.
type Preview struct {
	Page  model.PageIndex
	Image image.Image
	Err   error
}

func (p Preview) Blank() bool {
	return p.Err != nil
}

type previewKey struct {
	Document model.DocumentID
	Page     model.PageIndex
	Scale    float64
}

// PreviewPipeline renders page thumbnails in bounded batches. It never blocks
// nor fails a split.
type PreviewPipeline struct {
	renderer  port.ThumbnailRenderer
	batchSize int
	cache     *lru.Cache[previewKey, image.Image]
}

// Render renders the given pages batch by batch. onPreview, when not nil, is
// called as soon as each preview is available, so callers can populate
// progressively. The returned previews follow the order of pages.
func (p *PreviewPipeline) Render(ctx context.Context, doc *model.Document, pages []model.PageIndex, scale float64, onPreview func(Preview)) ([]Preview, error) {
	previews := make([]Preview, len(pages))

	var callbackMutex sync.Mutex
	notify := func(preview Preview) {
		if onPreview == nil {
			return
		}
		callbackMutex.Lock()
		defer callbackMutex.Unlock()
		onPreview(preview)
	}

	batchSize := max(p.batchSize, 1)

	for start := 0; start < len(pages); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}

		end := min(start+batchSize, len(pages))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				previews[i] = p.renderOne(ctx, doc, pages[i], scale)
				notify(previews[i])
			}()
		}

		wg.Wait()
	}

	return previews, nil
}

// RenderPage renders a single page, through the cache.
func (p *PreviewPipeline) RenderPage(ctx context.Context, doc *model.Document, page model.PageIndex, scale float64) Preview {
	return p.renderOne(ctx, doc, page, scale)
}

func (p *PreviewPipeline) renderOne(ctx context.Context, doc *model.Document, page model.PageIndex, scale float64) Preview {
	key := previewKey{Document: doc.ID(), Page: page, Scale: scale}

	if img, exists := p.cache.Get(key); exists {
		metrics.Thumbnails.WithLabelValues(metrics.StatusCached).Inc()
		return Preview{Page: page, Image: img}
	}

	if !page.In(doc.PageCount()) {
		return Preview{Page: page, Image: blankImage(), Err: errors.Wrapf(port.ErrNotFound, "page %d does not exist", page.Number())}
	}

	img, err := p.renderer.RenderThumbnail(ctx, doc, page, scale)
	if err != nil {
		metrics.Thumbnails.WithLabelValues(metrics.StatusFailed).Inc()
		slog.WarnContext(ctx, "could not render thumbnail", slog.Int("page", page.Number()), slog.Any("error", errors.WithStack(err)))
		return Preview{Page: page, Image: blankImage(), Err: errors.WithStack(err)}
	}

	metrics.Thumbnails.WithLabelValues(metrics.StatusSucceeded).Inc()
	p.cache.Add(key, img)

	return Preview{Page: page, Image: img}
}

func blankImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func NewPreviewPipeline(renderer port.ThumbnailRenderer, funcs ...PreviewPipelineOptionFunc) (*PreviewPipeline, error) {
	opts := NewPreviewPipelineOptions(funcs...)

	cache, err := lru.New[previewKey, image.Image](max(opts.CacheSize, 1))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &PreviewPipeline{
		renderer:  renderer,
		batchSize: opts.BatchSize,
		cache:     cache,
	}, nil
}
