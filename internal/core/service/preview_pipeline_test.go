package service

import (
	"context"
	"sync"
	"testing"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/pkg/errors"
)

func TestPreviewPipelineRender(t *testing.T) {
	renderer := &fakeRenderer{failOn: map[model.PageIndex]bool{2: true}}

	pipeline, err := NewPreviewPipeline(renderer, WithPreviewBatchSize(2))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	ctx := context.Background()
	doc := model.NewDocument("doc.pdf", 5, fakeDocument(5))

	pages := []model.PageIndex{0, 1, 2, 3, 4}

	var (
		mutex    sync.Mutex
		notified int
	)

	previews, err := pipeline.Render(ctx, doc, pages, 0.25, func(p Preview) {
		mutex.Lock()
		defer mutex.Unlock()
		notified++
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := len(pages), notified; e != g {
		t.Errorf("expected %d notifications, got %d", e, g)
	}

	for i, p := range previews {
		if e, g := pages[i], p.Page; e != g {
			t.Errorf("preview #%d: expected page %d, got %d", i, e, g)
		}

		if e, g := i == 2, p.Blank(); e != g {
			t.Errorf("preview #%d: expected blank %v, got %v", i, e, g)
		}

		if p.Image == nil {
			t.Errorf("preview #%d: expected an image", i)
		}
	}

	if renderer.peak > 2 {
		t.Errorf("expected at most 2 concurrent renders, got %d", renderer.peak)
	}

	calls := renderer.calls

	if _, err := pipeline.Render(ctx, doc, pages, 0.25, nil); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	// Only the failed page is rendered again
	if e, g := calls+1, renderer.calls; e != g {
		t.Errorf("expected %d render calls, got %d", e, g)
	}
}

func TestPreviewPipelineOutOfBounds(t *testing.T) {
	renderer := &fakeRenderer{}

	pipeline, err := NewPreviewPipeline(renderer)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	doc := model.NewDocument("doc.pdf", 1, fakeDocument(1))

	preview := pipeline.RenderPage(context.Background(), doc, 3, 1)
	if !preview.Blank() {
		t.Errorf("expected a blank preview")
	}

	if renderer.calls != 0 {
		t.Errorf("out of bounds pages must not be rendered")
	}
}

func TestPreviewPipelineCanceled(t *testing.T) {
	pipeline, err := NewPreviewPipeline(&fakeRenderer{})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := model.NewDocument("doc.pdf", 2, fakeDocument(2))

	if _, err := pipeline.Render(ctx, doc, []model.PageIndex{0, 1}, 1, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
