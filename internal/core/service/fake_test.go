package service

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
)

// fakeProcessor loads documents whose page count is the number of lines of
// their content and copies pages as "p<number>;" sequences.
type fakeProcessor struct {
	failOn  model.PageIndex
	fail    bool
	blockOn chan struct{}
	started chan struct{}
}

func (p *fakeProcessor) Load(ctx context.Context, name string, data []byte) (*model.Document, error) {
	content := string(data)
	if !strings.HasPrefix(content, "%PDF") {
		return nil, errors.WithStack(port.ErrNotADocument)
	}

	return model.NewDocument(name, strings.Count(content, "\n"), data), nil
}

func (p *fakeProcessor) CopyPages(ctx context.Context, doc *model.Document, pages []model.PageIndex) ([]byte, error) {
	if p.started != nil {
		select {
		case p.started <- struct{}{}:
		default:
		}
	}

	if p.blockOn != nil {
		select {
		case <-p.blockOn:
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		}
	}

	var sb strings.Builder
	for _, idx := range pages {
		if p.fail && idx == p.failOn {
			return nil, errors.Errorf("could not copy page %d", idx.Number())
		}
		fmt.Fprintf(&sb, "p%d;", idx.Number())
	}

	return []byte(sb.String()), nil
}

var _ port.DocumentProcessor = &fakeProcessor{}

func fakeDocument(pages int) []byte {
	return []byte("%PDF" + strings.Repeat("\n", pages))
}

type fakeArchiver struct{}

func (fakeArchiver) Archive(ctx context.Context, artifacts []model.Artifact) ([]byte, error) {
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		names = append(names, a.Name)
	}
	return []byte(strings.Join(names, "|")), nil
}

func (fakeArchiver) Extension() string   { return ".zip" }
func (fakeArchiver) ContentType() string { return "application/zip" }

var _ port.Archiver = fakeArchiver{}

type fakeHandoffStore struct {
	mutex   sync.Mutex
	payload *model.ChainPayload
	puts    int
}

func (s *fakeHandoffStore) Put(ctx context.Context, payload *model.ChainPayload) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.payload = payload
	s.puts++
	return nil
}

func (s *fakeHandoffStore) Get(ctx context.Context) (*model.ChainPayload, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.payload == nil {
		return nil, errors.WithStack(port.ErrNotFound)
	}
	return s.payload, nil
}

var _ port.HandoffStore = &fakeHandoffStore{}

type fakeSink struct {
	mutex sync.Mutex
	saved map[string][]byte
}

func (s *fakeSink) Save(ctx context.Context, name string, contentType string, data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[name] = data
	return nil
}

var _ port.Sink = &fakeSink{}

type fakeRenderer struct {
	mutex   sync.Mutex
	calls   int
	failOn  map[model.PageIndex]bool
	current int
	peak    int
	release chan struct{}
}

func (r *fakeRenderer) RenderThumbnail(ctx context.Context, doc *model.Document, page model.PageIndex, scale float64) (image.Image, error) {
	r.mutex.Lock()
	r.calls++
	r.current++
	r.peak = max(r.peak, r.current)
	r.mutex.Unlock()

	defer func() {
		r.mutex.Lock()
		r.current--
		r.mutex.Unlock()
	}()

	if r.release != nil {
		<-r.release
	}

	if r.failOn[page] {
		return nil, errors.Errorf("could not render page %d", page.Number())
	}

	return image.NewRGBA(image.Rect(0, 0, 10+int(page), 10)), nil
}

var _ port.ThumbnailRenderer = &fakeRenderer{}

func newTestSession(processor *fakeProcessor, funcs ...SessionOptionFunc) *Session {
	engine := NewSplitEngine(processor, WithSplitEngineConcurrency(2))
	packager := NewOutputPackager(fakeArchiver{})
	return NewSession(processor, engine, packager, funcs...)
}
