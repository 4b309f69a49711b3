package split_test

import (
	"context"
	"testing"

	"github.com/bornholm/pdfsplit/internal/adapter/memory"
	"github.com/bornholm/pdfsplit/internal/adapter/pdfcpu"
	"github.com/bornholm/pdfsplit/internal/adapter/zip"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/bornholm/pdfsplit/internal/pdftest"
	"github.com/bornholm/pdfsplit/internal/task/split"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func newSessionManager(t *testing.T, handoff port.HandoffStore) *service.SessionManager {
	processor := pdfcpu.NewProcessor()

	archiver, err := zip.NewArchiver()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	return service.NewSessionManager(
		processor,
		service.NewSplitEngine(processor),
		service.NewOutputPackager(archiver),
		nil,
		service.WithSessionManagerSessionOptions(service.WithSessionHandoffStore(handoff)),
	)
}

func TestSplitHandler(t *testing.T) {
	handoff := memory.NewHandoffStore()
	sessions := newSessionManager(t, handoff)

	ctx := context.Background()

	session := sessions.Create(ctx)

	if _, err := session.Load(ctx, "report.pdf", pdftest.Document(5)); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := session.UpdateParams(func(p *model.SplitParams) error {
		p.Mode = model.SplitModeEqualParts
		p.EqualParts = 2
		p.Prefix = "report"
		return nil
	}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	handler := split.NewSplitHandler(sessions)

	events := make(chan port.TaskEvent)
	collected := make([]port.TaskEvent, 0)
	drained := make(chan struct{})

	go func() {
		defer close(drained)
		for e := range events {
			collected = append(collected, e)
		}
	}()

	err := handler.Handle(ctx, split.NewSplitTask(session.ID()), events)
	close(events)
	<-drained

	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	// start, one per partition, end
	if e, g := 4, len(collected); e != g {
		t.Errorf("expected %d events, got %d: %s", e, g, spew.Sdump(collected))
	}

	result, err := session.Result()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	names := make([]string, 0, len(result.Artifacts))
	for _, a := range result.Artifacts {
		names = append(names, a.Name)
	}

	if e, g := []string{"report-part-1.pdf", "report-part-2.pdf"}, names; len(g) != 2 || e[0] != g[0] || e[1] != g[1] {
		t.Errorf("expected %v, got %v", e, g)
	}

	payload, err := handoff.Get(ctx)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "report-part-1.pdf", payload.Name; e != g {
		t.Errorf("expected handed off '%s', got '%s'", e, g)
	}
}

func TestSplitHandlerUnknownSession(t *testing.T) {
	sessions := newSessionManager(t, memory.NewHandoffStore())
	handler := split.NewSplitHandler(sessions)

	events := make(chan port.TaskEvent, 10)

	err := handler.Handle(context.Background(), split.NewSplitTask(service.NewSessionID()), events)
	if !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
