package service

import (
	"context"
	"testing"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
)

func TestSessionLoad(t *testing.T) {
	session := newTestSession(&fakeProcessor{})
	ctx := context.Background()

	if _, err := session.Document(); !errors.Is(err, port.ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}

	doc, err := session.Load(ctx, "first.pdf", fakeDocument(4))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 4, doc.PageCount(); e != g {
		t.Errorf("expected %d pages, got %d", e, g)
	}

	if err := session.UpdateSelection(func(s *model.Selection) error {
		s.SelectAll()
		return nil
	}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := session.Load(ctx, "garbage.bin", []byte("not a document")); !errors.Is(err, port.ErrNotADocument) {
		t.Errorf("expected ErrNotADocument, got %v", err)
	}

	current, err := session.Document()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if current.ID() != doc.ID() || session.Selection().Len() != 4 {
		t.Errorf("a failed load must leave the session untouched")
	}

	if _, err := session.Load(ctx, "second.pdf", fakeDocument(2)); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	selection := session.Selection()
	if !selection.IsNoneSelected() || selection.PageCount() != 2 {
		t.Errorf("loading a document must clear the selection")
	}
}

func TestSessionSplit(t *testing.T) {
	handoff := &fakeHandoffStore{}
	sink := &fakeSink{}

	session := newTestSession(&fakeProcessor{}, WithSessionHandoffStore(handoff), WithSessionSink(sink))
	ctx := context.Background()

	if err := session.CanSplit(); err == nil {
		t.Errorf("expected a precondition error without document")
	}

	if _, err := session.Load(ctx, "doc.pdf", fakeDocument(5)); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	var precondition *model.PreconditionError
	if err := session.CanSplit(); !errors.As(err, &precondition) || precondition.Reason != model.ReasonEmptySelection {
		t.Errorf("expected empty selection precondition, got %v", err)
	}

	if err := session.UpdateParams(func(p *model.SplitParams) error {
		p.Mode = model.SplitModeRanges
		p.RangeExpression = "1-2,4,9"
		p.Prefix = "out"
		return nil
	}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := []string{"9"}, session.RejectedRanges(); len(g) != 1 || g[0] != e[0] {
		t.Errorf("expected rejected %v, got %v", e, g)
	}

	result, err := session.Split(ctx, nil)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(result.Artifacts); e != g {
		t.Fatalf("expected %d artifacts, got %d", e, g)
	}

	if e, g := "out-1-2.pdf", result.Artifacts[0].Name; e != g {
		t.Errorf("expected first artifact '%s', got '%s'", e, g)
	}

	payload, err := handoff.Get(ctx)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "p1;p2;", string(payload.Data); e != g {
		t.Errorf("expected handed off data '%s', got '%s'", e, g)
	}

	delivery, err := session.DownloadAll(ctx)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := model.DeliveryKindArchive, delivery.Kind; e != g {
		t.Errorf("expected kind '%s', got '%s'", e, g)
	}

	if _, exists := sink.saved["out.zip"]; !exists {
		t.Errorf("expected the archive to be saved, got %v", sink.saved)
	}

	if _, err := session.Download(ctx, "out-4.pdf"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "p4;", string(sink.saved["out-4.pdf"]); e != g {
		t.Errorf("expected '%s', got '%s'", e, g)
	}

	if _, err := session.Download(ctx, "unknown.pdf"); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := session.Handoff(ctx); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, handoff.puts; e != g {
		t.Errorf("expected %d handoffs, got %d", e, g)
	}
}

func TestSessionFailedSplitKeepsPreviousOutputs(t *testing.T) {
	processor := &fakeProcessor{}
	session := newTestSession(processor)
	ctx := context.Background()

	if _, err := session.Load(ctx, "doc.pdf", fakeDocument(3)); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := session.UpdateSelection(func(s *model.Selection) error {
		s.SelectAll()
		return nil
	}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	previous, err := session.Split(ctx, nil)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	processor.fail = true
	processor.failOn = 2

	if _, err := session.Split(ctx, nil); err == nil {
		t.Fatalf("expected an error")
	}

	result, err := session.Result()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if result != previous {
		t.Errorf("a failed split must keep the previous outputs")
	}

	if session.Running() {
		t.Errorf("session must not be running after a failed split")
	}
}

func TestSessionBusyAndStale(t *testing.T) {
	processor := &fakeProcessor{
		blockOn: make(chan struct{}),
		started: make(chan struct{}, 1),
	}

	session := newTestSession(processor)
	ctx := context.Background()

	if _, err := session.Load(ctx, "doc.pdf", fakeDocument(3)); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := session.UpdateParams(func(p *model.SplitParams) error {
		p.Mode = model.SplitModeEqualParts
		p.EqualParts = 1
		return nil
	}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	done := make(chan error)
	go func() {
		_, err := session.Split(ctx, nil)
		done <- err
	}()

	<-processor.started

	if !session.Running() {
		t.Errorf("expected the session to be running")
	}

	if _, err := session.Split(ctx, nil); !errors.Is(err, port.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	if _, err := session.Load(ctx, "other.pdf", fakeDocument(1)); !errors.Is(err, port.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	if err := session.Reset(); !errors.Is(err, port.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	session.Close()
	close(processor.blockOn)

	if err := <-done; !errors.Is(err, port.ErrStale) {
		t.Errorf("expected ErrStale, got %v", err)
	}

	if _, err := session.Result(); !errors.Is(err, port.ErrNoOutputs) {
		t.Errorf("expected ErrNoOutputs, got %v", err)
	}
}

func TestSessionUpdateParamsRejectsUnknownMode(t *testing.T) {
	session := newTestSession(&fakeProcessor{})

	err := session.UpdateParams(func(p *model.SplitParams) error {
		p.Mode = model.SplitMode("shuffle")
		return nil
	})
	if err == nil {
		t.Fatalf("expected an error")
	}

	if e, g := model.SplitModeIndividual, session.Params().Mode; e != g {
		t.Errorf("expected mode '%s' to be kept, got '%s'", e, g)
	}
}
