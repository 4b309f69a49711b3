package service

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/pkg/errors"
)

func TestSplitEngineExecute(t *testing.T) {
	processor := &fakeProcessor{}
	engine := NewSplitEngine(processor, WithSplitEngineConcurrency(3))

	ctx := context.Background()

	doc, err := processor.Load(ctx, "doc.pdf", fakeDocument(10))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	manifest, err := engine.Plan(doc, model.NewSelection(doc.PageCount()), model.SplitParams{
		Mode:       model.SplitModeEqualParts,
		EqualParts: 3,
		Prefix:     "doc",
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	var (
		mutex    sync.Mutex
		progress []int
	)

	artifacts, err := engine.Execute(ctx, doc, manifest, func(done, total int) {
		mutex.Lock()
		defer mutex.Unlock()
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
		progress = append(progress, done)
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	expected := []string{"p1;p2;p3;p4;", "p5;p6;p7;p8;", "p9;p10;"}
	contents := make([]string, 0, len(artifacts))
	for i, a := range artifacts {
		contents = append(contents, string(a.Data))
		if e, g := manifest.Partitions[i].Name, a.Name; e != g {
			t.Errorf("artifact #%d: expected name '%s', got '%s'", i, e, g)
		}
	}

	if !reflect.DeepEqual(expected, contents) {
		t.Errorf("expected %v, got %v", expected, contents)
	}

	if e, g := 3, len(progress); e != g {
		t.Errorf("expected %d progress events, got %d", e, g)
	}
}

func TestSplitEngineAllOrNothing(t *testing.T) {
	processor := &fakeProcessor{fail: true, failOn: 4}
	engine := NewSplitEngine(processor)

	ctx := context.Background()

	doc, err := processor.Load(ctx, "doc.pdf", fakeDocument(6))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	selection := model.NewSelection(doc.PageCount())
	selection.SelectAll()

	manifest, err := engine.Plan(doc, selection, model.SplitParams{Mode: model.SplitModeIndividual})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	artifacts, err := engine.Execute(ctx, doc, manifest, nil)
	if err == nil {
		t.Fatalf("expected an error")
	}

	if artifacts != nil {
		t.Errorf("expected no artifact, got %d", len(artifacts))
	}
}

func TestSplitEnginePlanWithoutDocument(t *testing.T) {
	engine := NewSplitEngine(&fakeProcessor{})

	_, err := engine.Plan(nil, model.NewSelection(0), model.SplitParams{Mode: model.SplitModeIndividual})

	var precondition *model.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("expected a precondition error, got %v", err)
	}

	if e, g := model.ReasonNoDocument, precondition.Reason; e != g {
		t.Errorf("expected reason '%s', got '%s'", e, g)
	}
}
