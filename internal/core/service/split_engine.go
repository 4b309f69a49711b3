package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

type SplitEngineOptions struct {
	Concurrency int
}

type SplitEngineOptionFunc func(opts *SplitEngineOptions)

func WithSplitEngineConcurrency(concurrency int) SplitEngineOptionFunc {
	return func(opts *SplitEngineOptions) {
		opts.Concurrency = concurrency
	}
}

func NewSplitEngineOptions(funcs ...SplitEngineOptionFunc) *SplitEngineOptions {
	opts := &SplitEngineOptions{
		Concurrency: 4,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// SplitProgressFunc is called each time a partition has been materialized.
type SplitProgressFunc func(done int, total int)

// SplitEngine materializes partition manifests through a DocumentCopier.
type SplitEngine struct {
	copier      port.DocumentCopier
	concurrency int
}

// Plan validates that the strategy selected by params can run and returns its manifest.
func (e *SplitEngine) Plan(doc *model.Document, selection *model.Selection, params model.SplitParams) (*model.Manifest, error) {
	if doc == nil {
		return nil, errors.WithStack(model.NewPreconditionError(model.ReasonNoDocument, "load a document first"))
	}

	manifest, err := model.Plan(model.StrategyInput{
		PageCount: doc.PageCount(),
		Selection: selection,
		Params:    params,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return manifest, nil
}

// Execute copies every partition of the manifest into a standalone document.
//
// Copies are issued concurrently; artifacts are returned in manifest order.
// If any copy fails, no artifact is returned.
func (e *SplitEngine) Execute(ctx context.Context, doc *model.Document, manifest *model.Manifest, progress SplitProgressFunc) ([]model.Artifact, error) {
	ctx = slogx.WithAttrs(ctx,
		slog.String("documentID", string(doc.ID())),
		slog.String("mode", string(manifest.Mode)),
	)

	start := time.Now()
	total := manifest.Len()
	artifacts := make([]model.Artifact, total)

	var done atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(e.concurrency, 1))

	slog.DebugContext(ctx, "executing split", slog.Int("partitions", total))

	for i, partition := range manifest.Partitions {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return errors.WithStack(err)
			}

			data, err := e.copier.CopyPages(groupCtx, doc, partition.Pages)
			if err != nil {
				return errors.Wrapf(err, "could not materialize partition '%s'", partition.Name)
			}

			artifacts[i] = model.Artifact{
				Name:  partition.Name,
				Pages: partition.Pages,
				Data:  data,
			}

			if progress != nil {
				progress(int(done.Add(1)), total)
			}

			return nil
		})
	}

	labels := prometheus.Labels{metrics.LabelMode: string(manifest.Mode)}

	if err := group.Wait(); err != nil {
		labels[metrics.LabelStatus] = metrics.StatusFailed
		metrics.Splits.With(labels).Inc()
		return nil, errors.WithStack(err)
	}

	metrics.SplitDuration.WithLabelValues(string(manifest.Mode)).Observe(time.Since(start).Seconds())
	labels[metrics.LabelStatus] = metrics.StatusSucceeded
	metrics.Splits.With(labels).Inc()

	var size int
	for _, a := range artifacts {
		size += a.Size()
	}

	metrics.Artifacts.Add(float64(total))
	metrics.ArtifactBytes.Add(float64(size))

	slog.DebugContext(ctx, "split executed", slog.Duration("duration", time.Since(start)), slog.Int("bytes", size))

	return artifacts, nil
}

func NewSplitEngine(copier port.DocumentCopier, funcs ...SplitEngineOptionFunc) *SplitEngine {
	opts := NewSplitEngineOptions(funcs...)
	return &SplitEngine{
		copier:      copier,
		concurrency: opts.Concurrency,
	}
}
