package service

import (
	"bytes"
	"context"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/metrics"
	"github.com/pkg/errors"
)

const HandoffOrigin = "pdf-split"

// OutputPackager turns materialized artifacts into a user facing delivery.
type OutputPackager struct {
	archiver port.Archiver
}

// Package delivers the only artifact as-is unless forceArchive is set;
// several artifacts are always bundled in an archive named after the prefix.
func (p *OutputPackager) Package(ctx context.Context, artifacts []model.Artifact, prefix string, forceArchive bool) (*model.Delivery, error) {
	if len(artifacts) == 0 {
		return nil, errors.WithStack(port.ErrNoOutputs)
	}

	entries := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		entries = append(entries, a.Name)
	}

	if len(artifacts) == 1 && !forceArchive {
		metrics.Deliveries.WithLabelValues(string(model.DeliveryKindSingle)).Inc()

		return &model.Delivery{
			Kind:        model.DeliveryKindSingle,
			Name:        artifacts[0].Name,
			ContentType: model.ContentTypePDF,
			Data:        artifacts[0].Data,
			Entries:     entries,
		}, nil
	}

	data, err := p.archiver.Archive(ctx, artifacts)
	if err != nil {
		return nil, errors.Wrap(err, "could not create archive")
	}

	metrics.Deliveries.WithLabelValues(string(model.DeliveryKindArchive)).Inc()

	return &model.Delivery{
		Kind:        model.DeliveryKindArchive,
		Name:        model.SplitParams{Prefix: prefix}.SanitizedPrefix() + p.archiver.Extension(),
		ContentType: p.archiver.ContentType(),
		Data:        data,
		Entries:     entries,
	}, nil
}

// ChainPayload packages the first artifact, in manifest order, for another tool.
func (p *OutputPackager) ChainPayload(artifacts []model.Artifact) (*model.ChainPayload, error) {
	if len(artifacts) == 0 {
		return nil, errors.WithStack(port.ErrNoOutputs)
	}

	first := artifacts[0]

	return &model.ChainPayload{
		Name:        first.Name,
		ContentType: model.ContentTypePDF,
		Origin:      HandoffOrigin,
		Data:        bytes.Clone(first.Data),
	}, nil
}

func NewOutputPackager(archiver port.Archiver) *OutputPackager {
	return &OutputPackager{
		archiver: archiver,
	}
}
