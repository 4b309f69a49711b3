package setup

import (
	"context"

	"github.com/bornholm/pdfsplit/internal/config"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
)

var (
	Archiver     = NewRegistry[port.Archiver]()
	HandoffStore = NewRegistry[port.HandoffStore]()
	Sink         = NewRegistry[port.Sink]()
)

var getArchiver = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.Archiver, error) {
	archiver, err := Archiver.From(conf.Archive.URI)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve archiver for uri '%s'", conf.Archive.URI)
	}

	return archiver, nil
})

var getHandoffStore = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.HandoffStore, error) {
	store, err := HandoffStore.From(conf.Handoff.URI)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve handoff store for uri '%s'", conf.Handoff.URI)
	}

	return store, nil
})

// NewHandoffStoreFromConfig returns the configured handoff store.
func NewHandoffStoreFromConfig(ctx context.Context, conf *config.Config) (port.HandoffStore, error) {
	return getHandoffStore(ctx, conf)
}

var getSink = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.Sink, error) {
	sink, err := Sink.From(conf.Sink.URI)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve sink for uri '%s'", conf.Sink.URI)
	}

	return sink, nil
})
