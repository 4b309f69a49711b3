package setup

import (
	"context"

	"github.com/bornholm/pdfsplit/internal/config"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
)

var DocumentProcessor = NewRegistry[port.DocumentProcessor]()

var getDocumentProcessor = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.DocumentProcessor, error) {
	processor, err := DocumentProcessor.From(conf.Document.URI)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve document processor for uri '%s'", conf.Document.URI)
	}

	return processor, nil
})

// NewDocumentProcessorFromConfig returns the configured document processor.
func NewDocumentProcessorFromConfig(ctx context.Context, conf *config.Config) (port.DocumentProcessor, error) {
	return getDocumentProcessor(ctx, conf)
}
