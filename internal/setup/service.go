package setup

import (
	"context"

	"github.com/bornholm/pdfsplit/internal/config"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/pkg/errors"
)

var getSplitEngine = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.SplitEngine, error) {
	processor, err := getDocumentProcessor(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return service.NewSplitEngine(processor, service.WithSplitEngineConcurrency(conf.Split.Concurrency)), nil
})

var getOutputPackager = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.OutputPackager, error) {
	archiver, err := getArchiver(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return service.NewOutputPackager(archiver), nil
})

var getPreviewPipeline = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.PreviewPipeline, error) {
	renderer, err := getThumbnailRenderer(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pipeline, err := service.NewPreviewPipeline(
		renderer,
		service.WithPreviewBatchSize(conf.Thumbnail.Concurrency),
		service.WithPreviewCacheSize(conf.Thumbnail.CacheSize),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return pipeline, nil
})

// NewPreviewPipelineFromConfig returns the configured thumbnail pipeline.
func NewPreviewPipelineFromConfig(ctx context.Context, conf *config.Config) (*service.PreviewPipeline, error) {
	return getPreviewPipeline(ctx, conf)
}

func sessionOptionsFromConfig(ctx context.Context, conf *config.Config) ([]service.SessionOptionFunc, error) {
	handoff, err := getHandoffStore(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sink, err := getSink(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	params := service.NewSessionOptions().Params
	params.Prefix = conf.Split.Prefix

	return []service.SessionOptionFunc{
		service.WithSessionParams(params),
		service.WithSessionHandoffStore(handoff),
		service.WithSessionSink(sink),
	}, nil
}

var getSessionManager = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.SessionManager, error) {
	processor, err := getDocumentProcessor(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	engine, err := getSplitEngine(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	packager, err := getOutputPackager(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	preview, err := getPreviewPipeline(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sessionOptions, err := sessionOptionsFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return service.NewSessionManager(
		processor, engine, packager, preview,
		service.WithSessionManagerMaxSessions(conf.Split.MaxSessions),
		service.WithSessionManagerTTL(conf.Split.SessionTTL),
		service.WithSessionManagerSessionOptions(sessionOptions...),
	), nil
})

// NewSessionFromConfig creates a standalone session, as used by the command line.
// The given sink URI overrides the configured one when not empty.
func NewSessionFromConfig(ctx context.Context, conf *config.Config, sinkURI string, params model.SplitParams) (*service.Session, error) {
	processor, err := getDocumentProcessor(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	engine, err := getSplitEngine(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	packager, err := getOutputPackager(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	handoff, err := getHandoffStore(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if sinkURI == "" {
		sinkURI = conf.Sink.URI
	}

	sink, err := Sink.From(sinkURI)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve sink for uri '%s'", sinkURI)
	}

	session := service.NewSession(
		processor, engine, packager,
		service.WithSessionParams(params),
		service.WithSessionHandoffStore(handoff),
		service.WithSessionSink(sink),
	)

	return session, nil
}
