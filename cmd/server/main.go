package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/pdfsplit/internal/config"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/bornholm/pdfsplit/internal/util"
	"github.com/pkg/errors"

	// Adapters
	_ "github.com/bornholm/pdfsplit/internal/adapter/filesystem"
	_ "github.com/bornholm/pdfsplit/internal/adapter/memory"
	_ "github.com/bornholm/pdfsplit/internal/adapter/minio"
	_ "github.com/bornholm/pdfsplit/internal/adapter/pdfcpu"
	_ "github.com/bornholm/pdfsplit/internal/adapter/poppler"
	_ "github.com/bornholm/pdfsplit/internal/adapter/zip"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf, err := config.Parse()
	if err != nil {
		slog.ErrorContext(ctx, "could not parse config", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}

	logger := slog.New(slogx.ContextHandler{
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     slog.Level(conf.Logger.Level),
			AddSource: true,
		}),
	})

	slog.SetDefault(logger)

	slog.DebugContext(ctx, "using configuration", slog.Any("config", conf))

	defer func() {
		if err := util.CleanupTempDir(); err != nil {
			slog.ErrorContext(ctx, "could not cleanup temporary directory", slog.Any("error", errors.WithStack(err)))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	go func() {
		slog.InfoContext(ctx, "use ctrl+c to interrupt")
		<-sig
		cancel()
	}()

	server, err := setup.NewHTTPServerFromConfig(ctx, conf)
	if err != nil {
		slog.ErrorContext(ctx, "could not setup http server", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}

	slog.InfoContext(ctx, "starting server", slog.Any("address", conf.HTTP.Address))

	if err := server.Run(ctx); err != nil {
		slog.Error("could not run server", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}
}
