package watch

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bornholm/pdfsplit/internal/command/common"
	"github.com/bornholm/pdfsplit/internal/command/split"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

const (
	flagDirectory = "directory"
	flagFilter    = "filter"
	flagInterval  = "interval"
	flagRecursive = "recursive"
	flagExisting  = "existing"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch a directory and split every PDF document appearing in it",
		Flags: append(
			[]cli.Flag{
				&cli.StringFlag{
					Name:    flagDirectory,
					Aliases: []string{"d"},
					Usage:   "Watched directory",
					Value:   ".",
				},
				&cli.StringFlag{
					Name:  flagFilter,
					Usage: "Glob matched against file names",
					Value: "*.{pdf,PDF}",
				},
				&cli.DurationFlag{
					Name:  flagInterval,
					Usage: "Polling interval",
					Value: NewOptions().Interval,
				},
				&cli.BoolFlag{
					Name:  flagRecursive,
					Usage: "Watch sub-directories too",
				},
				&cli.BoolFlag{
					Name:  flagExisting,
					Usage: "Split documents already present when the watcher starts",
					Value: true,
				},
			},
			split.Flags()...,
		),
		Action: func(cCtx *cli.Context) error {
			ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			conf, err := common.LoadConfig()
			if err != nil {
				return errors.WithStack(err)
			}

			if !split.HandoffFromFlags(cCtx) {
				conf.Handoff.URI = "memory://"
			}

			sinkURI := split.OutputFromFlags(cCtx)

			newSession := func(ctx context.Context, prefix string) (*service.Session, error) {
				params, err := split.ParamsFromFlags(cCtx, prefix)
				if err != nil {
					return nil, errors.WithStack(err)
				}

				session, err := setup.NewSessionFromConfig(ctx, conf, sinkURI, params)
				if err != nil {
					return nil, errors.WithStack(err)
				}

				return session, nil
			}

			filter, err := CompileGlob(cCtx.String(flagFilter))
			if err != nil {
				return errors.WithStack(err)
			}

			fs := afero.NewBasePathFs(afero.NewOsFs(), cCtx.String(flagDirectory))

			selectExpr, invert := split.SelectionFromFlags(cCtx)
			splitter := NewSplitter(fs, newSession, WithSelection(selectExpr, invert))

			err = Watch(
				ctx, fs, splitter,
				WithFilter(filter),
				WithInterval(cCtx.Duration(flagInterval)),
				WithRecursive(cCtx.Bool(flagRecursive)),
				WithExisting(cCtx.Bool(flagExisting)),
			)
			if err != nil {
				return errors.WithStack(err)
			}

			return nil
		},
	}
}
