package handoff

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/bornholm/pdfsplit/internal/command/common"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/bornholm/pdfsplit/pkg/client"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	flagOutput = "output"
	flagServer = "server"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "handoff",
		Usage: "Retrieve the latest document handed off to the next tool",
		Flags: common.WithFormatFlags(
			&cli.StringFlag{
				Name:    flagOutput,
				Aliases: []string{"o"},
				Usage:   "Write the handed off document to this file ('-' for stdout)",
			},
			&cli.StringFlag{
				Name:    flagServer,
				EnvVars: []string{"PDFSPLIT_SERVER_URL"},
				Usage:   "Retrieve the document from a running pdfsplit server instead of the configured handoff store",
			},
		),
		Action: func(cCtx *cli.Context) error {
			payload, err := getPayload(cCtx)
			if err != nil {
				if errors.Is(err, port.ErrNotFound) {
					return errors.New("nothing has been handed off yet")
				}

				return errors.WithStack(err)
			}

			switch output := cCtx.String(flagOutput); output {
			case "":
			case "-":
				if _, err := cCtx.App.Writer.Write(payload.Data); err != nil {
					return errors.WithStack(err)
				}

				return nil
			default:
				if err := os.WriteFile(output, payload.Data, 0o644); err != nil {
					return errors.Wrapf(err, "could not write '%s'", output)
				}
			}

			report := Report{
				Name:        payload.Name,
				ContentType: payload.ContentType,
				Origin:      payload.Origin,
				Size:        len(payload.Data),
			}

			return common.Render(cCtx, report, report.WriteText)
		},
	}
}

func getPayload(cCtx *cli.Context) (*model.ChainPayload, error) {
	ctx := cCtx.Context

	if rawURL := cCtx.String(flagServer); rawURL != "" {
		baseURL, err := url.Parse(rawURL)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse server url '%s'", rawURL)
		}

		payload, err := client.New(client.WithBaseURL(baseURL)).Handoff(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return payload, nil
	}

	conf, err := common.LoadConfig()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	store, err := setup.NewHandoffStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create handoff store")
	}

	payload, err := store.Get(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return payload, nil
}

type Report struct {
	Name        string `json:"name" yaml:"name"`
	ContentType string `json:"contentType" yaml:"contentType"`
	Origin      string `json:"origin" yaml:"origin"`
	Size        int    `json:"size" yaml:"size"`
}

func (r Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s (%s, %s) from %s\n", r.Name, r.ContentType, humanize.Bytes(uint64(r.Size)), r.Origin)
	return errors.WithStack(err)
}
