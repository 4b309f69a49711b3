package info

import (
	"fmt"
	"io"

	"github.com/bornholm/pdfsplit/internal/command/common"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Display information about a PDF document",
		Flags: common.WithInputFlags(),
		Action: func(cCtx *cli.Context) error {
			ctx := cCtx.Context

			conf, err := common.LoadConfig()
			if err != nil {
				return errors.WithStack(err)
			}

			processor, err := setup.NewDocumentProcessorFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create document processor")
			}

			name, data, err := common.ReadInput(cCtx.String(common.FlagInput))
			if err != nil {
				return errors.WithStack(err)
			}

			doc, err := processor.Load(ctx, name, data)
			if err != nil {
				return errors.Wrapf(err, "could not load '%s'", name)
			}

			report := Report{
				ID:        string(doc.ID()),
				Name:      doc.Name(),
				PageCount: doc.PageCount(),
				Size:      doc.Size(),
			}

			return common.Render(cCtx, report, report.WriteText)
		},
	}
}

type Report struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	PageCount int    `json:"pageCount" yaml:"pageCount"`
	Size      int    `json:"size" yaml:"size"`
}

func (r Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "name:\t%s\npages:\t%d\nsize:\t%s\n", r.Name, r.PageCount, humanize.Bytes(uint64(r.Size)))
	return errors.WithStack(err)
}
