package thumbnails

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/bornholm/pdfsplit/internal/command/common"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

const (
	flagScale  = "scale"
	flagOutput = "output"
	flagPages  = "pages"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "thumbnails",
		Usage: "Render page thumbnails of a PDF document as PNG files",
		Flags: common.WithInputFlags(
			&cli.Float64Flag{
				Name:  flagScale,
				Usage: "Thumbnail scale relative to the page size (default: configured scale)",
			},
			&cli.StringFlag{
				Name:    flagOutput,
				Aliases: []string{"o"},
				Usage:   "Output directory",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  flagPages,
				Usage: "Range expression of the pages to render, like '1-3,5' (default: all pages)",
			},
		),
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

			pipeline, err := setup.NewPreviewPipelineFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create preview pipeline")
			}

			name, data, err := common.ReadInput(cCtx.String(common.FlagInput))
			if err != nil {
				return errors.WithStack(err)
			}

			doc, err := processor.Load(ctx, name, data)
			if err != nil {
				return errors.Wrapf(err, "could not load '%s'", name)
			}

			selection := model.NewSelection(doc.PageCount())
			if expr := cCtx.String(flagPages); expr != "" {
				if rejected := selection.AddRanges(expr); len(rejected) > 0 {
					slog.WarnContext(ctx, "ignoring invalid page tokens", slog.Any("tokens", rejected))
				}
			} else {
				selection.SelectAll()
			}

			scale := cCtx.Float64(flagScale)
			if scale <= 0 {
				scale = conf.Thumbnail.Scale
			}

			outputDir := cCtx.String(flagOutput)
			if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
				return errors.WithStack(err)
			}

			fs := afero.NewBasePathFs(afero.NewOsFs(), outputDir)
			stem := strings.TrimSuffix(doc.Name(), ".pdf")

			var (
				mutex  sync.Mutex
				report Report
			)

			_, err = pipeline.Render(ctx, doc, selection.Pages(), scale, func(preview service.Preview) {
				file, err := writePreview(fs, stem, preview)

				mutex.Lock()
				defer mutex.Unlock()

				entry := PageReport{Page: preview.Page.Number(), File: file}

				if err != nil {
					slog.ErrorContext(ctx, "could not write thumbnail", slog.Int("page", entry.Page), slog.Any("error", errors.WithStack(err)))
					entry.Error = err.Error()
				} else if preview.Blank() {
					slog.WarnContext(ctx, "could not render page, using a blank thumbnail", slog.Int("page", entry.Page), slog.Any("error", preview.Err))
					entry.Error = preview.Err.Error()
				}

				report.Pages = append(report.Pages, entry)
			})
			if err != nil {
				return errors.WithStack(err)
			}

			report.sort()

			return common.Render(cCtx, report, report.WriteText)
		},
	}
}

func writePreview(fs afero.Fs, stem string, preview service.Preview) (string, error) {
	var buff bytes.Buffer

	if err := png.Encode(&buff, preview.Image); err != nil {
		return "", errors.WithStack(err)
	}

	file := fmt.Sprintf("%s-page-%d.png", stem, preview.Page.Number())

	if err := afero.WriteFile(fs, file, buff.Bytes(), 0o644); err != nil {
		return "", errors.WithStack(err)
	}

	return file, nil
}

type Report struct {
	Pages []PageReport `json:"pages" yaml:"pages"`
}

type PageReport struct {
	Page  int    `json:"page" yaml:"page"`
	File  string `json:"file" yaml:"file"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r *Report) sort() {
	slices.SortFunc(r.Pages, func(a, b PageReport) int {
		return a.Page - b.Page
	})
}

func (r Report) WriteText(w io.Writer) error {
	for _, p := range r.Pages {
		line := fmt.Sprintf("page %d\t%s", p.Page, p.File)
		if p.Error != "" {
			line += fmt.Sprintf("\t(blank: %s)", p.Error)
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}
