package split

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bornholm/pdfsplit/internal/command/common"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	flagMode    = "mode"
	flagSelect  = "select"
	flagInvert  = "invert"
	flagRanges  = "ranges"
	flagParts   = "parts"
	flagPrefix  = "prefix"
	flagArchive = "archive"
	flagOutput  = "output"
	flagHandoff = "handoff"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "split",
		Usage: "Split a PDF document into several documents",
		Flags: common.WithInputFlags(Flags()...),
		Action: func(cCtx *cli.Context) error {
			ctx := cCtx.Context

			conf, err := common.LoadConfig()
			if err != nil {
				return errors.WithStack(err)
			}

			params, err := ParamsFromFlags(cCtx, conf.Split.Prefix)
			if err != nil {
				return errors.WithStack(err)
			}

			mode := params.Mode

			if !HandoffFromFlags(cCtx) {
				conf.Handoff.URI = "memory://"
			}

			session, err := setup.NewSessionFromConfig(ctx, conf, OutputFromFlags(cCtx), params)
			if err != nil {
				return errors.Wrap(err, "could not create split session")
			}

			name, data, err := common.ReadInput(cCtx.String(common.FlagInput))
			if err != nil {
				return errors.WithStack(err)
			}

			doc, err := session.Load(ctx, name, data)
			if err != nil {
				return errors.Wrapf(err, "could not load '%s'", name)
			}

			selectExpr, invert := SelectionFromFlags(cCtx)

			rejected, err := ApplySelection(session.UpdateSelection, selectExpr, invert)
			if err != nil {
				return errors.WithStack(err)
			}

			if len(rejected) > 0 {
				slog.WarnContext(ctx, "ignoring invalid selection tokens", slog.Any("tokens", rejected))
			}

			if rejected := session.RejectedRanges(); len(rejected) > 0 && mode == model.SplitModeRanges {
				slog.WarnContext(ctx, "ignoring invalid range tokens", slog.Any("tokens", rejected))
			}

			result, err := session.Split(ctx, func(done, total int) {
				slog.DebugContext(ctx, "output created", slog.Int("done", done), slog.Int("total", total))
			})
			if err != nil {
				return errors.WithStack(err)
			}

			delivery, err := session.DownloadAll(ctx)
			if err != nil {
				return errors.Wrap(err, "could not deliver outputs")
			}

			report := Report{
				Document: DocumentReport{
					Name:      doc.Name(),
					PageCount: doc.PageCount(),
					Size:      doc.Size(),
				},
				Mode: mode,
				Delivery: DeliveryReport{
					Kind:    string(delivery.Kind),
					Name:    delivery.Name,
					Size:    len(delivery.Data),
					Entries: delivery.Entries,
				},
			}

			for _, a := range result.Artifacts {
				report.Outputs = append(report.Outputs, OutputReport{
					Name:  a.Name,
					Pages: model.FormatRanges(a.Pages),
					Size:  a.Size(),
				})
			}

			if result.Payload != nil && HandoffFromFlags(cCtx) {
				report.Handoff = result.Payload.Name
			}

			return common.Render(cCtx, report, report.WriteText)
		},
	}
}

// Flags returns the flags describing a split: strategy, selection, naming and delivery.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagMode,
			Aliases: []string{"m"},
			Usage:   fmt.Sprintf("Split mode (available: %s)", joinModes()),
			Value:   string(model.SplitModeIndividual),
		},
		&cli.StringFlag{
			Name:    flagSelect,
			Aliases: []string{"s"},
			Usage:   "Pages to select: 'all', 'none', 'odd', 'even' or a range expression like '1-3,5'",
			Value:   "all",
		},
		&cli.BoolFlag{
			Name:  flagInvert,
			Usage: "Invert the selection",
		},
		&cli.StringFlag{
			Name:    flagRanges,
			Aliases: []string{"r"},
			Usage:   "Range expression for the 'ranges' mode, like '1-3,4-6,9'",
		},
		&cli.IntFlag{
			Name:    flagParts,
			Aliases: []string{"n"},
			Usage:   "Number of parts for the 'equalParts' mode",
			Value:   2,
		},
		&cli.StringFlag{
			Name:    flagPrefix,
			Aliases: []string{"p"},
			Usage:   "Prefix of the output file names (default: configured prefix)",
		},
		&cli.BoolFlag{
			Name:    flagArchive,
			Aliases: []string{"a"},
			Usage:   "Always bundle outputs in an archive, even a single one",
		},
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Usage:   "Sink URI receiving the outputs, like 'local://./out' or 'minio://...' (default: configured sink)",
		},
		&cli.BoolFlag{
			Name:  flagHandoff,
			Usage: "Hand the first output off to the configured handoff store",
			Value: true,
		},
	}
}

// ParamsFromFlags builds the split parameters from the command flags. An empty
// prefix flag falls back to defaultPrefix.
func ParamsFromFlags(cCtx *cli.Context, defaultPrefix string) (model.SplitParams, error) {
	mode, err := model.ParseSplitMode(cCtx.String(flagMode))
	if err != nil {
		return model.SplitParams{}, errors.WithStack(err)
	}

	prefix := cCtx.String(flagPrefix)
	if prefix == "" {
		prefix = defaultPrefix
	}

	return model.SplitParams{
		Mode:            mode,
		RangeExpression: cCtx.String(flagRanges),
		EqualParts:      cCtx.Int(flagParts),
		Prefix:          prefix,
		ForceArchive:    cCtx.Bool(flagArchive),
	}, nil
}

// SelectionFromFlags returns the selection expression and inversion flag.
func SelectionFromFlags(cCtx *cli.Context) (string, bool) {
	return cCtx.String(flagSelect), cCtx.Bool(flagInvert)
}

// OutputFromFlags returns the sink URI overriding the configured one, if any.
func OutputFromFlags(cCtx *cli.Context) string {
	return cCtx.String(flagOutput)
}

// HandoffFromFlags reports whether the first output must be handed off.
func HandoffFromFlags(cCtx *cli.Context) bool {
	return cCtx.Bool(flagHandoff)
}

type Report struct {
	Document DocumentReport  `json:"document" yaml:"document"`
	Mode     model.SplitMode `json:"mode" yaml:"mode"`
	Outputs  []OutputReport  `json:"outputs" yaml:"outputs"`
	Delivery DeliveryReport  `json:"delivery" yaml:"delivery"`
	Handoff  string          `json:"handoff,omitempty" yaml:"handoff,omitempty"`
}

type DocumentReport struct {
	Name      string `json:"name" yaml:"name"`
	PageCount int    `json:"pageCount" yaml:"pageCount"`
	Size      int    `json:"size" yaml:"size"`
}

type OutputReport struct {
	Name  string `json:"name" yaml:"name"`
	Pages string `json:"pages" yaml:"pages"`
	Size  int    `json:"size" yaml:"size"`
}

type DeliveryReport struct {
	Kind    string   `json:"kind" yaml:"kind"`
	Name    string   `json:"name" yaml:"name"`
	Size    int      `json:"size" yaml:"size"`
	Entries []string `json:"entries" yaml:"entries"`
}

func (r Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s: %d pages, %s\n", r.Document.Name, r.Document.PageCount, humanize.Bytes(uint64(r.Document.Size))); err != nil {
		return errors.WithStack(err)
	}

	for _, o := range r.Outputs {
		if _, err := fmt.Fprintf(w, "  %s\tpages %s\t%s\n", o.Name, o.Pages, humanize.Bytes(uint64(o.Size))); err != nil {
			return errors.WithStack(err)
		}
	}

	if _, err := fmt.Fprintf(w, "delivered %s (%s, %s)\n", r.Delivery.Name, r.Delivery.Kind, humanize.Bytes(uint64(r.Delivery.Size))); err != nil {
		return errors.WithStack(err)
	}

	if r.Handoff != "" {
		if _, err := fmt.Fprintf(w, "handed off %s\n", r.Handoff); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

// ApplySelection applies a selection keyword or range expression, then the
// optional inversion. It returns the rejected range tokens.
func ApplySelection(update func(fn func(selection *model.Selection) error) error, expr string, invert bool) ([]string, error) {
	var rejected []string

	err := update(func(selection *model.Selection) error {
		switch strings.ToLower(strings.TrimSpace(expr)) {
		case "", "all":
			selection.SelectAll()
		case "none":
			selection.SelectNone()
		case "odd":
			selection.SelectOdd()
		case "even":
			selection.SelectEven()
		default:
			selection.SelectNone()
			rejected = selection.AddRanges(expr)
		}

		if invert {
			selection.Invert()
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rejected, nil
}

func joinModes() string {
	modes := make([]string, 0, len(model.SplitModes))
	for _, m := range model.SplitModes {
		modes = append(modes, fmt.Sprintf("'%s'", m))
	}
	return strings.Join(modes, ", ")
}
