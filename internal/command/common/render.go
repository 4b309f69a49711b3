package common

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Render writes the report in the requested format. Text rendering is
// delegated to the given function.
func Render(cCtx *cli.Context, report any, text func(w io.Writer) error) error {
	return render(cCtx.App.Writer, Format(cCtx.String(FlagFormat)), report, text)
}

func render(w io.Writer, format Format, report any, text func(w io.Writer) error) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return errors.WithStack(err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return errors.WithStack(err)
		}
		if err := encoder.Close(); err != nil {
			return errors.WithStack(err)
		}
	case FormatText, "":
		if err := text(w); err != nil {
			return errors.WithStack(err)
		}
	default:
		return errors.Errorf("unknown output format '%s'", format)
	}

	return nil
}
