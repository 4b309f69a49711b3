package common

import (
	"github.com/bornholm/pdfsplit/internal/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	FlagInput  = "input"
	FlagFormat = "format"
)

var (
	flagInput = &cli.StringFlag{
		Name:     FlagInput,
		Aliases:  []string{"i"},
		Usage:    "Path to the PDF document (use '-' for stdin)",
		Required: true,
	}
	flagFormat = &cli.StringFlag{
		Name:    FlagFormat,
		Aliases: []string{"f"},
		Usage:   "Output format (available: 'text', 'json', 'yaml')",
		Value:   string(FormatText),
	}
)

func WithInputFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{flagInput, flagFormat}, flags...)
}

func WithFormatFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{flagFormat}, flags...)
}

// LoadConfig parses the PDFSPLIT_* environment.
func LoadConfig() (*config.Config, error) {
	conf, err := config.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse configuration")
	}

	return conf, nil
}
