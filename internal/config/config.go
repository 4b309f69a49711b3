package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config struct {
	Logger     Logger     `envPrefix:"LOGGER_"`
	HTTP       HTTP       `envPrefix:"HTTP_"`
	Split      Split      `envPrefix:"SPLIT_"`
	Thumbnail  Thumbnail  `envPrefix:"THUMBNAIL_"`
	Document   Document   `envPrefix:"DOCUMENT_"`
	Archive    Archive    `envPrefix:"ARCHIVE_"`
	Handoff    Handoff    `envPrefix:"HANDOFF_"`
	Sink       Sink       `envPrefix:"SINK_"`
	TaskRunner TaskRunner `envPrefix:"TASK_RUNNER_"`
}

func Parse() (*Config, error) {
	conf, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix: "PDFSPLIT_",
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &conf, nil
}
