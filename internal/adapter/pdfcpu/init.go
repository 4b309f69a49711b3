package pdfcpu

import (
	"net/url"
	"strconv"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/pkg/errors"
)

func init() {
	setup.DocumentProcessor.Register("pdfcpu", func(u *url.URL) (port.DocumentProcessor, error) {
		query := u.Query()

		options := []Option{
			WithPasswords(query.Get("userPassword"), query.Get("ownerPassword")),
		}

		if rawValue := query.Get("validate"); rawValue != "" {
			validate, err := strconv.ParseBool(rawValue)
			if err != nil {
				return nil, errors.Wrapf(err, "could not parse 'validate' parameter")
			}
			options = append(options, WithValidation(validate))
		}

		return NewProcessor(options...), nil
	})
}
