package zip

import (
	"net/url"
	"strconv"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/pkg/errors"
)

func init() {
	setup.Archiver.Register("zip", func(u *url.URL) (port.Archiver, error) {
		funcs := make([]ArchiverOptionFunc, 0)

		if rawValue := u.Query().Get("level"); rawValue != "" {
			v, err := strconv.ParseInt(rawValue, 10, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "could not parse 'level' parameter")
			}
			funcs = append(funcs, WithLevel(int(v)))
		}

		archiver, err := NewArchiver(funcs...)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return archiver, nil
	})
}
