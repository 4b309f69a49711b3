package poppler

import (
	"net/url"
	"strconv"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/pkg/errors"
)

func init() {
	setup.ThumbnailRenderer.Register("poppler", func(u *url.URL) (port.ThumbnailRenderer, error) {
		command := "pdftoppm"
		if rawValue := u.Query().Get("command"); rawValue != "" {
			command = rawValue
		}

		maxSize := 256
		if rawValue := u.Query().Get("maxSize"); rawValue != "" {
			v, err := strconv.ParseInt(rawValue, 10, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "could not parse 'maxSize' parameter")
			}
			maxSize = int(v)
		}

		return NewThumbnailRenderer(command, maxSize), nil
	})
}
