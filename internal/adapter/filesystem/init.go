package filesystem

import (
	"net/url"
	"os"
	"strings"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/setup"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

func init() {
	setup.Sink.Register("local", func(u *url.URL) (port.Sink, error) {
		fs, err := fromDSN(u)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return NewSink(fs), nil
	})

	setup.HandoffStore.Register("local", func(u *url.URL) (port.HandoffStore, error) {
		fs, err := fromDSN(u)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return NewHandoffStore(fs), nil
	})
}

// fromDSN maps local://<path> to a filesystem rooted at <path>, created if
// missing. local://./out is relative to the working directory.
func fromDSN(dsn *url.URL) (afero.Fs, error) {
	basePath := dsn.Host + "/" + strings.TrimPrefix(dsn.Path, "/")
	if dsn.Host == "" {
		basePath = dsn.Path
	}

	if basePath == "" {
		return nil, errors.Errorf("missing path in '%s'", dsn.String())
	}

	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, errors.WithStack(err)
	}

	return afero.NewBasePathFs(afero.NewOsFs(), basePath), nil
}
