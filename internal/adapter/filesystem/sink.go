package filesystem

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Sink writes delivered files at the root of an afero filesystem,
// overwriting existing files with the same name.
type Sink struct {
	fs afero.Fs
}

// Save implements [port.Sink].
func (s *Sink) Save(ctx context.Context, name string, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	if name == "" || filepath.Base(name) != name {
		return errors.Errorf("invalid file name '%s'", name)
	}

	if err := s.fs.MkdirAll("/", os.ModePerm); err != nil {
		return errors.WithStack(err)
	}

	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return errors.Wrapf(err, "could not write file '%s'", name)
	}

	return nil
}

func NewSink(fs afero.Fs) *Sink {
	return &Sink{
		fs: fs,
	}
}

var _ port.Sink = &Sink{}
