package zip

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

const contentType = "application/zip"

// Archiver bundles artifacts in a zip container, one entry per artifact at
// the root of the archive.
type Archiver struct {
	level    int
	modified func() time.Time
}

// Archive implements [port.Archiver].
func (a *Archiver) Archive(ctx context.Context, artifacts []model.Artifact) ([]byte, error) {
	var buff bytes.Buffer

	writer := zip.NewWriter(&buff)
	writer.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, a.level)
	})

	modified := a.modified()

	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}

		header := &zip.FileHeader{
			Name:     artifact.Name,
			Method:   zip.Deflate,
			Modified: modified,
		}

		if a.level == flate.NoCompression {
			header.Method = zip.Store
		}

		entry, err := writer.CreateHeader(header)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create archive entry '%s'", artifact.Name)
		}

		if _, err := entry.Write(artifact.Data); err != nil {
			return nil, errors.Wrapf(err, "could not write archive entry '%s'", artifact.Name)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	return buff.Bytes(), nil
}

// ContentType implements [port.Archiver].
func (a *Archiver) ContentType() string {
	return contentType
}

// Extension implements [port.Archiver].
func (a *Archiver) Extension() string {
	return ".zip"
}

type ArchiverOptions struct {
	Level    int
	Modified func() time.Time
}

type ArchiverOptionFunc func(opts *ArchiverOptions)

func WithLevel(level int) ArchiverOptionFunc {
	return func(opts *ArchiverOptions) {
		opts.Level = level
	}
}

func WithModified(fn func() time.Time) ArchiverOptionFunc {
	return func(opts *ArchiverOptions) {
		opts.Modified = fn
	}
}

func NewArchiverOptions(funcs ...ArchiverOptionFunc) *ArchiverOptions {
	opts := &ArchiverOptions{
		Level:    flate.DefaultCompression,
		Modified: time.Now,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func NewArchiver(funcs ...ArchiverOptionFunc) (*Archiver, error) {
	opts := NewArchiverOptions(funcs...)

	if opts.Level < flate.HuffmanOnly || opts.Level > flate.BestCompression {
		return nil, errors.Errorf("invalid compression level %d", opts.Level)
	}

	return &Archiver{
		level:    opts.Level,
		modified: opts.Modified,
	}, nil
}

var _ port.Archiver = &Archiver{}
