package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bornholm/pdfsplit/internal/command/split"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// SessionFactory creates a split session whose outputs are named after prefix.
type SessionFactory func(ctx context.Context, prefix string) (*service.Session, error)

// Splitter splits each watched document into the session sink. A document is
// split again only when its modification time changes.
type Splitter struct {
	fs         afero.Fs
	newSession SessionFactory
	selectExpr string
	invert     bool

	mutex     sync.Mutex
	processed map[string]time.Time
}

// Handle implements [Handler].
func (s *Splitter) Handle(ctx context.Context, event Event) error {
	if _, err := s.Split(ctx, event.Path, event.ModTime()); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Split loads the document at path, applies the selection, splits it and
// delivers the outputs. It returns a nil delivery when the document was
// already split at this modification time.
func (s *Splitter) Split(ctx context.Context, path string, modTime time.Time) (*model.Delivery, error) {
	if !s.claim(path, modTime) {
		slog.DebugContext(ctx, "document already split", slog.String("path", path))
		return nil, nil
	}

	delivery, err := s.split(ctx, path)
	if err != nil {
		// A document still being written fails to load; retry on the next write.
		s.release(path, modTime)
		return nil, errors.WithStack(err)
	}

	return delivery, nil
}

func (s *Splitter) split(ctx context.Context, path string) (*model.Delivery, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read '%s'", path)
	}

	name := filepath.Base(path)
	prefix := strings.TrimSuffix(name, filepath.Ext(name))

	session, err := s.newSession(ctx, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "could not create split session")
	}

	defer session.Close()

	if _, err := session.Load(ctx, name, data); err != nil {
		return nil, errors.Wrapf(err, "could not load '%s'", path)
	}

	rejected, err := split.ApplySelection(session.UpdateSelection, s.selectExpr, s.invert)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if len(rejected) > 0 {
		slog.WarnContext(ctx, "ignoring invalid selection tokens", slog.String("path", path), slog.Any("tokens", rejected))
	}

	result, err := session.Split(ctx, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not split '%s'", path)
	}

	delivery, err := session.DownloadAll(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "could not deliver outputs of '%s'", path)
	}

	slog.InfoContext(
		ctx, "document split",
		slog.String("path", path),
		slog.Int("outputs", len(result.Artifacts)),
		slog.String("delivery", delivery.Name),
	)

	return delivery, nil
}

func (s *Splitter) claim(path string, modTime time.Time) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if last, exists := s.processed[path]; exists && last.Equal(modTime) {
		return false
	}

	s.processed[path] = modTime

	return true
}

func (s *Splitter) release(path string, modTime time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if last, exists := s.processed[path]; exists && last.Equal(modTime) {
		delete(s.processed, path)
	}
}

type SplitterOptions struct {
	Select string
	Invert bool
}

type SplitterOptionFunc func(opts *SplitterOptions)

func WithSelection(expr string, invert bool) SplitterOptionFunc {
	return func(opts *SplitterOptions) {
		opts.Select = expr
		opts.Invert = invert
	}
}

func NewSplitterOptions(funcs ...SplitterOptionFunc) *SplitterOptions {
	opts := &SplitterOptions{
		Select: "all",
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func NewSplitter(fs afero.Fs, newSession SessionFactory, funcs ...SplitterOptionFunc) *Splitter {
	opts := NewSplitterOptions(funcs...)
	return &Splitter{
		fs:         fs,
		newSession: newSession,
		selectExpr: opts.Select,
		invert:     opts.Invert,
		processed:  map[string]time.Time{},
	}
}

var _ Handler = &Splitter{}
