package watch

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/progrium/watcher"
	"github.com/redmatter/go-globre/v2"
	"github.com/spf13/afero"
)

type Event = watcher.Event

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

type Options struct {
	Filter    *regexp.Regexp
	Interval  time.Duration
	Recursive bool
	Existing  bool
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Interval:  5 * time.Second,
		Filter:    nil,
		Recursive: false,
		Existing:  true,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func WithInterval(interval time.Duration) OptionFunc {
	return func(opts *Options) {
		opts.Interval = interval
	}
}

func WithFilter(filter *regexp.Regexp) OptionFunc {
	return func(opts *Options) {
		opts.Filter = filter
	}
}

func WithRecursive(recursive bool) OptionFunc {
	return func(opts *Options) {
		opts.Recursive = recursive
	}
}

// WithExisting controls whether files present before the watcher started are
// handled as if they had just been created.
func WithExisting(existing bool) OptionFunc {
	return func(opts *Options) {
		opts.Existing = existing
	}
}

// CompileGlob converts a file name glob like '*.pdf' or '*.{pdf,PDF}' into a
// regular expression.
func CompileGlob(glob string) (*regexp.Regexp, error) {
	pattern := globre.RegexFromGlob(
		glob,
		globre.ExtendedSyntaxEnabled(true),
		globre.GlobStarEnabled(true),
		globre.WithDelimiter('/'),
	)

	pattern = "^(?:" + strings.TrimSuffix(strings.TrimPrefix(pattern, "^"), "$") + ")$"

	filter, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "could not compile glob '%s'", glob)
	}

	return filter, nil
}

// Watch polls the root of fs and hands created or written files to handler
// until ctx is done.
func Watch(ctx context.Context, fs afero.Fs, handler Handler, funcs ...OptionFunc) error {
	opts := NewOptions(funcs...)

	w := watcher.New()
	w.SetFileSystem(fs)
	w.FilterOps(watcher.Create, watcher.Write)

	if opts.Filter != nil {
		w.AddFilterHook(watcher.RegexFilterHook(opts.Filter, false))
	}

	if opts.Recursive {
		if err := w.AddRecursive("."); err != nil {
			return errors.Wrap(err, "could not add watched directory")
		}
	} else {
		if err := w.Add("."); err != nil {
			return errors.Wrap(err, "could not add watched directory")
		}
	}

	handle := func(event Event) {
		if event.IsDir() {
			return
		}

		if err := handler.Handle(ctx, event); err != nil {
			slog.ErrorContext(
				ctx, "error while handling event",
				slog.String("path", event.Path),
				slog.Any("error", errors.WithStack(err)),
			)
		}
	}

	go func() {
		defer w.Close()

		for {
			select {
			case event, ok := <-w.Event:
				if !ok {
					return
				}

				slog.DebugContext(ctx, "new event", slog.Any("event", event))

				go handle(event)

			case err, ok := <-w.Error:
				if !ok {
					return
				}

				slog.ErrorContext(ctx, "error while watching files", slog.Any("error", errors.WithStack(err)))

			case <-w.Closed:
				return

			case <-ctx.Done():
				return
			}
		}
	}()

	if opts.Existing {
		go func() {
			w.Wait()

			for path, info := range w.WatchedFiles() {
				if info.IsDir() {
					continue
				}

				if opts.Filter != nil && !opts.Filter.MatchString(info.Name()) {
					continue
				}

				handle(Event{Op: watcher.Create, Path: path, FileInfo: info})
			}
		}()
	}

	slog.InfoContext(ctx, "starting watcher", slog.Duration("interval", opts.Interval))
	defer slog.InfoContext(ctx, "watcher stopped")

	if err := w.Start(opts.Interval); err != nil {
		return errors.Wrap(err, "could not watch files")
	}

	return nil
}
