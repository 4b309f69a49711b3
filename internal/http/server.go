package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	sloghttp "github.com/samber/slog-http"
)

type Server struct {
	opts *Options
}

// Handler returns the server routes: every mount is served under the base
// URL with its prefix stripped.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	baseURL := "/" + strings.Trim(s.opts.BaseURL, "/")
	if baseURL != "/" {
		baseURL += "/"
	}

	for prefix, handler := range s.opts.Mounts {
		pattern := baseURL + strings.TrimPrefix(prefix, "/")
		mux.Handle(pattern, http.StripPrefix(strings.TrimSuffix(pattern, "/"), handler))
	}

	return sloghttp.Recovery(sloghttp.New(slog.Default())(mux))
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.opts.Address,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errs := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- errors.WithStack(err)
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func NewServer(funcs ...OptionFunc) *Server {
	opts := NewOptions(funcs...)
	return &Server{
		opts: opts,
	}
}
