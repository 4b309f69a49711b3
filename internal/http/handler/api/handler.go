package api

import (
	"net/http"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/core/service"
)

type Handler struct {
	sessions       *service.SessionManager
	taskRunner     port.TaskRunner
	handoff        port.HandoffStore
	maxUploadSize  int64
	thumbnailScale float64
	mux            *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type Options struct {
	MaxUploadSize  int64
	ThumbnailScale float64
}

type OptionFunc func(opts *Options)

func WithMaxUploadSize(size int64) OptionFunc {
	return func(opts *Options) {
		opts.MaxUploadSize = size
	}
}

func WithThumbnailScale(scale float64) OptionFunc {
	return func(opts *Options) {
		opts.ThumbnailScale = scale
	}
}

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		MaxUploadSize:  64 << 20,
		ThumbnailScale: 0.25,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func NewHandler(sessions *service.SessionManager, taskRunner port.TaskRunner, handoff port.HandoffStore, funcs ...OptionFunc) *Handler {
	opts := NewOptions(funcs...)

	h := &Handler{
		sessions:       sessions,
		taskRunner:     taskRunner,
		handoff:        handoff,
		maxUploadSize:  opts.MaxUploadSize,
		thumbnailScale: opts.ThumbnailScale,
		mux:            &http.ServeMux{},
	}

	h.mux.HandleFunc("POST /sessions", h.handleCreateSession)
	h.mux.HandleFunc("GET /sessions/{sessionID}", h.handleGetSession)
	h.mux.HandleFunc("DELETE /sessions/{sessionID}", h.handleDeleteSession)
	h.mux.HandleFunc("POST /sessions/{sessionID}/selection", h.handleUpdateSelection)
	h.mux.HandleFunc("PUT /sessions/{sessionID}/params", h.handleUpdateParams)
	h.mux.HandleFunc("POST /sessions/{sessionID}/split", h.handleSplit)
	h.mux.HandleFunc("GET /sessions/{sessionID}/outputs", h.handleListOutputs)
	h.mux.HandleFunc("GET /sessions/{sessionID}/outputs/{name}", h.handleGetOutput)
	h.mux.HandleFunc("GET /sessions/{sessionID}/delivery", h.handleGetDelivery)
	h.mux.HandleFunc("GET /sessions/{sessionID}/thumbnails/{page}", h.handleGetThumbnail)

	h.mux.HandleFunc("GET /tasks", h.listTasks)
	h.mux.HandleFunc("GET /tasks/{taskID}", h.showTask)
	h.mux.HandleFunc("DELETE /tasks/{taskID}", h.cancelTask)

	h.mux.HandleFunc("GET /handoff", h.handleGetHandoff)

	return h
}

var _ http.Handler = &Handler{}
