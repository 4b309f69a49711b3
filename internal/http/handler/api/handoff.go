package api

import (
	"net/http"

	"github.com/pkg/errors"
)

// handleGetHandoff serves the latest chain payload for the next tool.
func (h *Handler) handleGetHandoff(w http.ResponseWriter, r *http.Request) {
	payload, err := h.handoff.Get(r.Context())
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	w.Header().Set("X-Handoff-Origin", payload.Origin)

	writeFile(w, payload.Name, payload.ContentType, payload.Data)
}
