package api

import (
	"net/http"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/pkg/errors"
)

type ListOutputsResponse struct {
	Outputs []Output `json:"outputs"`
}

func (h *Handler) handleListOutputs(w http.ResponseWriter, r *http.Request) {
	session, err := h.getSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := session.Result()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, ListOutputsResponse{Outputs: toOutputs(result)})
}

func (h *Handler) handleGetOutput(w http.ResponseWriter, r *http.Request) {
	session, err := h.getSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := session.Result()
	if err != nil {
		writeError(w, r, err)
		return
	}

	artifact, err := result.Artifact(r.PathValue("name"))
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	writeFile(w, artifact.Name, model.ContentTypePDF, artifact.Data)
}

// handleGetDelivery returns the pending outputs as a single file or an
// archive, depending on their number and the archive toggle.
func (h *Handler) handleGetDelivery(w http.ResponseWriter, r *http.Request) {
	session, err := h.getSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	delivery, err := session.Delivery(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Delivery-Kind", string(delivery.Kind))

	writeFile(w, delivery.Name, delivery.ContentType, delivery.Data)
}
