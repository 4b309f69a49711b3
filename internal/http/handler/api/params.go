package api

import (
	"net/http"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/pkg/errors"
)

// UpdateParamsRequest changes the split parameters. Omitted fields are kept.
type UpdateParamsRequest struct {
	Mode    *string `json:"mode,omitempty"`
	Ranges  *string `json:"ranges,omitempty"`
	Parts   *int    `json:"parts,omitempty"`
	Prefix  *string `json:"prefix,omitempty"`
	Archive *bool   `json:"archive,omitempty"`
}

func (h *Handler) handleUpdateParams(w http.ResponseWriter, r *http.Request) {
	session, err := h.getSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdateParamsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, badRequest("invalid request body: %s", err.Error()))
		return
	}

	err = session.UpdateParams(func(params *model.SplitParams) error {
		if req.Mode != nil {
			mode, err := model.ParseSplitMode(*req.Mode)
			if err != nil {
				return badRequest("%s", err.Error())
			}
			params.Mode = mode
		}

		if req.Ranges != nil {
			params.RangeExpression = *req.Ranges
		}

		if req.Parts != nil {
			params.EqualParts = *req.Parts
		}

		if req.Prefix != nil {
			params.Prefix = *req.Prefix
		}

		if req.Archive != nil {
			params.ForceArchive = *req.Archive
		}

		return nil
	})
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	writeJSON(w, r, http.StatusOK, SessionResponse{Session: toSession(session.State())})
}
