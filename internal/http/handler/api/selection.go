package api

import (
	"net/http"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/pkg/errors"
)

type SelectionOp string

const (
	SelectionOpAll    SelectionOp = "all"
	SelectionOpNone   SelectionOp = "none"
	SelectionOpOdd    SelectionOp = "odd"
	SelectionOpEven   SelectionOp = "even"
	SelectionOpInvert SelectionOp = "invert"
	SelectionOpToggle SelectionOp = "toggle"
	SelectionOpRange  SelectionOp = "range"
	SelectionOpRanges SelectionOp = "ranges"
)

type UpdateSelectionRequest struct {
	Op         SelectionOp `json:"op"`
	Start      int         `json:"start,omitempty"`
	End        int         `json:"end,omitempty"`
	Page       int         `json:"page,omitempty"`
	Expression string      `json:"expression,omitempty"`
}

type UpdateSelectionResponse struct {
	Session  Session  `json:"session"`
	Rejected []string `json:"rejected"`
}

func (h *Handler) handleUpdateSelection(w http.ResponseWriter, r *http.Request) {
	session, err := h.getSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdateSelectionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, badRequest("invalid request body: %s", err.Error()))
		return
	}

	rejected := make([]string, 0)

	err = session.UpdateSelection(func(selection *model.Selection) error {
		switch req.Op {
		case SelectionOpAll:
			selection.SelectAll()
		case SelectionOpNone:
			selection.SelectNone()
		case SelectionOpOdd:
			selection.SelectOdd()
		case SelectionOpEven:
			selection.SelectEven()
		case SelectionOpInvert:
			selection.Invert()
		case SelectionOpToggle:
			if req.Page < 1 || req.Page > selection.PageCount() {
				return errors.Wrapf(model.ErrInvalidRange, "page %d is not within 1-%d", req.Page, selection.PageCount())
			}
			selection.Toggle(model.PageIndexFromNumber(req.Page))
		case SelectionOpRange:
			if err := selection.AddRange(req.Start, req.End); err != nil {
				return errors.WithStack(err)
			}
		case SelectionOpRanges:
			rejected = append(rejected, selection.AddRanges(req.Expression)...)
		default:
			return badRequest("unknown selection operation '%s'", req.Op)
		}

		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, UpdateSelectionResponse{
		Session:  toSession(session.State()),
		Rejected: rejected,
	})
}
