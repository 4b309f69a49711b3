package api

import (
	"bytes"
	"image/png"
	"net/http"
	"strconv"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/pkg/errors"
)

func (h *Handler) handleGetThumbnail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.getSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := session.Document()
	if err != nil {
		writeError(w, r, err)
		return
	}

	number, err := getPathPageNumber(r, "page")
	if err != nil {
		writeError(w, r, err)
		return
	}

	page := model.PageIndexFromNumber(number)
	if !page.In(doc.PageCount()) {
		writeError(w, r, errors.Wrapf(model.ErrInvalidRange, "page %d is not within 1-%d", number, doc.PageCount()))
		return
	}

	scale := h.thumbnailScale
	if raw := r.URL.Query().Get("scale"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value <= 0 || value > 4 {
			writeError(w, r, badRequest("invalid scale '%s'", raw))
			return
		}
		scale = value
	}

	preview := h.sessions.Preview().RenderPage(ctx, doc, page, scale)

	var buff bytes.Buffer
	if err := png.Encode(&buff, preview.Image); err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	// Failed renders are served as blank images, flagged for the client
	if preview.Blank() {
		w.Header().Set("X-Thumbnail-Blank", "true")
	} else {
		w.Header().Set("Cache-Control", "private, max-age=3600")
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buff.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buff.Bytes())
}
