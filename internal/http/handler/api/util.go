package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/pkg/errors"
)

const maxJSONBodySize = 1 << 20

type UserFacingError interface {
	error
	UserMessage() string
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, res any) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := encoder.Encode(res); err != nil {
		slog.ErrorContext(r.Context(), "could not encode response", slog.Any("error", errors.WithStack(err)))
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// writeError maps domain errors to HTTP statuses. Unexpected errors are
// logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status = http.StatusInternalServerError
		res    = ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)}
	)

	var precondition *model.PreconditionError

	switch {
	case errors.As(err, &precondition):
		status = http.StatusUnprocessableEntity
		res.Reason = string(precondition.Reason)
	case errors.Is(err, port.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, port.ErrBusy), errors.Is(err, port.ErrStale):
		status = http.StatusConflict
	case errors.Is(err, port.ErrNoDocument), errors.Is(err, port.ErrNoOutputs):
		status = http.StatusConflict
	case errors.Is(err, port.ErrNotADocument), errors.Is(err, port.ErrEncrypted):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, port.ErrCanceled):
		status = http.StatusConflict
	case errors.Is(err, model.ErrInvalidRange), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, port.ErrNotSupported):
		status = http.StatusNotImplemented
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "unexpected error", slog.Any("error", errors.WithStack(err)))
	} else {
		res.Error = http.StatusText(status)
		if userFacing, ok := errors.Cause(err).(UserFacingError); ok {
			res.Error = userFacing.UserMessage()
		} else if status != http.StatusNotFound {
			res.Error = err.Error()
		}
	}

	writeJSON(w, r, status, res)
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return errors.Wrapf(errBadRequest, format, args...)
}

func (h *Handler) getSession(r *http.Request) (*service.Session, error) {
	sessionID := service.SessionID(r.PathValue("sessionID"))

	session, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return session, nil
}

func getPathPageNumber(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)

	number, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || number < 1 {
		return 0, badRequest("invalid page number '%s'", raw)
	}

	return int(number), nil
}

func writeFile(w http.ResponseWriter, name string, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
