package api

import (
	"io"
	"net/http"
	"time"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/pkg/errors"
)

type SessionResponse struct {
	Session Session `json:"session"`
}

type Session struct {
	ID             string    `json:"id"`
	Document       *Document `json:"document,omitempty"`
	Selection      Selection `json:"selection"`
	Params         Params    `json:"params"`
	CanSplit       bool      `json:"canSplit"`
	SplitError     string    `json:"splitError,omitempty"`
	SplitReason    string    `json:"splitReason,omitempty"`
	RejectedRanges []string  `json:"rejectedRanges"`
	Running        bool      `json:"running"`
	Outputs        []Output  `json:"outputs"`
}

type Document struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PageCount int    `json:"pageCount"`
	Size      int    `json:"size"`
}

type Selection struct {
	Pages  []int  `json:"pages"`
	Ranges string `json:"ranges"`
	All    bool   `json:"all"`
	None   bool   `json:"none"`
	Odd    bool   `json:"odd"`
	Even   bool   `json:"even"`
}

type Params struct {
	Mode    model.SplitMode `json:"mode"`
	Ranges  string          `json:"ranges"`
	Parts   int             `json:"parts"`
	Prefix  string          `json:"prefix"`
	Archive bool            `json:"archive"`
}

type Output struct {
	Name       string    `json:"name"`
	Pages      string    `json:"pages"`
	Size       int       `json:"size"`
	FinishedAt time.Time `json:"finishedAt"`
}

func toSession(state service.SessionState) Session {
	session := Session{
		ID:             string(state.ID),
		Selection:      toSelection(state.Selection),
		Params:         toParams(state.Params),
		CanSplit:       state.SplitError == nil,
		RejectedRanges: state.RejectedRanges,
		Running:        state.Running,
		Outputs:        toOutputs(state.Result),
	}

	if session.RejectedRanges == nil {
		session.RejectedRanges = make([]string, 0)
	}

	if state.Document != nil {
		session.Document = &Document{
			ID:        string(state.Document.ID()),
			Name:      state.Document.Name(),
			PageCount: state.Document.PageCount(),
			Size:      state.Document.Size(),
		}
	}

	if state.SplitError != nil {
		var precondition *model.PreconditionError
		if errors.As(state.SplitError, &precondition) {
			session.SplitError = precondition.UserMessage()
			session.SplitReason = string(precondition.Reason)
		} else {
			session.SplitError = state.SplitError.Error()
		}
	}

	return session
}

func toSelection(selection *model.Selection) Selection {
	pages := selection.Pages()

	return Selection{
		Pages:  model.PageNumbers(pages),
		Ranges: model.FormatRanges(pages),
		All:    selection.IsAllSelected(),
		None:   selection.IsNoneSelected(),
		Odd:    selection.IsOddSelected(),
		Even:   selection.IsEvenSelected(),
	}
}

func toParams(params model.SplitParams) Params {
	return Params{
		Mode:    params.Mode,
		Ranges:  params.RangeExpression,
		Parts:   params.EqualParts,
		Prefix:  params.Prefix,
		Archive: params.ForceArchive,
	}
}

func toOutputs(result *service.SplitResult) []Output {
	outputs := make([]Output, 0)
	if result == nil {
		return outputs
	}

	for _, a := range result.Artifacts {
		outputs = append(outputs, Output{
			Name:       a.Name,
			Pages:      model.FormatRanges(a.Pages),
			Size:       a.Size(),
			FinishedAt: result.FinishedAt,
		})
	}

	return outputs
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+512)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, r, badRequest("could not parse multipart form: %s", err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, badRequest("missing 'file' field"))
		return
	}

	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, errors.WithStack(err))
		return
	}

	session := h.sessions.Create(ctx)

	if _, err := session.Load(ctx, header.Filename, data); err != nil {
		if err := h.sessions.Delete(ctx, session.ID()); err != nil {
			writeError(w, r, errors.WithStack(err))
			return
		}

		writeError(w, r, errors.WithStack(err))
		return
	}

	writeJSON(w, r, http.StatusCreated, SessionResponse{Session: toSession(session.State())})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.getSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, SessionResponse{Session: toSession(session.State())})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := service.SessionID(r.PathValue("sessionID"))

	if err := h.sessions.Delete(r.Context(), sessionID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
