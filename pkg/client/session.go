package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/http/handler/api"
	"github.com/pkg/errors"
)

// CreateSession uploads a document and opens a new session over it.
func (c *Client) CreateSession(ctx context.Context, name string, data []byte) (*api.Session, error) {
	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if _, err := part.Write(data); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := writer.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	header := http.Header{"Content-Type": []string{writer.FormDataContentType()}}

	res, err := c.request(ctx, http.MethodPost, "/sessions", header, bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var created api.SessionResponse
	if err := json.Unmarshal(res.Body, &created); err != nil {
		return nil, errors.WithStack(err)
	}

	return &created.Session, nil
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*api.Session, error) {
	var res api.SessionResponse
	if err := c.jsonRequest(ctx, http.MethodGet, sessionPath(sessionID), nil, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return &res.Session, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if err := c.jsonRequest(ctx, http.MethodDelete, sessionPath(sessionID), nil, nil); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// UpdateSelection applies a selection operation and returns the rejected range tokens.
func (c *Client) UpdateSelection(ctx context.Context, sessionID string, req api.UpdateSelectionRequest) (*api.Session, []string, error) {
	var res api.UpdateSelectionResponse
	if err := c.jsonRequest(ctx, http.MethodPost, sessionPath(sessionID, "selection"), req, &res); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return &res.Session, res.Rejected, nil
}

func (c *Client) UpdateParams(ctx context.Context, sessionID string, req api.UpdateParamsRequest) (*api.Session, error) {
	var res api.SessionResponse
	if err := c.jsonRequest(ctx, http.MethodPut, sessionPath(sessionID, "params"), req, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return &res.Session, nil
}

// Split schedules the split of the session and returns the identifier of its task.
func (c *Client) Split(ctx context.Context, sessionID string) (model.TaskID, error) {
	var res api.SplitResponse
	if err := c.jsonRequest(ctx, http.MethodPost, sessionPath(sessionID, "split"), nil, &res); err != nil {
		return "", errors.WithStack(err)
	}

	return res.TaskID, nil
}

func (c *Client) Outputs(ctx context.Context, sessionID string) ([]api.Output, error) {
	var res api.ListOutputsResponse
	if err := c.jsonRequest(ctx, http.MethodGet, sessionPath(sessionID, "outputs"), nil, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return res.Outputs, nil
}

func (c *Client) Output(ctx context.Context, sessionID string, name string) ([]byte, error) {
	res, err := c.request(ctx, http.MethodGet, sessionPath(sessionID, "outputs", name), nil, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return res.Body, nil
}

// Delivery downloads the pending outputs as packaged by the server.
func (c *Client) Delivery(ctx context.Context, sessionID string) (*model.Delivery, error) {
	res, err := c.request(ctx, http.MethodGet, sessionPath(sessionID, "delivery"), nil, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &model.Delivery{
		Kind:        model.DeliveryKind(res.Header.Get("X-Delivery-Kind")),
		Name:        attachmentName(res.Header),
		ContentType: res.Header.Get("Content-Type"),
		Data:        res.Body,
	}, nil
}

// Thumbnail renders the given one-based page. A zero scale uses the server default.
func (c *Client) Thumbnail(ctx context.Context, sessionID string, page int, scale float64) (image.Image, bool, error) {
	path := sessionPath(sessionID, "thumbnails", strconv.Itoa(page))
	if scale > 0 {
		path += "?scale=" + strconv.FormatFloat(scale, 'f', -1, 64)
	}

	res, err := c.request(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}

	img, err := png.Decode(bytes.NewReader(res.Body))
	if err != nil {
		return nil, false, errors.WithStack(err)
	}

	return img, res.Header.Get("X-Thumbnail-Blank") == "true", nil
}

// Handoff retrieves the latest document handed off by the server.
func (c *Client) Handoff(ctx context.Context) (*model.ChainPayload, error) {
	res, err := c.request(ctx, http.MethodGet, "/handoff", nil, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &model.ChainPayload{
		Name:        attachmentName(res.Header),
		ContentType: res.Header.Get("Content-Type"),
		Origin:      res.Header.Get("X-Handoff-Origin"),
		Data:        res.Body,
	}, nil
}

func sessionPath(sessionID string, elems ...string) string {
	path := fmt.Sprintf("/sessions/%s", url.PathEscape(sessionID))
	for _, e := range elems {
		path += "/" + url.PathEscape(e)
	}
	return path
}

func attachmentName(header http.Header) string {
	_, params, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}

	return params["filename"]
}
