package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/http/handler/api"
	"github.com/pkg/errors"
)

// APIError is returned for every non successful response of the server.
type APIError struct {
	StatusCode int
	Message    string
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unexpected response code %d: %s (%s)", e.StatusCode, e.Message, e.Reason)
	}

	return fmt.Sprintf("unexpected response code %d: %s", e.StatusCode, e.Message)
}

// Is maps API errors to their port counterparts.
func (e *APIError) Is(err error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return err == port.ErrNotFound
	case http.StatusConflict:
		return err == port.ErrBusy || err == port.ErrNoOutputs
	case http.StatusUnsupportedMediaType:
		return err == port.ErrNotADocument
	}

	return false
}

type response struct {
	Header http.Header
	Body   []byte
}

func (c *Client) request(ctx context.Context, method string, path string, header http.Header, body io.Reader) (*response, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	endpoint := c.baseURL.JoinPath("/api/v1", u.Path)
	endpoint.RawQuery = u.RawQuery

	slog.DebugContext(ctx, "new client request",
		slog.String("method", method),
		slog.String("path", endpoint.Path),
		slog.String("host", endpoint.Host),
	)

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for k, v := range header {
		req.Header[k] = v
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: res.StatusCode, Message: res.Status}

		var errRes api.ErrorResponse
		if err := json.Unmarshal(data, &errRes); err == nil && errRes.Error != "" {
			apiErr.Message = errRes.Error
			apiErr.Reason = errRes.Reason
		}

		return nil, errors.WithStack(apiErr)
	}

	return &response{Header: res.Header, Body: data}, nil
}

func (c *Client) jsonRequest(ctx context.Context, method string, path string, payload any, result any) error {
	var (
		body   io.Reader
		header http.Header
	)

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.WithStack(err)
		}

		body = bytes.NewReader(data)
		header = http.Header{"Content-Type": []string{"application/json"}}
	}

	res, err := c.request(ctx, method, path, header, body)
	if err != nil {
		return errors.WithStack(err)
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(res.Body, result); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
