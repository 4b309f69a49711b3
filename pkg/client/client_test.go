package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bornholm/pdfsplit/internal/adapter/memory"
	"github.com/bornholm/pdfsplit/internal/adapter/pdfcpu"
	"github.com/bornholm/pdfsplit/internal/adapter/poppler"
	"github.com/bornholm/pdfsplit/internal/adapter/zip"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/core/service"
	"github.com/bornholm/pdfsplit/internal/http/handler/api"
	"github.com/bornholm/pdfsplit/internal/pdftest"
	splitTask "github.com/bornholm/pdfsplit/internal/task/split"
	"github.com/pkg/errors"
)

func newTestClient(t *testing.T) *Client {
	processor := pdfcpu.NewProcessor()

	archiver, err := zip.NewArchiver()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	// A missing command only produces blank thumbnails
	preview, err := service.NewPreviewPipeline(poppler.NewThumbnailRenderer("pdftoppm", 64))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	handoff := memory.NewHandoffStore()

	sessions := service.NewSessionManager(
		processor,
		service.NewSplitEngine(processor),
		service.NewOutputPackager(archiver),
		preview,
		service.WithSessionManagerSessionOptions(service.WithSessionHandoffStore(handoff)),
	)

	runner := memory.NewTaskRunner(1, time.Hour, time.Minute)
	runner.RegisterTask(splitTask.TaskTypeSplit, splitTask.NewSplitHandler(sessions))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("%+v", errors.WithStack(err))
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", api.NewHandler(sessions, runner, handoff)))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	baseURL, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	return New(WithBaseURL(baseURL))
}

func TestClient(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	session, err := client.CreateSession(ctx, "book.pdf", pdftest.Document(6))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 6, session.Document.PageCount; e != g {
		t.Fatalf("expected %d pages, got %d", e, g)
	}

	mode := string(model.SplitModeRanges)
	ranges := "1-2,5-6,9"
	prefix := "chapter"

	session, err = client.UpdateParams(ctx, session.ID, api.UpdateParamsRequest{Mode: &mode, Ranges: &ranges, Prefix: &prefix})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := []string{"9"}, session.RejectedRanges; len(g) != 1 || e[0] != g[0] {
		t.Errorf("expected rejected ranges %v, got %v", e, g)
	}

	taskID, err := client.Split(ctx, session.ID)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	task, err := client.WaitFor(ctx, taskID, WithWaitForPollInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := port.TaskStatusSucceeded, task.Status; e != g {
		t.Fatalf("expected status '%s', got '%s': %s", e, g, task.Error)
	}

	outputs, err := client.Outputs(ctx, session.ID)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(outputs); e != g {
		t.Fatalf("expected %d outputs, got %d", e, g)
	}

	data, err := client.Output(ctx, session.ID, "chapter-5-6.pdf")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	doc, err := pdfcpu.NewProcessor().Load(ctx, "chapter-5-6.pdf", data)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, doc.PageCount(); e != g {
		t.Errorf("expected %d pages, got %d", e, g)
	}

	delivery, err := client.Delivery(ctx, session.ID)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := model.DeliveryKindArchive, delivery.Kind; e != g {
		t.Errorf("expected kind '%s', got '%s'", e, g)
	}

	if e, g := "chapter.zip", delivery.Name; e != g {
		t.Errorf("expected name '%s', got '%s'", e, g)
	}

	payload, err := client.Handoff(ctx)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "chapter-1-2.pdf", payload.Name; e != g {
		t.Errorf("expected handed off '%s', got '%s'", e, g)
	}

	if _, _, err := client.Thumbnail(ctx, session.ID, 1, 0.1); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := client.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := client.GetSession(ctx, session.ID); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClientErrors(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if _, err := client.CreateSession(ctx, "notes.txt", []byte("plain text")); !errors.Is(err, port.ErrNotADocument) {
		t.Errorf("expected ErrNotADocument, got %v", err)
	}

	session, err := client.CreateSession(ctx, "doc.pdf", pdftest.Document(2))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	_, err = client.Split(ctx, session.ID)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an API error, got %v", err)
	}

	if e, g := string(model.ReasonEmptySelection), apiErr.Reason; e != g {
		t.Errorf("expected reason '%s', got '%s'", e, g)
	}

	if _, err := client.Outputs(ctx, session.ID); !errors.Is(err, port.ErrNoOutputs) {
		t.Errorf("expected ErrNoOutputs, got %v", err)
	}
}

func TestRateLimitTransport(t *testing.T) {
	var calls atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	httpClient := &http.Client{
		Transport: &RateLimitTransport{MaxRetries: 3, DefaultWait: time.Millisecond},
	}

	res, err := httpClient.Get(server.URL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer res.Body.Close()

	if e, g := http.StatusOK, res.StatusCode; e != g {
		t.Errorf("expected status %d, got %d", e, g)
	}

	if e, g := int64(3), calls.Load(); e != g {
		t.Errorf("expected %d calls, got %d", e, g)
	}
}
