package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/metrics"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

type SessionID string

func NewSessionID() SessionID {
	return SessionID(xid.New().String())
}

// SplitResult holds the pending outputs of the last successful split. They
// live in memory until downloaded, the session is reset or a new document is
// loaded.
type SplitResult struct {
	Manifest   *model.Manifest
	Artifacts  []model.Artifact
	Payload    *model.ChainPayload
	Params     model.SplitParams
	FinishedAt time.Time
}

func (r *SplitResult) Artifact(name string) (model.Artifact, error) {
	for _, a := range r.Artifacts {
		if a.Name == name {
			return a, nil
		}
	}

	return model.Artifact{}, errors.Wrapf(port.ErrNotFound, "no artifact named '%s'", name)
}

type SessionOptions struct {
	Params       model.SplitParams
	HandoffStore port.HandoffStore
	Sink         port.Sink
}

type SessionOptionFunc func(opts *SessionOptions)

func WithSessionParams(params model.SplitParams) SessionOptionFunc {
	return func(opts *SessionOptions) {
		opts.Params = params
	}
}

func WithSessionHandoffStore(store port.HandoffStore) SessionOptionFunc {
	return func(opts *SessionOptions) {
		opts.HandoffStore = store
	}
}

func WithSessionSink(sink port.Sink) SessionOptionFunc {
	return func(opts *SessionOptions) {
		opts.Sink = sink
	}
}

func NewSessionOptions(funcs ...SessionOptionFunc) *SessionOptions {
	opts := &SessionOptions{
		Params: model.SplitParams{
			Mode:       model.SplitModeIndividual,
			Prefix:     model.DefaultPrefix,
			EqualParts: 2,
		},
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// Session is one page selection and splitting session over a single document.
type Session struct {
	id SessionID

	loader   port.DocumentLoader
	engine   *SplitEngine
	packager *OutputPackager
	handoff  port.HandoffStore
	sink     port.Sink

	mutex      sync.RWMutex
	document   *model.Document
	selection  *model.Selection
	params     model.SplitParams
	generation uint64
	running    bool
	result     *SplitResult
}

func (s *Session) ID() SessionID {
	return s.id
}

func (s *Session) withAttrs(ctx context.Context) context.Context {
	return slogx.WithAttrs(ctx, slog.String("sessionID", string(s.id)))
}

// Load replaces the session document. The selection and pending outputs are
// cleared. Loading is rejected with ErrBusy while a split is running and a
// failed load leaves the session untouched.
func (s *Session) Load(ctx context.Context, name string, data []byte) (*model.Document, error) {
	ctx = s.withAttrs(ctx)

	s.mutex.RLock()
	running := s.running
	s.mutex.RUnlock()

	if running {
		metrics.LoadedDocuments.WithLabelValues(metrics.StatusRejected).Inc()
		return nil, errors.WithStack(port.ErrBusy)
	}

	doc, err := s.loader.Load(ctx, name, data)
	if err != nil {
		metrics.LoadedDocuments.WithLabelValues(metrics.StatusFailed).Inc()
		return nil, errors.WithStack(err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		metrics.LoadedDocuments.WithLabelValues(metrics.StatusRejected).Inc()
		return nil, errors.WithStack(port.ErrBusy)
	}

	s.document = doc
	s.selection.Reset(doc.PageCount())
	s.result = nil
	s.generation++

	metrics.LoadedDocuments.WithLabelValues(metrics.StatusSucceeded).Inc()

	slog.DebugContext(ctx, "document loaded", slog.String("name", name), slog.Int("pages", doc.PageCount()))

	return doc, nil
}

// Reset discards the document, the selection and the pending outputs.
func (s *Session) Reset() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return errors.WithStack(port.ErrBusy)
	}

	s.clear()

	return nil
}

// Close discards the session state. Unlike Reset it does not wait for a
// running split: its result will be dropped as stale.
func (s *Session) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.clear()
}

func (s *Session) clear() {
	s.document = nil
	s.selection.Reset(0)
	s.result = nil
	s.generation++
}

func (s *Session) Document() (*model.Document, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.document == nil {
		return nil, errors.WithStack(port.ErrNoDocument)
	}

	return s.document, nil
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() *model.Selection {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.selection.Clone()
}

// UpdateSelection applies fn to the live selection.
func (s *Session) UpdateSelection(fn func(selection *model.Selection) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.document == nil {
		return errors.WithStack(port.ErrNoDocument)
	}

	if err := fn(s.selection); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Session) Params() model.SplitParams {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.params
}

// UpdateParams applies fn to the split parameters. A running split keeps the
// parameters it started with.
func (s *Session) UpdateParams(fn func(params *model.SplitParams) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	params := s.params
	if err := fn(&params); err != nil {
		return errors.WithStack(err)
	}

	if _, err := model.StrategyFor(params.Mode); err != nil {
		return errors.WithStack(err)
	}

	s.params = params

	return nil
}

// CanSplit returns nil when a split can start with the current state, or the
// *model.PreconditionError explaining why it cannot.
func (s *Session) CanSplit() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.canSplit()
}

func (s *Session) canSplit() error {
	if s.document == nil {
		return errors.WithStack(model.NewPreconditionError(model.ReasonNoDocument, "load a document first"))
	}

	return model.CheckSplit(model.StrategyInput{
		PageCount: s.document.PageCount(),
		Selection: s.selection,
		Params:    s.params,
	})
}

// RejectedRanges returns the tokens of the current range expression that
// will be ignored by the ranges mode.
func (s *Session) RejectedRanges() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	pageCount := 0
	if s.document != nil {
		pageCount = s.document.PageCount()
	}

	_, rejected := model.ParseRanges(s.params.RangeExpression, pageCount)

	return rejected
}

// Split runs the selected strategy and materializes its partitions. Only one
// split may run at a time; a concurrent call fails with ErrBusy. On failure
// the pending outputs of a previous split are left untouched.
func (s *Session) Split(ctx context.Context, progress SplitProgressFunc) (*SplitResult, error) {
	ctx = s.withAttrs(ctx)

	s.mutex.Lock()

	if s.running {
		s.mutex.Unlock()
		return nil, errors.WithStack(port.ErrBusy)
	}

	manifest, err := s.engine.Plan(s.document, s.selection, s.params)
	if err != nil {
		s.mutex.Unlock()
		return nil, errors.WithStack(err)
	}

	doc := s.document
	params := s.params
	generation := s.generation
	s.running = true

	s.mutex.Unlock()

	ctx = slogx.WithAttrs(ctx, slog.String("mode", string(params.Mode)))

	artifacts, err := s.engine.Execute(ctx, doc, manifest, progress)

	var payload *model.ChainPayload
	if err == nil {
		payload, err = s.packager.ChainPayload(artifacts)
	}

	s.mutex.Lock()

	s.running = false

	if err != nil {
		s.mutex.Unlock()
		slog.ErrorContext(ctx, "split failed", slog.Any("error", errors.WithStack(err)))
		return nil, errors.WithStack(err)
	}

	if generation != s.generation {
		s.mutex.Unlock()
		return nil, errors.WithStack(port.ErrStale)
	}

	result := &SplitResult{
		Manifest:   manifest,
		Artifacts:  artifacts,
		Payload:    payload,
		Params:     params,
		FinishedAt: time.Now(),
	}

	s.result = result

	s.mutex.Unlock()

	if s.handoff != nil {
		if err := s.putHandoff(ctx, payload); err != nil {
			slog.WarnContext(ctx, "could not hand off first artifact", slog.Any("error", errors.WithStack(err)))
		}
	}

	slog.InfoContext(ctx, "split done", slog.Int("artifacts", len(artifacts)))

	return result, nil
}

func (s *Session) Running() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.running
}

// Result returns the pending outputs of the last successful split.
func (s *Session) Result() (*SplitResult, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.result == nil {
		return nil, errors.WithStack(port.ErrNoOutputs)
	}

	return s.result, nil
}

// Delivery packages the pending outputs according to the current archive toggle and prefix.
func (s *Session) Delivery(ctx context.Context) (*model.Delivery, error) {
	result, err := s.Result()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	params := s.Params()

	delivery, err := s.packager.Package(ctx, result.Artifacts, params.Prefix, params.ForceArchive)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return delivery, nil
}

// Download hands a single pending artifact to the configured sink.
func (s *Session) Download(ctx context.Context, name string) (*model.Artifact, error) {
	if s.sink == nil {
		return nil, errors.Wrap(port.ErrNotSupported, "no sink configured")
	}

	result, err := s.Result()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	artifact, err := result.Artifact(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := s.sink.Save(ctx, artifact.Name, model.ContentTypePDF, artifact.Data); err != nil {
		return nil, errors.Wrapf(err, "could not save artifact '%s'", artifact.Name)
	}

	return &artifact, nil
}

// DownloadAll packages the pending outputs and hands the delivery to the configured sink.
func (s *Session) DownloadAll(ctx context.Context) (*model.Delivery, error) {
	if s.sink == nil {
		return nil, errors.Wrap(port.ErrNotSupported, "no sink configured")
	}

	delivery, err := s.Delivery(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := s.sink.Save(ctx, delivery.Name, delivery.ContentType, delivery.Data); err != nil {
		return nil, errors.Wrapf(err, "could not save delivery '%s'", delivery.Name)
	}

	return delivery, nil
}

// Handoff (re)sends the chain payload of the last split to the handoff store.
func (s *Session) Handoff(ctx context.Context) (*model.ChainPayload, error) {
	if s.handoff == nil {
		return nil, errors.Wrap(port.ErrNotSupported, "no handoff store configured")
	}

	result, err := s.Result()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := s.putHandoff(ctx, result.Payload); err != nil {
		return nil, errors.WithStack(err)
	}

	return result.Payload, nil
}

func (s *Session) putHandoff(ctx context.Context, payload *model.ChainPayload) error {
	if err := s.handoff.Put(ctx, payload); err != nil {
		metrics.Handoffs.WithLabelValues(metrics.StatusFailed).Inc()
		return errors.WithStack(err)
	}

	metrics.Handoffs.WithLabelValues(metrics.StatusSucceeded).Inc()

	return nil
}

// SessionState is a consistent snapshot of a session.
type SessionState struct {
	ID             SessionID
	Document       *model.Document
	Selection      *model.Selection
	Params         model.SplitParams
	SplitError     error
	RejectedRanges []string
	Running        bool
	Result         *SplitResult
}

func (s *Session) State() SessionState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	pageCount := 0
	if s.document != nil {
		pageCount = s.document.PageCount()
	}

	_, rejected := model.ParseRanges(s.params.RangeExpression, pageCount)

	return SessionState{
		ID:             s.id,
		Document:       s.document,
		Selection:      s.selection.Clone(),
		Params:         s.params,
		SplitError:     s.canSplit(),
		RejectedRanges: rejected,
		Running:        s.running,
		Result:         s.result,
	}
}

func NewSession(loader port.DocumentLoader, engine *SplitEngine, packager *OutputPackager, funcs ...SessionOptionFunc) *Session {
	opts := NewSessionOptions(funcs...)
	return &Session{
		id:        NewSessionID(),
		loader:    loader,
		engine:    engine,
		packager:  packager,
		handoff:   opts.HandoffStore,
		sink:      opts.Sink,
		selection: model.NewSelection(0),
		params:    opts.Params,
	}
}
