package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
)

type SessionManagerOptions struct {
	MaxSessions int
	TTL         time.Duration
	Session     []SessionOptionFunc
}

type SessionManagerOptionFunc func(opts *SessionManagerOptions)

func WithSessionManagerMaxSessions(maxSessions int) SessionManagerOptionFunc {
	return func(opts *SessionManagerOptions) {
		opts.MaxSessions = maxSessions
	}
}

func WithSessionManagerTTL(ttl time.Duration) SessionManagerOptionFunc {
	return func(opts *SessionManagerOptions) {
		opts.TTL = ttl
	}
}

func WithSessionManagerSessionOptions(funcs ...SessionOptionFunc) SessionManagerOptionFunc {
	return func(opts *SessionManagerOptions) {
		opts.Session = append(opts.Session, funcs...)
	}
}

func NewSessionManagerOptions(funcs ...SessionManagerOptionFunc) *SessionManagerOptions {
	opts := &SessionManagerOptions{
		MaxSessions: 256,
		TTL:         time.Hour,
		Session:     make([]SessionOptionFunc, 0),
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// SessionManager keeps the live sessions of the HTTP surface. Sessions expire
// after a period of inactivity or when the maximum number of sessions is
// exceeded, the least recently used first.
type SessionManager struct {
	loader   port.DocumentLoader
	engine   *SplitEngine
	packager *OutputPackager
	preview  *PreviewPipeline

	sessions       *expirable.LRU[SessionID, *Session]
	sessionOptions []SessionOptionFunc
}

func (m *SessionManager) Create(ctx context.Context) *Session {
	session := NewSession(m.loader, m.engine, m.packager, m.sessionOptions...)
	m.sessions.Add(session.ID(), session)

	slog.DebugContext(ctx, "session created", slog.String("sessionID", string(session.ID())))

	return session
}

// Get returns the session and extends its lifetime.
func (m *SessionManager) Get(ctx context.Context, id SessionID) (*Session, error) {
	session, exists := m.sessions.Get(id)
	if !exists {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	m.sessions.Add(id, session)

	return session, nil
}

func (m *SessionManager) Delete(ctx context.Context, id SessionID) error {
	if !m.sessions.Remove(id) {
		return errors.WithStack(port.ErrNotFound)
	}

	slog.DebugContext(ctx, "session deleted", slog.String("sessionID", string(id)))

	return nil
}

func (m *SessionManager) Len() int {
	return m.sessions.Len()
}

func (m *SessionManager) Preview() *PreviewPipeline {
	return m.preview
}

func NewSessionManager(loader port.DocumentLoader, engine *SplitEngine, packager *OutputPackager, preview *PreviewPipeline, funcs ...SessionManagerOptionFunc) *SessionManager {
	opts := NewSessionManagerOptions(funcs...)

	onEvict := func(id SessionID, session *Session) {
		session.Close()
	}

	return &SessionManager{
		loader:         loader,
		engine:         engine,
		packager:       packager,
		preview:        preview,
		sessions:       expirable.NewLRU[SessionID, *Session](opts.MaxSessions, onEvict, opts.TTL),
		sessionOptions: opts.Session,
	}
}
