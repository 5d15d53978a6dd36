package via

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type store struct {
	state map[string]any
}

func newStore() *store {
	return &store{state: make(map[string]any)}
}

// session is the server side of one browser tab.
type session struct {
	id        string
	comp      *Composition
	store     *store
	patchChan chan patch
	mu        sync.Mutex // serializes actions and renders

	lastAccess atomic.Int64 // unix seconds
	streams    atomic.Int32 // open SSE connections
}

func newSession(id string, c *Composition) *session {
	ss := &session{
		id:        id,
		comp:      c,
		store:     newStore(),
		patchChan: make(chan patch, 100),
	}
	ss.touch()
	return ss
}

func (ss *session) touch() {
	ss.lastAccess.Store(time.Now().Unix())
}

// idleSince reports whether the tab has had no stream and no request since t.
func (ss *session) idleSince(t time.Time) bool {
	return ss.streams.Load() == 0 && ss.lastAccess.Load() < t.Unix()
}

func (ss *session) viewSession(ctx context.Context) *Session {
	return &Session{ctx: ctx, ss: ss, s: ss.store, mode: sessionModeView, warn: ss.warn}
}

func (ss *session) actionSession(ctx context.Context) *Session {
	return &Session{ctx: ctx, ss: ss, s: ss.store, mode: sessionModeAction, warn: ss.warn}
}

func (ss *session) warn(format string, a ...any) {
	ss.comp.app.logWarn(ss, format, a...)
}

// sync re-renders the page view and queues it for the browser. The caller
// holds ss.mu.
func (ss *session) sync(ctx context.Context) {
	html, err := render(ss.comp.viewFn(ss.viewSession(ctx)))
	if err != nil {
		ss.comp.app.logErr(ss, "sync view failed: %v", err)
		return
	}
	select {
	case ss.patchChan <- patch{patchTypeElements, html}:
	default: // Non-blocking
		ss.comp.app.logWarn(ss, "patch dropped: tab is not reading its stream")
	}
}

type sessionMode uint8

const (
	sessionModeView sessionMode = iota
	sessionModeAction
)

// Session is handed to views and actions. It scopes state to one browser tab.
type Session struct {
	ctx  context.Context
	ss   *session
	s    *store
	mode sessionMode
	warn func(string, ...any)
}

// NewSession returns a detached session in action mode, backed by its own
// store. Useful to drive compositions in tests.
func NewSession() *Session {
	return &Session{
		ctx:  context.Background(),
		s:    newStore(),
		mode: sessionModeAction,
		warn: func(string, ...any) {},
	}
}

// Context returns the context of the request being served.
func (s *Session) Context() context.Context {
	if s == nil || s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// ID returns the tab id, or "" for a detached session.
func (s *Session) ID() string {
	if s == nil || s.ss == nil {
		return ""
	}
	return s.ss.id
}
