// Package runtime executes author scripts against per-session widget state.
// Each session runs one rerun at a time; a newer rerun request cancels the
// in-flight one, which observes the cancellation at element-emission
// checkpoints and discards its partially built page without touching the
// state store. Sessions are fully isolated from one another.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/goliatone/go-liveform/pkg/state"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

// Script is one top-to-bottom execution of the authoring code. It is re-run
// on every interaction and must be written as a plain linear function of the
// run context.
type Script func(*Context) error

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithStore injects a pre-seeded widget state store (for snapshot restores).
func WithStore(store *state.Store) SessionOption {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSessionID overrides the generated session identity.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// Session owns one client connection's widget state and rerun scheduling.
type Session struct {
	id    string
	store *state.Store
	gen   atomic.Uint64

	runMu sync.Mutex // serializes reruns

	cancelMu sync.Mutex
	cancel   context.CancelFunc // cancels the in-flight rerun, if any
}

// NewSession creates a session with a fresh store and a UUID identity.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:    uuid.NewString(),
		store: state.NewStore(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ID returns the session identity.
func (s *Session) ID() string { return s.id }

// Store exposes the session's widget state store.
func (s *Session) Store() *state.Store { return s.store }

// Generation returns the most recently started rerun generation.
func (s *Session) Generation() uint64 { return s.gen.Load() }

// QueueUpdate delivers a client widget-value update produced against the
// given rerun generation. Safe to call concurrently with a rerun.
func (s *Session) QueueUpdate(id widgetid.ID, wire []int, gen uint64) {
	s.store.QueueUpdate(id, wire, gen)
}

// Rerun executes the script once. Any in-flight rerun is cancelled first and
// its staged state discarded; reruns never overlap within a session. The
// returned Page is the complete ordered element output of the run.
func (s *Session) Rerun(ctx context.Context, script Script) (*Page, error) {
	if script == nil {
		return nil, fmt.Errorf("runtime: script is required")
	}

	s.supersede()

	s.runMu.Lock()
	defer s.runMu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.setCancel(cancel)
	defer s.setCancel(nil)

	gen := s.gen.Add(1)
	run := s.store.Begin(gen)

	for _, callback := range run.ChangedCallbacks() {
		callback()
	}

	rc := &Context{
		ctx:     runCtx,
		session: s,
		gen:     gen,
		run:     run,
		page:    &Page{},
	}

	if err := script(rc); err != nil {
		run.Discard()
		return nil, fmt.Errorf("runtime: rerun %d: %w", gen, err)
	}
	if err := runCtx.Err(); err != nil {
		run.Discard()
		return nil, fmt.Errorf("runtime: rerun %d: %w", gen, err)
	}

	run.Commit()
	return rc.page, nil
}

// supersede cancels the in-flight rerun so a newer one can take over.
func (s *Session) supersede() {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) setCancel(cancel context.CancelFunc) {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	s.cancel = cancel
}
