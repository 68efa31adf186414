// Package liveform coordinates the full pipeline from an author script to
// rendered output: it owns the session registry, replays client updates into
// each session's widget state store, reruns the script, and hands the
// resulting page to a renderer. It applies sensible defaults (HTML renderer,
// built-in configuration) while remaining open to dependency injection.
package liveform

import (
	"context"
	"fmt"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-liveform/pkg/config"
	"github.com/goliatone/go-liveform/pkg/render"
	"github.com/goliatone/go-liveform/pkg/renderers/html"
	"github.com/goliatone/go-liveform/pkg/runtime"
	"github.com/goliatone/go-liveform/pkg/state"
	"github.com/goliatone/go-liveform/pkg/state/boltstore"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

const defaultRendererName = "html"

// Option customises the App configuration.
type Option func(*App)

// WithConfig applies a loaded configuration.
func WithConfig(cfg config.Config) Option {
	return func(a *App) { a.cfg = cfg }
}

// WithRegistry injects a renderer registry. The default registry carries the
// HTML renderer.
func WithRegistry(registry *render.Registry) Option {
	return func(a *App) { a.registry = registry }
}

// WithDefaultRenderer overrides the renderer used when a render call omits
// an explicit name.
func WithDefaultRenderer(name string) Option {
	return func(a *App) {
		if name != "" {
			a.defaultRenderer = name
		}
	}
}

// WithThemeConfig passes a resolved go-theme configuration through to
// renderers.
func WithThemeConfig(cfg *theme.RendererConfig) Option {
	return func(a *App) { a.theme = cfg }
}

// WithSnapshotDB persists session value snapshots: sessions are restored
// from the database when created and saved back when closed.
func WithSnapshotDB(db *boltstore.DB) Option {
	return func(a *App) { a.snapshots = db }
}

// App runs one author script for many isolated sessions.
type App struct {
	script          runtime.Script
	cfg             config.Config
	registry        *render.Registry
	defaultRenderer string
	theme           *theme.RendererConfig
	snapshots       *boltstore.DB
	initErr         error

	mu       sync.Mutex
	sessions map[string]*runtime.Session
}

// New constructs an App around the author script.
func New(script runtime.Script, options ...Option) (*App, error) {
	if script == nil {
		return nil, fmt.Errorf("liveform: script is required")
	}
	app := &App{
		script:          script,
		cfg:             config.Default(),
		defaultRenderer: defaultRendererName,
		sessions:        make(map[string]*runtime.Session),
	}
	for _, opt := range options {
		if opt != nil {
			opt(app)
		}
	}
	if app.theme == nil && (app.cfg.Theme.Name != "" || app.cfg.Theme.Variant != "") {
		app.theme = &theme.RendererConfig{
			Theme:   app.cfg.Theme.Name,
			Variant: app.cfg.Theme.Variant,
		}
	}
	if app.registry == nil {
		app.registry = render.NewRegistry()
		htmlRenderer, err := html.New()
		if err != nil {
			return nil, fmt.Errorf("liveform: default renderer: %w", err)
		}
		app.registry.MustRegister(htmlRenderer)
	}
	return app, nil
}

// Session returns the session for id, creating (and, when a snapshot
// database is configured, restoring) it on first use.
func (a *App) Session(id string) (*runtime.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("liveform: session id is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if sess, ok := a.sessions[id]; ok {
		return sess, nil
	}

	store := state.NewStore(state.WithEvictAfterRuns(a.cfg.State.EvictAfterRuns))
	if a.snapshots != nil {
		snapshot, err := a.snapshots.Load(id)
		if err != nil {
			return nil, fmt.Errorf("liveform: restore session %s: %w", id, err)
		}
		if len(snapshot) > 0 {
			store.Restore(snapshot)
		}
	}

	sess := runtime.NewSession(runtime.WithSessionID(id), runtime.WithStore(store))
	a.sessions[id] = sess
	return sess, nil
}

// CloseSession drops a session, saving its snapshot first when persistence
// is configured.
func (a *App) CloseSession(id string) error {
	a.mu.Lock()
	sess, ok := a.sessions[id]
	delete(a.sessions, id)
	a.mu.Unlock()

	if !ok || a.snapshots == nil {
		return nil
	}
	if err := a.snapshots.Save(id, sess.Store().Snapshot()); err != nil {
		return fmt.Errorf("liveform: snapshot session %s: %w", id, err)
	}
	return nil
}

// HandleUpdate delivers a client widget-value update into a session.
func (a *App) HandleUpdate(sessionID string, widgetID widgetid.ID, wire []int, gen uint64) error {
	sess, err := a.Session(sessionID)
	if err != nil {
		return err
	}
	sess.QueueUpdate(widgetID, wire, gen)
	return nil
}

// Rerun executes the script for a session and returns the emitted page.
func (a *App) Rerun(ctx context.Context, sessionID string) (*runtime.Page, error) {
	sess, err := a.Session(sessionID)
	if err != nil {
		return nil, err
	}
	page, err := sess.Rerun(ctx, a.script)
	if err != nil {
		return nil, err
	}
	if page.Title == "" {
		page.Title = a.cfg.Title
	}
	return page, nil
}

// Render reruns the script for a session and renders the page with the
// named renderer ("" selects the default). It returns the output bytes and
// the renderer's content type.
func (a *App) Render(ctx context.Context, sessionID, rendererName string) ([]byte, string, error) {
	page, err := a.Rerun(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	if rendererName == "" {
		rendererName = a.defaultRenderer
	}
	renderer, err := a.registry.Get(rendererName)
	if err != nil {
		return nil, "", err
	}

	out, err := renderer.Render(ctx, page, render.Options{Theme: a.theme})
	if err != nil {
		return nil, "", err
	}
	return out, renderer.ContentType(), nil
}
