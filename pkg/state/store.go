// Package state holds the per-session widget state store. An entry maps a
// widget identity to its last committed wire value, its pending on-change
// callback, and staleness bookkeeping. The store is the only shared mutable
// resource in the core: it is mutated by its owning session's rerun and read
// by the message-delivery path that injects client updates, so every
// hand-off goes through the store mutex.
package state

import (
	"sync"

	"github.com/goliatone/go-liveform/pkg/apierror"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

// DefaultEvictAfterRuns is the number of consecutive runs a widget may be
// absent from before its entry is evicted.
const DefaultEvictAfterRuns = 2

// Option configures a Store.
type Option func(*Store)

// WithEvictAfterRuns overrides the staleness threshold. Values below one are
// ignored.
func WithEvictAfterRuns(runs int) Option {
	return func(s *Store) {
		if runs >= 1 {
			s.evictAfterRuns = runs
		}
	}
}

type entry struct {
	value     []int
	gen       uint64
	callback  func()
	staleRuns int
}

type update struct {
	wire []int
	gen  uint64
}

// Store is one session's widget state. All methods are safe for the
// single-producer (client updates) / single-consumer (rerun) exchange the
// runtime performs; reruns themselves are serialized by the session.
type Store struct {
	mu             sync.Mutex
	entries        map[widgetid.ID]*entry
	pending        map[widgetid.ID]update
	evictAfterRuns int
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries:        make(map[widgetid.ID]*entry),
		pending:        make(map[widgetid.ID]update),
		evictAfterRuns: DefaultEvictAfterRuns,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// QueueUpdate injects a client-submitted wire value for a widget. The update
// is merged into the next run. Updates superseded by an already committed
// value of the same or newer generation are dropped: last-writer-wins is
// keyed by rerun generation, not arrival order.
func (s *Store) QueueUpdate(id widgetid.ID, wire []int, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok && gen <= e.gen {
		return
	}
	if p, ok := s.pending[id]; ok && gen < p.gen {
		return
	}
	s.pending[id] = update{wire: cloneWire(wire), gen: gen}
}

// Get returns the committed wire value for a widget identity.
func (s *Store) Get(id widgetid.ID) ([]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return cloneWire(e.value), true
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Snapshot copies the committed values, keyed by widget identity.
func (s *Store) Snapshot() map[widgetid.ID][]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[widgetid.ID][]int, len(s.entries))
	for id, e := range s.entries {
		out[id] = cloneWire(e.value)
	}
	return out
}

// Restore seeds committed values from a snapshot, replacing current entries.
// Callbacks and staleness are not part of a snapshot.
func (s *Store) Restore(values map[widgetid.ID][]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[widgetid.ID]*entry, len(values))
	for id, wire := range values {
		s.entries[id] = &entry{value: cloneWire(wire)}
	}
}

// Begin opens a run at the given rerun generation. Pending client updates
// are merged in read-only fashion: they become visible to Register calls of
// this run and are consumed only when the run commits, so a cancelled run
// leaves them queued for the next one.
func (s *Store) Begin(gen uint64) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := &Run{
		store:    s,
		gen:      gen,
		incoming: make(map[widgetid.ID][]int, len(s.pending)),
		staged:   make(map[widgetid.ID]*stagedWidget),
	}
	for id, upd := range s.pending {
		if e, ok := s.entries[id]; ok && upd.gen <= e.gen {
			// Superseded while queued.
			continue
		}
		run.incoming[id] = cloneWire(upd.wire)
		if e, ok := s.entries[id]; ok && e.callback != nil && !wireEqual(e.value, upd.wire) {
			run.callbacks = append(run.callbacks, e.callback)
		}
	}
	return run
}

// Run stages one rerun's widget registrations. The store itself is only
// written at Commit, never mid-build, so a cancelled run cannot corrupt it.
type Run struct {
	store    *Store
	gen      uint64
	incoming map[widgetid.ID][]int
	staged   map[widgetid.ID]*stagedWidget
	order    []widgetid.ID
	// callbacks holds the on-change callbacks of widgets whose client
	// update changed their value, snapshotted at Begin.
	callbacks []func()
	closed    bool
}

type stagedWidget struct {
	value    []int
	callback func()
}

// ChangedCallbacks returns the on-change callbacks to fire before the script
// body runs.
func (r *Run) ChangedCallbacks() []func() {
	return r.callbacks
}

// Register reconciles one widget invocation and returns its current wire
// value. Precedence: client update for this cycle, then the value stored by
// a prior run, then the script-declared default. Registering the same
// identity twice within one run is a configuration error.
func (r *Run) Register(id widgetid.ID, def []int, callback func()) ([]int, error) {
	if r.closed {
		return nil, apierror.Configf("widget %q registered on a finished run", id)
	}
	if _, dup := r.staged[id]; dup {
		return nil, apierror.Configf(
			"there are multiple widgets with the same generated id %q: set distinct key arguments to disambiguate them", id)
	}

	value := cloneWire(def)
	if stored, ok := r.storedValue(id); ok {
		value = stored
	}
	if incoming, ok := r.incoming[id]; ok {
		value = cloneWire(incoming)
	}

	r.staged[id] = &stagedWidget{value: cloneWire(value), callback: callback}
	r.order = append(r.order, id)
	return value, nil
}

func (r *Run) storedValue(id widgetid.ID) ([]int, bool) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.entries[id]
	if !ok {
		return nil, false
	}
	return cloneWire(e.value), true
}

// Commit publishes the staged registrations, consumes the client updates
// this run observed, marks untouched entries stale, and evicts entries that
// stayed stale past the threshold.
func (r *Run) Commit() {
	if r.closed {
		return
	}
	r.closed = true

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, staged := range r.staged {
		s.entries[id] = &entry{
			value:    staged.value,
			gen:      r.gen,
			callback: staged.callback,
		}
	}

	for id := range r.incoming {
		if p, ok := s.pending[id]; ok && p.gen <= r.gen {
			delete(s.pending, id)
		}
	}

	for id, e := range s.entries {
		if _, touched := r.staged[id]; touched {
			continue
		}
		e.staleRuns++
		if e.staleRuns >= s.evictAfterRuns {
			delete(s.entries, id)
		}
	}
}

// Discard drops the staged state of a cancelled run. Pending client updates
// stay queued for the superseding run.
func (r *Run) Discard() {
	r.closed = true
	r.staged = nil
	r.incoming = nil
}

func cloneWire(wire []int) []int {
	if wire == nil {
		return nil
	}
	out := make([]int, len(wire))
	copy(out, wire)
	return out
}

func wireEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
