package state_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-liveform/pkg/apierror"
	"github.com/goliatone/go-liveform/pkg/state"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

const widgetA = widgetid.ID("pills-aaaa")
const widgetB = widgetid.ID("pills-bbbb")

func TestRegister_FirstAppearanceUsesDefault(t *testing.T) {
	store := state.NewStore()

	run := store.Begin(1)
	value, err := run.Register(widgetA, []int{2}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{2}, value)
	run.Commit()

	got, ok := store.Get(widgetA)
	require.True(t, ok)
	require.Equal(t, []int{2}, got)
}

func TestRegister_StoredValueBeatsDefault(t *testing.T) {
	store := state.NewStore()

	run := store.Begin(1)
	_, err := run.Register(widgetA, []int{0}, nil)
	require.NoError(t, err)
	run.Commit()

	store.QueueUpdate(widgetA, []int{3}, 2)

	run = store.Begin(2)
	value, err := run.Register(widgetA, []int{0}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{3}, value, "client update must win over default")
	run.Commit()

	// Re-declared identically: the UI remembers, no reset to the default.
	run = store.Begin(3)
	value, err = run.Register(widgetA, []int{0}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{3}, value)
	run.Commit()
}

func TestQueueUpdate_StaleGenerationsDropped(t *testing.T) {
	store := state.NewStore()

	run := store.Begin(5)
	_, err := run.Register(widgetA, []int{1}, nil)
	require.NoError(t, err)
	run.Commit()

	// Generation 4 predates the committed value: already superseded.
	store.QueueUpdate(widgetA, []int{0}, 4)

	run = store.Begin(6)
	value, err := run.Register(widgetA, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []int{1}, value, "stale update must not overwrite committed value")
	run.Commit()
}

func TestQueueUpdate_NewerPendingWins(t *testing.T) {
	store := state.NewStore()
	store.QueueUpdate(widgetA, []int{1}, 2)
	store.QueueUpdate(widgetA, []int{2}, 3)
	store.QueueUpdate(widgetA, []int{0}, 1) // older than queued: dropped

	run := store.Begin(4)
	value, err := run.Register(widgetA, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []int{2}, value)
	run.Commit()
}

func TestRegister_DuplicateIdentityIsConfigError(t *testing.T) {
	store := state.NewStore()
	run := store.Begin(1)

	_, err := run.Register(widgetA, nil, nil)
	require.NoError(t, err)

	_, err = run.Register(widgetA, nil, nil)
	require.Error(t, err)
	require.True(t, apierror.IsConfig(err), "duplicate id must be a config error: %v", err)
	run.Discard()
}

func TestEviction_AfterTwoStaleRuns(t *testing.T) {
	store := state.NewStore()

	run := store.Begin(1)
	_, err := run.Register(widgetA, []int{1}, nil)
	require.NoError(t, err)
	run.Commit()

	// Two runs without touching the widget.
	store.Begin(2).Commit()
	require.Equal(t, 1, store.Len(), "one stale cycle must not evict")

	store.Begin(3).Commit()
	require.Equal(t, 0, store.Len(), "two stale cycles must evict")
}

func TestEviction_ThresholdConfigurable(t *testing.T) {
	store := state.NewStore(state.WithEvictAfterRuns(1))

	run := store.Begin(1)
	_, err := run.Register(widgetA, []int{1}, nil)
	require.NoError(t, err)
	run.Commit()

	store.Begin(2).Commit()
	require.Equal(t, 0, store.Len())
}

func TestEviction_TouchingResetsStaleness(t *testing.T) {
	store := state.NewStore()

	run := store.Begin(1)
	_, err := run.Register(widgetA, []int{1}, nil)
	require.NoError(t, err)
	run.Commit()

	store.Begin(2).Commit() // one stale cycle

	run = store.Begin(3)
	_, err = run.Register(widgetA, []int{1}, nil)
	require.NoError(t, err)
	run.Commit()

	store.Begin(4).Commit()
	require.Equal(t, 1, store.Len(), "staleness must reset when touched")
}

func TestDiscard_KeepsStoreAndPendingIntact(t *testing.T) {
	store := state.NewStore()

	run := store.Begin(1)
	_, err := run.Register(widgetA, []int{1}, nil)
	require.NoError(t, err)
	run.Commit()

	store.QueueUpdate(widgetA, []int{0}, 2)

	cancelled := store.Begin(2)
	_, err = cancelled.Register(widgetA, []int{1}, nil)
	require.NoError(t, err)
	_, err = cancelled.Register(widgetB, []int{5}, nil)
	require.NoError(t, err)
	cancelled.Discard()

	// The cancelled run's writes are gone, the committed value survives.
	got, ok := store.Get(widgetA)
	require.True(t, ok)
	require.Equal(t, []int{1}, got)
	_, ok = store.Get(widgetB)
	require.False(t, ok)

	// The client update survives for the superseding run.
	run = store.Begin(3)
	value, err := run.Register(widgetA, []int{1}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0}, value)
	run.Commit()
}

func TestChangedCallbacks(t *testing.T) {
	store := state.NewStore()
	fired := 0
	cb := func() { fired++ }

	run := store.Begin(1)
	_, err := run.Register(widgetA, []int{1}, cb)
	require.NoError(t, err)
	_, err = run.Register(widgetB, []int{0}, cb)
	require.NoError(t, err)
	run.Commit()

	// widgetA changes, widgetB echoes its current value back.
	store.QueueUpdate(widgetA, []int{2}, 2)
	store.QueueUpdate(widgetB, []int{0}, 2)

	run = store.Begin(2)
	for _, f := range run.ChangedCallbacks() {
		f()
	}
	require.Equal(t, 1, fired, "only the changed widget's callback fires")
	run.Commit()
}

func TestSnapshotRestore(t *testing.T) {
	store := state.NewStore()
	run := store.Begin(1)
	_, err := run.Register(widgetA, []int{1, 3}, nil)
	require.NoError(t, err)
	run.Commit()

	snap := store.Snapshot()

	fresh := state.NewStore()
	fresh.Restore(snap)

	got, ok := fresh.Get(widgetA)
	require.True(t, ok)
	require.Equal(t, []int{1, 3}, got)
}
