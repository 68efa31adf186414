package runtime_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-liveform/pkg/element"
	"github.com/goliatone/go-liveform/pkg/runtime"
	"github.com/goliatone/go-liveform/pkg/state"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

func TestRerun_EmitsInDeclarationOrder(t *testing.T) {
	sess := runtime.NewSession()
	page, err := sess.Rerun(context.Background(), func(rc *runtime.Context) error {
		for _, id := range []string{"one", "two", "three"} {
			if err := rc.Emit(element.ButtonGroup{ID: id}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, page.Elements, 3)
	for i, want := range []string{"one", "two", "three"} {
		require.Equal(t, want, page.Elements[i].ElementID())
	}
}

func TestRerun_GenerationIncrements(t *testing.T) {
	sess := runtime.NewSession()
	var seen []uint64
	script := func(rc *runtime.Context) error {
		seen = append(seen, rc.Generation())
		return nil
	}
	for i := 0; i < 3; i++ {
		_, err := sess.Rerun(context.Background(), script)
		require.NoError(t, err)
	}
	require.Equal(t, []uint64{1, 2, 3}, seen)
	require.Equal(t, uint64(3), sess.Generation())
}

func TestRerun_CancelledRunDiscardsState(t *testing.T) {
	sess := runtime.NewSession()
	ctx, cancel := context.WithCancel(context.Background())

	const id = widgetid.ID("pills-cancelled")
	_, err := sess.Rerun(ctx, func(rc *runtime.Context) error {
		if _, err := rc.Register(id, []int{1}, nil); err != nil {
			return err
		}
		// Interaction arrives mid-run: this run is superseded.
		cancel()
		return rc.Emit(element.ButtonGroup{ID: string(id)})
	})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)

	_, ok := sess.Store().Get(id)
	require.False(t, ok, "cancelled run must not commit state")
}

func TestRerun_ScriptErrorDiscardsButStoreSurvives(t *testing.T) {
	sess := runtime.NewSession()
	const id = widgetid.ID("pills-keep")

	_, err := sess.Rerun(context.Background(), func(rc *runtime.Context) error {
		_, err := rc.Register(id, []int{1}, nil)
		return err
	})
	require.NoError(t, err)

	_, err = sess.Rerun(context.Background(), func(rc *runtime.Context) error {
		if _, err := rc.Register(id, []int{1}, nil); err != nil {
			return err
		}
		_, err := rc.Register(id, []int{1}, nil) // duplicate: config error
		return err
	})
	require.Error(t, err)

	// The failed run aborted before commit; the prior value is intact.
	got, ok := sess.Store().Get(id)
	require.True(t, ok)
	require.Equal(t, []int{1}, got)
}

func TestSessions_AreIsolated(t *testing.T) {
	a := runtime.NewSession()
	b := runtime.NewSession()
	require.NotEqual(t, a.ID(), b.ID())

	const id = widgetid.ID("pills-shared-name")
	script := func(def int) runtime.Script {
		return func(rc *runtime.Context) error {
			_, err := rc.Register(id, []int{def}, nil)
			return err
		}
	}

	_, err := a.Rerun(context.Background(), script(1))
	require.NoError(t, err)
	_, err = b.Rerun(context.Background(), script(2))
	require.NoError(t, err)

	gotA, _ := a.Store().Get(id)
	gotB, _ := b.Store().Get(id)
	require.Equal(t, []int{1}, gotA)
	require.Equal(t, []int{2}, gotB)

	// An update in one session never leaks into the other.
	a.QueueUpdate(id, []int{9}, a.Generation()+1)
	_, err = a.Rerun(context.Background(), script(1))
	require.NoError(t, err)
	_, err = b.Rerun(context.Background(), script(2))
	require.NoError(t, err)

	gotA, _ = a.Store().Get(id)
	gotB, _ = b.Store().Get(id)
	require.Equal(t, []int{9}, gotA)
	require.Equal(t, []int{2}, gotB)
}

func TestSessions_ConcurrentRerunsDoNotInterfere(t *testing.T) {
	sessions := make([]*runtime.Session, 8)
	for i := range sessions {
		sessions[i] = runtime.NewSession()
	}

	var wg sync.WaitGroup
	for i, sess := range sessions {
		wg.Add(1)
		go func(n int, s *runtime.Session) {
			defer wg.Done()
			id := widgetid.ID("pills-n")
			for r := 0; r < 20; r++ {
				_, err := s.Rerun(context.Background(), func(rc *runtime.Context) error {
					_, err := rc.Register(id, []int{n}, nil)
					return err
				})
				if err != nil {
					t.Errorf("session %d rerun %d: %v", n, r, err)
					return
				}
			}
		}(i, sess)
	}
	wg.Wait()

	for i, sess := range sessions {
		got, ok := sess.Store().Get("pills-n")
		require.True(t, ok)
		require.Equal(t, []int{i}, got)
	}
}

func TestRerun_OnChangeCallbackFiresBeforeScript(t *testing.T) {
	sess := runtime.NewSession()
	const id = widgetid.ID("pills-cb")

	var events []string
	script := func(rc *runtime.Context) error {
		events = append(events, "script")
		_, err := rc.Register(id, []int{0}, func() {
			events = append(events, "callback")
		})
		return err
	}

	_, err := sess.Rerun(context.Background(), script)
	require.NoError(t, err)

	sess.QueueUpdate(id, []int{1}, sess.Generation()+1)
	events = nil
	_, err = sess.Rerun(context.Background(), script)
	require.NoError(t, err)
	require.Equal(t, []string{"callback", "script"}, events)
}

func TestSession_RestoredStoreSeedsValues(t *testing.T) {
	const id = widgetid.ID("pills-restored")
	store := state.NewStore()
	store.Restore(map[widgetid.ID][]int{id: {2}})

	sess := runtime.NewSession(runtime.WithStore(store), runtime.WithSessionID("fixed"))
	require.Equal(t, "fixed", sess.ID())

	var got []int
	_, err := sess.Rerun(context.Background(), func(rc *runtime.Context) error {
		value, err := rc.Register(id, []int{0}, nil)
		got = value
		return err
	})
	require.NoError(t, err)
	require.Equal(t, []int{2}, got, "restored value must beat the default")
}

func TestContext_ContainerPathAndForms(t *testing.T) {
	sess := runtime.NewSession()
	_, err := sess.Rerun(context.Background(), func(rc *runtime.Context) error {
		require.Empty(t, rc.Path())
		require.Equal(t, "", rc.FormID())

		rc.EnterContainer("sidebar")
		rc.EnterContainer("expander-0")
		require.Equal(t, []string{"sidebar", "expander-0"}, rc.Path())

		formID := rc.EnterForm("settings")
		require.Equal(t, formID, rc.FormID())
		require.NotEmpty(t, formID)

		rc.ExitForm()
		require.Equal(t, "", rc.FormID())

		rc.ExitContainer()
		rc.ExitContainer()
		require.Empty(t, rc.Path())
		return nil
	})
	require.NoError(t, err)
}
