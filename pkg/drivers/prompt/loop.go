package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-liveform/pkg/element"
	"github.com/goliatone/go-liveform/pkg/runtime"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

// Loop reruns the script, presents every emitted button group through the
// driver, queues the answers as client updates, and reruns until the driver
// reports ErrQuit or maxRounds is reached (0 means unlimited).
func Loop(ctx context.Context, sess *runtime.Session, script runtime.Script, driver Driver, maxRounds int) error {
	if driver == nil {
		return fmt.Errorf("prompt: driver is required")
	}

	for round := 0; maxRounds == 0 || round < maxRounds; round++ {
		page, err := sess.Rerun(ctx, script)
		if err != nil {
			return err
		}
		if page.Title != "" {
			if err := driver.Info(ctx, page.Title); err != nil {
				return quietQuit(err)
			}
		}

		gen := sess.Generation()
		answered := false
		for _, el := range page.Elements {
			bg, ok := el.(element.ButtonGroup)
			if !ok || bg.Disabled {
				continue
			}

			var wire []int
			switch bg.ClickMode {
			case element.MultiSelect:
				wire, err = driver.MultiSelect(ctx, bg)
			default:
				wire, err = driver.Select(ctx, bg)
			}
			if err != nil {
				return quietQuit(err)
			}
			sess.QueueUpdate(widgetid.ID(bg.ID), wire, gen+1)
			answered = true
		}

		if !answered {
			return nil
		}
	}
	return nil
}

func quietQuit(err error) error {
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}
