package snake

import (
	"context"
	"errors"
	"time"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

// DrawFunc receives one snapshot per tick.
type DrawFunc func(structs.RenderSnapshot) error

// Stepper advances a game by one tick. *Controller implements it; callers
// that share a controller wrap it with their own locking.
type Stepper interface {
	Tick() (structs.RenderSnapshot, error)
}

// Drive runs one Tick per value received on ticks and hands every snapshot to
// draw. It returns when ctx is done, ticks is closed, draw fails, or the board
// fills up (after drawing the final snapshot).
func Drive(ctx context.Context, ticks <-chan time.Time, game Stepper, draw DrawFunc) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			snap, err := game.Tick()
			if err != nil && !errors.Is(err, ErrBoardFull) {
				return err
			}
			if drawErr := draw(snap); drawErr != nil {
				return drawErr
			}
			if err != nil {
				return err
			}
		}
	}
}
