package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

// ErrInvalidState is wrapped by Restore when a saved state breaks an invariant.
var ErrInvalidState = errors.New("snake: invalid game state")

// State of the tick state machine.
type State int

const (
	StateRunning State = iota
	// StateBoardFull is terminal: the actor covers every cell.
	StateBoardFull
)

func (s State) String() string {
	if s == StateBoardFull {
		return "board_full"
	}
	return "running"
}

type options struct {
	rng     *rand.Rand
	heading *structs.Direction
	target  *structs.Cell
}

// Option configures a Controller at construction.
type Option func(*options)

// WithRand sets the random source used for headings and target placement.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithSeed is WithRand with a fresh source seeded by seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithHeading overrides the random starting heading.
func WithHeading(d structs.Direction) Option {
	return func(o *options) { o.heading = &d }
}

// WithTargetAt places the first target on c instead of a random cell.
func WithTargetAt(c structs.Cell) Option {
	return func(o *options) { o.target = &c }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// Controller 编排每一个tick
type Controller struct {
	grid   Grid
	actor  *Actor
	target *Target
	input  InputSlot
	tick   uint64
	state  State
}

// NewController starts a game: actor at the center, target on a free cell.
func NewController(grid Grid, opts ...Option) (*Controller, error) {
	o := buildOptions(opts)

	actor := NewActor(grid, o.rng)
	if o.heading != nil {
		if !o.heading.Valid() {
			return nil, fmt.Errorf("%w: heading %v", ErrInvalidState, *o.heading)
		}
		actor.heading = *o.heading
	}

	var target *Target
	if o.target != nil {
		if !grid.Aligned(*o.target) || *o.target == actor.Head() {
			return nil, fmt.Errorf("%w: target %v", ErrInvalidState, *o.target)
		}
		target = &Target{grid: grid, rng: o.rng, position: *o.target}
	} else {
		var err error
		if target, err = NewTarget(grid, o.rng, actor.Occupied()); err != nil {
			return nil, err
		}
	}

	return &Controller{grid: grid, actor: actor, target: target}, nil
}

// PushDirection buffers a direction for the next tick; last write wins.
// Safe to call concurrently with Tick.
func (c *Controller) PushDirection(d structs.Direction) bool {
	return c.input.Push(d)
}

// Tick advances the game by one step and returns the snapshot to draw.
// Once the board is full every call returns ErrBoardFull and changes nothing.
func (c *Controller) Tick() (structs.RenderSnapshot, error) {
	if c.state == StateBoardFull {
		return c.snapshot(false, false), ErrBoardFull
	}

	if d, ok := c.input.Take(); ok {
		c.actor.SetPendingDirection(d)
	}

	c.actor.Advance()
	c.tick++

	grew := false
	if c.target.ConsumedBy(c.actor.Head()) {
		c.actor.Grow()
		grew = true
		if err := c.target.Relocate(c.actor.Occupied()); err != nil {
			c.state = StateBoardFull
			return c.snapshot(grew, false), err
		}
	}

	reset := false
	if c.actor.CheckSelfCollision() {
		c.actor.SoftReset()
		reset = true
		if err := c.target.Relocate(c.actor.Occupied()); err != nil {
			c.state = StateBoardFull
			return c.snapshot(grew, reset), err
		}
	}

	return c.snapshot(grew, reset), nil
}

// Snapshot returns the current draw list without advancing.
func (c *Controller) Snapshot() structs.RenderSnapshot {
	return c.snapshot(false, false)
}

func (c *Controller) snapshot(grew, reset bool) structs.RenderSnapshot {
	s := structs.RenderSnapshot{
		Tick:     c.tick,
		Segments: c.actor.Segments(),
		Target:   c.target.Position(),
		Length:   c.actor.Length(),
		Heading:  c.actor.Heading().String(),
		Grew:     grew,
		Reset:    reset,
	}
	if v, ok := c.actor.LastVacated(); ok {
		s.Vacated = &v
	}
	return s
}

// Grid returns the board geometry.
func (c *Controller) Grid() Grid { return c.grid }

// State reports whether the game is running or the board is full.
func (c *Controller) State() State { return c.state }

// Ticks counts the ticks that advanced the game.
func (c *Controller) Ticks() uint64 { return c.tick }

// Actor exposes the snake; it must not be mutated outside Tick.
func (c *Controller) Actor() *Actor { return c.actor }

// Target exposes the apple; it must not be mutated outside Tick.
func (c *Controller) Target() *Target { return c.target }

// Export copies the full core state for persistence.
func (c *Controller) Export() structs.GameState {
	return structs.GameState{
		Actor:     c.actor.state(),
		Target:    c.target.Position(),
		Tick:      c.tick,
		BoardFull: c.state == StateBoardFull,
	}
}

// Restore rebuilds a Controller from an exported state.
func Restore(grid Grid, gs structs.GameState, opts ...Option) (*Controller, error) {
	if err := validate(grid, gs); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	a := &Actor{
		grid:     grid,
		rng:      o.rng,
		segments: append([]structs.Cell(nil), gs.Actor.Segments...),
		length:   gs.Actor.Length,
		heading:  gs.Actor.Heading,
	}
	if gs.Actor.Pending != nil {
		a.pending, a.hasPending = *gs.Actor.Pending, true
	}
	if gs.Actor.Vacated != nil {
		a.vacated, a.hasVacated = *gs.Actor.Vacated, true
	}

	c := &Controller{
		grid:   grid,
		actor:  a,
		target: &Target{grid: grid, rng: o.rng, position: gs.Target},
		tick:   gs.Tick,
	}
	if gs.BoardFull {
		c.state = StateBoardFull
	}
	return c, nil
}

func validate(grid Grid, gs structs.GameState) error {
	as := gs.Actor
	if len(as.Segments) == 0 {
		return fmt.Errorf("%w: actor has no segments", ErrInvalidState)
	}
	if as.Length < 1 || len(as.Segments) > as.Length {
		return fmt.Errorf("%w: %d segments with length %d", ErrInvalidState, len(as.Segments), as.Length)
	}
	if !as.Heading.Valid() {
		return fmt.Errorf("%w: heading %v", ErrInvalidState, as.Heading)
	}
	if as.Pending != nil && !as.Pending.Valid() {
		return fmt.Errorf("%w: pending heading %v", ErrInvalidState, *as.Pending)
	}
	for i, s := range as.Segments {
		if !grid.Aligned(s) {
			return fmt.Errorf("%w: segment %d at %v is off the grid", ErrInvalidState, i, s)
		}
	}
	if as.Vacated != nil && !grid.Aligned(*as.Vacated) {
		return fmt.Errorf("%w: vacated cell %v is off the grid", ErrInvalidState, *as.Vacated)
	}
	if !grid.Aligned(gs.Target) {
		return fmt.Errorf("%w: target %v is off the grid", ErrInvalidState, gs.Target)
	}
	if gs.BoardFull {
		return nil
	}
	for _, s := range as.Segments {
		if s == gs.Target {
			return fmt.Errorf("%w: target %v overlaps the actor", ErrInvalidState, gs.Target)
		}
	}
	return nil
}
