package snake

import (
	"math/rand"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

// Actor 是蛇：蛇头在 segments[0]，长度增长是延迟生效的。
type Actor struct {
	grid     Grid
	rng      *rand.Rand
	segments []structs.Cell
	length   int
	heading  structs.Direction

	pending    structs.Direction
	hasPending bool

	vacated    structs.Cell
	hasVacated bool
}

// NewActor places a length-1 actor at the grid center with a random heading.
func NewActor(grid Grid, rng *rand.Rand) *Actor {
	a := &Actor{grid: grid, rng: rng}
	a.SoftReset()
	return a
}

// SetPendingDirection buffers d for the next Advance. Non-canonical directions
// and reversals of a body longer than one segment are ignored.
func (a *Actor) SetPendingDirection(d structs.Direction) bool {
	if !a.CanTurn(d) {
		return false
	}
	a.pending = d
	a.hasPending = true
	return true
}

// CanTurn reports whether SetPendingDirection(d) would be accepted now.
func (a *Actor) CanTurn(d structs.Direction) bool {
	return d.Valid() && (d != a.heading.Opposite() || a.length == 1)
}

// Advance moves the actor exactly one cell.
func (a *Actor) Advance() {
	if a.hasPending {
		a.heading = a.pending
		a.hasPending = false
	}

	newHead := a.grid.Step(a.segments[0], a.heading)

	a.segments = append(a.segments, structs.Cell{})
	copy(a.segments[1:], a.segments)
	a.segments[0] = newHead

	if len(a.segments) > a.length {
		last := len(a.segments) - 1
		a.vacated = a.segments[last]
		a.hasVacated = true
		a.segments = a.segments[:last]
	} else {
		a.hasVacated = false
	}
}

// Grow raises the target length by one; the body catches up on later moves.
func (a *Actor) Grow() {
	a.length++
}

// CheckSelfCollision 检查头部是否与身体的其他部分重叠
func (a *Actor) CheckSelfCollision() bool {
	head := a.segments[0]
	for _, bodyPart := range a.segments[1:] {
		if bodyPart == head {
			return true
		}
	}
	return false
}

// SoftReset 蛇回到中心，长度为1，随机选择一个方向
func (a *Actor) SoftReset() {
	a.length = 1
	a.segments = []structs.Cell{a.grid.Center()}
	a.heading = structs.Directions[a.rng.Intn(len(structs.Directions))]
	a.hasPending = false
	a.hasVacated = false
}

func (a *Actor) Head() structs.Cell { return a.segments[0] }
func (a *Actor) Length() int { return a.length }
func (a *Actor) Heading() structs.Direction { return a.heading }

// Pending returns the buffered direction, if any.
func (a *Actor) Pending() (structs.Direction, bool) {
	return a.pending, a.hasPending
}

// LastVacated returns the tail cell dropped by the latest Advance, if any.
func (a *Actor) LastVacated() (structs.Cell, bool) {
	return a.vacated, a.hasVacated
}

// Segments returns a copy of the body, head first.
func (a *Actor) Segments() []structs.Cell {
	out := make([]structs.Cell, len(a.segments))
	copy(out, a.segments)
	return out
}

// Occupied returns the body as a set.
func (a *Actor) Occupied() map[structs.Cell]struct{} {
	set := make(map[structs.Cell]struct{}, len(a.segments))
	for _, c := range a.segments {
		set[c] = struct{}{}
	}
	return set
}

func (a *Actor) state() structs.ActorState {
	s := structs.ActorState{
		Segments: a.Segments(),
		Length:   a.length,
		Heading:  a.heading,
	}
	if a.hasPending {
		p := a.pending
		s.Pending = &p
	}
	if a.hasVacated {
		v := a.vacated
		s.Vacated = &v
	}
	return s
}
