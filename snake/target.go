package snake

import (
	"errors"
	"math/rand"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

// ErrBoardFull is returned when no free cell is left for the target.
var ErrBoardFull = errors.New("snake: board is full")

// maxSampleAttempts bounds rejection sampling before falling back to a scan.
const maxSampleAttempts = 100

// Target 是苹果
type Target struct {
	grid     Grid
	rng      *rand.Rand
	position structs.Cell
}

// NewTarget places a target on a random cell outside forbidden.
func NewTarget(grid Grid, rng *rand.Rand, forbidden map[structs.Cell]struct{}) (*Target, error) {
	t := &Target{grid: grid, rng: rng}
	if err := t.Relocate(forbidden); err != nil {
		return nil, err
	}
	return t, nil
}

// Relocate moves the target to a uniformly random cell not in forbidden.
// The position is left untouched when every cell is forbidden.
func (t *Target) Relocate(forbidden map[structs.Cell]struct{}) error {
	for attempts := 0; attempts < maxSampleAttempts; attempts++ {
		c := t.grid.RandomCell(t.rng)
		if _, taken := forbidden[c]; !taken {
			t.position = c
			return nil
		}
	}

	// 随机采样失败，枚举所有空格子
	free := make([]structs.Cell, 0, max(0, t.grid.CellCount()-len(forbidden)))
	for i := 0; i < t.grid.CellCount(); i++ {
		c := t.grid.CellAt(i)
		if _, taken := forbidden[c]; !taken {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return ErrBoardFull
	}
	t.position = free[t.rng.Intn(len(free))]
	return nil
}

// ConsumedBy reports whether head sits on the target.
func (t *Target) ConsumedBy(head structs.Cell) bool {
	return head == t.position
}

func (t *Target) Position() structs.Cell { return t.position }
