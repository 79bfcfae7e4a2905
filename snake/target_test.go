package snake

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

func allCellsExcept(g Grid, keep structs.Cell) map[structs.Cell]struct{} {
	set := make(map[structs.Cell]struct{})
	for i := 0; i < g.CellCount(); i++ {
		if c := g.CellAt(i); c != keep {
			set[c] = struct{}{}
		}
	}
	return set
}

func TestRelocateFindsLastFreeCell(t *testing.T) {
	g := mustGrid(t, 4, 3, 20)
	free := structs.Cell{X: 60, Y: 20}
	forbidden := allCellsExcept(g, free)

	for seed := int64(0); seed < 20; seed++ {
		tg := &Target{grid: g, rng: rand.New(rand.NewSource(seed))}
		if err := tg.Relocate(forbidden); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if tg.Position() != free {
			t.Errorf("seed %d: position %v, want %v", seed, tg.Position(), free)
		}
	}
}

func TestRelocateBoardFull(t *testing.T) {
	g := mustGrid(t, 4, 3, 20)
	forbidden := allCellsExcept(g, structs.Cell{X: -1, Y: -1})

	tg := &Target{grid: g, rng: rand.New(rand.NewSource(3)), position: structs.Cell{X: 20, Y: 20}}
	err := tg.Relocate(forbidden)
	if !errors.Is(err, ErrBoardFull) {
		t.Fatalf("expected ErrBoardFull, got %v", err)
	}
	if tg.Position() != (structs.Cell{X: 20, Y: 20}) {
		t.Errorf("position moved to %v on failure", tg.Position())
	}
}

func TestRelocateNeverOverlaps(t *testing.T) {
	g := mustGrid(t, 32, 24, 20)
	rng := rand.New(rand.NewSource(42))

	forbidden := make(map[structs.Cell]struct{})
	for len(forbidden) < 300 {
		forbidden[g.RandomCell(rng)] = struct{}{}
	}

	tg := &Target{grid: g, rng: rng}
	for i := 0; i < 500; i++ {
		if err := tg.Relocate(forbidden); err != nil {
			t.Fatalf("relocate %d: %v", i, err)
		}
		if _, bad := forbidden[tg.Position()]; bad {
			t.Fatalf("relocate %d landed on forbidden cell %v", i, tg.Position())
		}
		if !g.Aligned(tg.Position()) {
			t.Fatalf("relocate %d produced off-grid cell %v", i, tg.Position())
		}
	}
}

func TestConsumedBy(t *testing.T) {
	tg := &Target{position: structs.Cell{X: 40, Y: 60}}
	if !tg.ConsumedBy(structs.Cell{X: 40, Y: 60}) {
		t.Error("head on target should consume it")
	}
	if tg.ConsumedBy(structs.Cell{X: 60, Y: 40}) {
		t.Error("head elsewhere should not consume the target")
	}
}
