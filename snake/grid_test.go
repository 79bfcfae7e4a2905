package snake

import (
	"errors"
	"math"
	"testing"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

func mustGrid(t *testing.T, w, h, size int) Grid {
	t.Helper()
	g, err := NewGrid(w, h, size)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d, %d): %v", w, h, size, err)
	}
	return g
}

func TestWrap(t *testing.T) {
	tests := []struct {
		coord, extent, want int
	}{
		{5, 10, 5},
		{0, 10, 0},
		{10, 10, 0},
		{25, 10, 5},
		{-1, 10, 9},
		{-10, 10, 0},
		{-11, 10, 9},
		{-20, 640, 620},
	}
	for _, tc := range tests {
		if got := Wrap(tc.coord, tc.extent); got != tc.want {
			t.Errorf("Wrap(%d, %d) = %d, want %d", tc.coord, tc.extent, got, tc.want)
		}
	}
}

func TestStepWrapsEveryEdge(t *testing.T) {
	g := mustGrid(t, 32, 24, 20)

	tests := []struct {
		name string
		from structs.Cell
		dir  structs.Direction
		want structs.Cell
	}{
		{"right edge", structs.Cell{X: 620, Y: 100}, structs.Right, structs.Cell{X: 0, Y: 100}},
		{"left edge", structs.Cell{X: 0, Y: 100}, structs.Left, structs.Cell{X: 620, Y: 100}},
		{"top edge", structs.Cell{X: 100, Y: 0}, structs.Up, structs.Cell{X: 100, Y: 460}},
		{"bottom edge", structs.Cell{X: 100, Y: 460}, structs.Down, structs.Cell{X: 100, Y: 0}},
		{"interior", structs.Cell{X: 100, Y: 100}, structs.Right, structs.Cell{X: 120, Y: 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := g.Step(tc.from, tc.dir)
			if got != tc.want {
				t.Errorf("Step(%v, %v) = %v, want %v", tc.from, tc.dir, got, tc.want)
			}
			if !g.Aligned(got) {
				t.Errorf("Step result %v is not an aligned in-grid cell", got)
			}
		})
	}
}

func TestGridCenter(t *testing.T) {
	g := mustGrid(t, 32, 24, 20)
	if c := g.Center(); c != (structs.Cell{X: 320, Y: 240}) {
		t.Errorf("Center() = %v, want (320,240)", c)
	}

	odd := mustGrid(t, 5, 3, 10)
	if c := odd.Center(); c != (structs.Cell{X: 20, Y: 10}) || !odd.Aligned(c) {
		t.Errorf("Center() of 5x3 = %v, want aligned (20,10)", c)
	}
}

func TestNewGridRejectsBadGeometry(t *testing.T) {
	for _, tc := range [][3]int{
		{0, 10, 20}, {10, -1, 20}, {10, 10, 0},
		{math.MaxInt/2 + 1, 2, 1}, // 格子数溢出
		{2, 2, math.MaxInt},       // 像素宽度溢出
		{1, math.MaxInt / 2, 3},   // 像素高度溢出
	} {
		if _, err := NewGrid(tc[0], tc[1], tc[2]); !errors.Is(err, ErrBadGeometry) {
			t.Errorf("NewGrid(%v) = %v, want ErrBadGeometry", tc, err)
		}
	}
}

func TestCellAtEnumeratesBoard(t *testing.T) {
	g := mustGrid(t, 4, 3, 20)
	seen := make(map[structs.Cell]bool)
	for i := 0; i < g.CellCount(); i++ {
		c := g.CellAt(i)
		if !g.Aligned(c) {
			t.Fatalf("CellAt(%d) = %v is not aligned", i, c)
		}
		seen[c] = true
	}
	if len(seen) != 12 {
		t.Errorf("expected 12 distinct cells, got %d", len(seen))
	}
}

func TestAligned(t *testing.T) {
	g := mustGrid(t, 4, 3, 20)
	cases := map[structs.Cell]bool{
		{X: 0, Y: 0}:   true,
		{X: 60, Y: 40}: true,
		{X: 80, Y: 0}:  false,
		{X: 0, Y: 60}:  false,
		{X: 10, Y: 0}:  false,
		{X: -20, Y: 0}: false,
	}
	for c, want := range cases {
		if got := g.Aligned(c); got != want {
			t.Errorf("Aligned(%v) = %v, want %v", c, got, want)
		}
	}
}
