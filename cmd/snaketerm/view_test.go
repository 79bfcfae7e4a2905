package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/gridsnake/snake"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want structs.Direction
		ok   bool
	}{
		{tcell.KeyUp, 0, structs.Up, true},
		{tcell.KeyDown, 0, structs.Down, true},
		{tcell.KeyLeft, 0, structs.Left, true},
		{tcell.KeyRight, 0, structs.Right, true},
		{tcell.KeyRune, 'w', structs.Up, true},
		{tcell.KeyRune, 'A', structs.Left, true},
		{tcell.KeyRune, 's', structs.Down, true},
		{tcell.KeyRune, 'd', structs.Right, true},
		{tcell.KeyRune, 'x', structs.Direction{}, false},
		{tcell.KeyEnter, 0, structs.Direction{}, false},
	}
	for _, tt := range tests {
		got, ok := keyDirection(tt.key, tt.r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("keyDirection(%v, %q) = %v, %v; want %v, %v", tt.key, tt.r, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsQuit(t *testing.T) {
	for _, k := range []struct {
		key tcell.Key
		r   rune
	}{{tcell.KeyEscape, 0}, {tcell.KeyCtrlC, 0}, {tcell.KeyRune, 'q'}} {
		if !isQuit(k.key, k.r) {
			t.Errorf("isQuit(%v, %q) = false", k.key, k.r)
		}
	}
	if isQuit(tcell.KeyRune, 'w') || isQuit(tcell.KeyUp, 0) {
		t.Error("movement keys must not quit")
	}
}

func newSimView(t *testing.T) (*view, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(20, 6)
	grid, err := snake.NewGrid(8, 5, 20)
	if err != nil {
		t.Fatal(err)
	}
	return newView(screen, grid), screen
}

func background(t *testing.T, screen tcell.Screen, x, y int) tcell.Color {
	t.Helper()
	_, _, style, _ := screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestViewDrawsCellsTwoColumnsWide(t *testing.T) {
	v, screen := newSimView(t)
	v.Draw(structs.RenderSnapshot{
		Segments: []structs.Cell{{X: 40, Y: 20}, {X: 20, Y: 20}},
		Target:   structs.Cell{X: 140, Y: 80},
		Length:   2,
	})

	checks := []struct {
		x, y int
		want tcell.Color
	}{
		{4, 1, tcell.ColorLime}, {5, 1, tcell.ColorLime},
		{2, 1, tcell.ColorGreen}, {3, 1, tcell.ColorGreen},
		{14, 4, tcell.ColorRed}, {15, 4, tcell.ColorRed},
		{0, 0, tcell.ColorBlack},
	}
	for _, c := range checks {
		if got := background(t, screen, c.x, c.y); got != c.want {
			t.Errorf("column %d row %d: background %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestViewErasesVacatedCell(t *testing.T) {
	v, screen := newSimView(t)
	v.Draw(structs.RenderSnapshot{Segments: []structs.Cell{{X: 20, Y: 20}}, Target: structs.Cell{X: 0, Y: 0}, Length: 1})

	vacated := structs.Cell{X: 20, Y: 20}
	v.Draw(structs.RenderSnapshot{Segments: []structs.Cell{{X: 40, Y: 20}}, Vacated: &vacated, Target: structs.Cell{X: 0, Y: 0}, Length: 1, Tick: 1})

	if got := background(t, screen, 2, 1); got != tcell.ColorBlack {
		t.Errorf("vacated cell still painted %v", got)
	}
	if got := background(t, screen, 4, 1); got != tcell.ColorLime {
		t.Errorf("new head not painted: %v", got)
	}
}

func TestViewClearsOnReset(t *testing.T) {
	v, screen := newSimView(t)
	v.Draw(structs.RenderSnapshot{
		Segments: []structs.Cell{{X: 60, Y: 60}, {X: 40, Y: 60}, {X: 20, Y: 60}},
		Target:   structs.Cell{X: 0, Y: 0},
		Length:   3,
	})
	v.Draw(structs.RenderSnapshot{
		Segments: []structs.Cell{{X: 80, Y: 40}},
		Target:   structs.Cell{X: 100, Y: 20},
		Length:   1,
		Reset:    true,
	})

	for _, x := range []int{2, 4, 6} {
		if got := background(t, screen, x, 3); got != tcell.ColorBlack {
			t.Errorf("old body at column %d survived reset: %v", x, got)
		}
	}
	if got := background(t, screen, 0, 0); got != tcell.ColorBlack {
		t.Errorf("old target survived reset: %v", got)
	}
	if got := background(t, screen, 8, 2); got != tcell.ColorLime {
		t.Errorf("reset head not painted: %v", got)
	}
}
