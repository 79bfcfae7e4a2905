package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/gridsnake/snake"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// 终端字符约为1:2, 每格占两列
const cellColumns = 2

var (
	styleBoard  = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleBody   = tcell.StyleDefault.Background(tcell.ColorGreen)
	styleHead   = tcell.StyleDefault.Background(tcell.ColorLime)
	styleTarget = tcell.StyleDefault.Background(tcell.ColorRed)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// view draws snapshots onto a tcell screen. It only repaints what changed
// unless the snapshot asks for a reset.
type view struct {
	screen tcell.Screen
	grid   snake.Grid
	drawn  bool
}

func newView(screen tcell.Screen, grid snake.Grid) *view {
	return &view{screen: screen, grid: grid}
}

func (v *view) fill(c structs.Cell, style tcell.Style) {
	x := c.X / v.grid.CellSize() * cellColumns
	y := c.Y / v.grid.CellSize()
	for i := 0; i < cellColumns; i++ {
		v.screen.SetContent(x+i, y, ' ', nil, style)
	}
}

func (v *view) clear() {
	v.screen.Clear()
	for y := 0; y < v.grid.Height(); y++ {
		for x := 0; x < v.grid.Width()*cellColumns; x++ {
			v.screen.SetContent(x, y, ' ', nil, styleBoard)
		}
	}
}

func (v *view) status(snap structs.RenderSnapshot) {
	line := fmt.Sprintf("length %-4d tick %-8d arrows/wasd move, q quits", snap.Length, snap.Tick)
	y := v.grid.Height()
	for x := 0; x < v.grid.Width()*cellColumns; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		v.screen.SetContent(x, y, r, nil, styleStatus)
	}
}

// Draw is a snake.DrawFunc.
func (v *view) Draw(snap structs.RenderSnapshot) error {
	if snap.Reset || !v.drawn {
		v.clear()
		v.drawn = true
	}
	if snap.Vacated != nil {
		v.fill(*snap.Vacated, styleBoard)
	}
	v.fill(snap.Target, styleTarget)
	for i, c := range snap.Segments {
		style := styleBody
		if i == 0 {
			style = styleHead
		}
		v.fill(c, style)
	}
	v.status(snap)
	v.screen.Show()
	return nil
}
