package snake

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

// ErrBadGeometry is wrapped by NewGrid for non-positive or oversized dimensions.
var ErrBadGeometry = errors.New("snake: bad grid geometry")

// Grid 描述地图的几何信息，构造后不可变。
type Grid struct {
	width    int // 格数
	height   int // 格数
	cellSize int // 像素
}

// NewGrid validates the geometry and returns a Grid.
func NewGrid(width, height, cellSize int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("%w: grid must be at least 1x1 cells, got %dx%d", ErrBadGeometry, width, height)
	}
	if cellSize <= 0 {
		return Grid{}, fmt.Errorf("%w: cell size must be positive, got %d", ErrBadGeometry, cellSize)
	}
	// 格子数和像素尺寸都必须能用int表示
	if width > math.MaxInt/height || width > math.MaxInt/cellSize || height > math.MaxInt/cellSize {
		return Grid{}, fmt.Errorf("%w: %dx%d cells of %dpx overflow int", ErrBadGeometry, width, height, cellSize)
	}
	return Grid{width: width, height: height, cellSize: cellSize}, nil
}

// Width is the board width in cells.
func (g Grid) Width() int { return g.width }

// Height is the board height in cells.
func (g Grid) Height() int { return g.height }

// CellSize is the side of one cell in pixels.
func (g Grid) CellSize() int { return g.cellSize }

// PixelWidth is the x extent used for wrapping.
func (g Grid) PixelWidth() int { return g.width * g.cellSize }

// PixelHeight is the y extent used for wrapping.
func (g Grid) PixelHeight() int { return g.height * g.cellSize }

// CellCount is the number of cells on the board.
func (g Grid) CellCount() int { return g.width * g.height }

// Wrap maps coordinate into [0, axisExtent) using mathematical modulo.
func Wrap(coordinate, axisExtent int) int {
	m := coordinate % axisExtent
	if m < 0 {
		m += axisExtent
	}
	return m
}

// WrapCell 处理新位置可能超出边界的情况
func (g Grid) WrapCell(c structs.Cell) structs.Cell {
	return structs.Cell{
		X: Wrap(c.X, g.PixelWidth()),
		Y: Wrap(c.Y, g.PixelHeight()),
	}
}

// Step returns the wrapped neighbour of c one cell away in direction d.
func (g Grid) Step(c structs.Cell, d structs.Direction) structs.Cell {
	return g.WrapCell(structs.Cell{
		X: c.X + d.DX*g.cellSize,
		Y: c.Y + d.DY*g.cellSize,
	})
}

// Center returns the cell the actor starts from and resets to.
func (g Grid) Center() structs.Cell {
	return structs.Cell{
		X: g.width / 2 * g.cellSize,
		Y: g.height / 2 * g.cellSize,
	}
}

// Contains reports whether c lies inside the board.
func (g Grid) Contains(c structs.Cell) bool {
	return c.X >= 0 && c.X < g.PixelWidth() && c.Y >= 0 && c.Y < g.PixelHeight()
}

// Aligned reports whether c is inside the board and on the cell lattice.
func (g Grid) Aligned(c structs.Cell) bool {
	return g.Contains(c) && c.X%g.cellSize == 0 && c.Y%g.cellSize == 0
}

// CellAt enumerates cells row by row; index must be in [0, CellCount()).
func (g Grid) CellAt(index int) structs.Cell {
	return structs.Cell{
		X: index % g.width * g.cellSize,
		Y: index / g.width * g.cellSize,
	}
}

// RandomCell samples a cell uniformly.
func (g Grid) RandomCell(rng *rand.Rand) structs.Cell {
	return g.CellAt(rng.Intn(g.CellCount()))
}
