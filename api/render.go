package api

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/gridsnake/memimg"
	"github.com/hoshinonyaruko/gridsnake/snake"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// 背景缓存, 按画布尺寸
var backgroundCache sync.Map

func backgroundFor(width, height, blockSize int) image.Image {
	cacheKey := fmt.Sprintf("%d_%d_%d", width, height, blockSize)
	if cached, ok := backgroundCache.Load(cacheKey); ok {
		return cached.(image.Image)
	}
	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	renderGrid(dc, width, height, blockSize)
	img := dc.Image()
	backgroundCache.Store(cacheKey, img)
	return img
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetRGB(0.15, 0.15, 0.15)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

// drawCell draws the named sprite at c, or a bordered square when the
// sprite is not loaded.
func drawCell(dc *gg.Context, sprites *memimg.Sprites, name string, c structs.Cell, blockSize int, r, g, b float64) {
	if sprites != nil {
		if img, ok := sprites.Get(name); ok {
			dc.DrawImage(img, c.X, c.Y)
			return
		}
	}
	x, y, size := float64(c.X), float64(c.Y), float64(blockSize)
	dc.SetRGB(r, g, b)
	dc.DrawRectangle(x, y, size, size)
	dc.Fill()
	dc.SetRGB255(93, 216, 228)
	dc.DrawRectangle(x+0.5, y+0.5, size-1, size-1)
	dc.Stroke()
}

// RenderSnapshot draws a full frame of snap on grid.
func RenderSnapshot(snap structs.RenderSnapshot, grid snake.Grid, sprites *memimg.Sprites) image.Image {
	width, height, blockSize := grid.PixelWidth(), grid.PixelHeight(), grid.CellSize()

	dc := gg.NewContext(width, height)
	dc.DrawImage(backgroundFor(width, height, blockSize), 0, 0)
	dc.SetLineWidth(1)

	drawCell(dc, sprites, memimg.SpriteTarget, snap.Target, blockSize, 1, 0, 0)
	// 从尾到头, 头在最上层
	for i := len(snap.Segments) - 1; i >= 0; i-- {
		name := memimg.SpriteBody
		if i == 0 {
			name = memimg.SpriteHead
		}
		drawCell(dc, sprites, name, snap.Segments[i], blockSize, 0, 1, 0)
	}
	return dc.Image()
}

// renderImageAndSave 渲染地图并保存为图片
func renderImageAndSave(snap structs.RenderSnapshot, grid snake.Grid, sprites *memimg.Sprites, fileName string) error {
	img := RenderSnapshot(snap, grid, sprites)
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return err
	}
	return gg.SavePNG(fileName, img)
}
