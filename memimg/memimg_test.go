package memimg

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadScalesToCellSize(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "head.png"), 64)
	writePNG(t, filepath.Join(dir, "body.png"), 8)
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a sprite"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewSprites(20)
	if err := s.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range []string{SpriteHead, SpriteBody} {
		img, ok := s.Get(name)
		if !ok {
			t.Fatalf("sprite %q missing", name)
		}
		if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
			t.Errorf("sprite %q is %dx%d, want 20x20", name, b.Dx(), b.Dy())
		}
	}
	if _, ok := s.Get("README"); ok {
		t.Error("non-image files must be skipped")
	}
}

func TestLoadReportsBrokenImage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "apple.png"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewSprites(20).Load(dir); err == nil {
		t.Error("expected a decode error")
	}
}

func TestWatchPicksUpNewSprites(t *testing.T) {
	dir := t.TempDir()
	s := NewSprites(10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Watch(ctx, dir); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writePNG(t, filepath.Join(dir, "apple.png"), 30)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if img, ok := s.Get(SpriteTarget); ok {
			if b := img.Bounds(); b.Dx() != 10 {
				t.Errorf("reloaded sprite is %dx%d, want 10x10", b.Dx(), b.Dy())
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("apple sprite was not loaded by the watcher")
}
