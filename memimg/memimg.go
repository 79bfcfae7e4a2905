// Package memimg keeps the sprites used to draw snapshots in memory,
// pre-scaled to the cell size.
package memimg

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// Sprite names looked up by the renderer.
const (
	SpriteHead   = "head"
	SpriteBody   = "body"
	SpriteTarget = "apple"
)

// Sprites is a cell-sized image cache keyed by file name without extension.
type Sprites struct {
	cellSize int
	mu       sync.RWMutex
	images   map[string]image.Image
}

func NewSprites(cellSize int) *Sprites {
	return &Sprites{cellSize: cellSize, images: make(map[string]image.Image)}
}

func isSprite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

func spriteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load walks directory and caches every image in it.
func (s *Sprites) Load(directory string) error {
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSprite(path) {
			return nil
		}
		return s.loadFile(path)
	})
}

func (s *Sprites) loadFile(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("load sprite %s: %w", path, err)
	}
	// 缩放图像到格子大小
	scaled := imaging.Resize(img, s.cellSize, s.cellSize, imaging.Lanczos)

	s.mu.Lock()
	s.images[spriteName(path)] = scaled
	s.mu.Unlock()
	return nil
}

// Get returns the cached sprite for name.
func (s *Sprites) Get(name string) (image.Image, bool) {
	s.mu.RLock()
	img, ok := s.images[name]
	s.mu.RUnlock()
	return img, ok
}

// Watch reloads sprites written or created in directory until ctx is done.
// It returns once the watcher is registered.
func (s *Sprites) Watch(ctx context.Context, directory string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(directory); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", directory, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isSprite(event.Name) {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					// 文件可能还没写完，下一次Write事件会再加载
					if err := s.loadFile(event.Name); err != nil {
						log.Printf("sprite reload skipped: %v", err)
					}
				}
				if event.Op&fsnotify.Remove == fsnotify.Remove {
					s.mu.Lock()
					delete(s.images, spriteName(event.Name))
					s.mu.Unlock()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("sprite watcher error: %v", err)
			}
		}
	}()
	return nil
}
