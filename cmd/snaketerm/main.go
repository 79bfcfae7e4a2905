// Command snaketerm plays one game in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/gridsnake/config"
	"github.com/hoshinonyaruko/gridsnake/snake"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// keyDirection maps arrows and WASD to a direction.
func keyDirection(key tcell.Key, r rune) (structs.Direction, bool) {
	switch key {
	case tcell.KeyUp:
		return structs.Up, true
	case tcell.KeyDown:
		return structs.Down, true
	case tcell.KeyLeft:
		return structs.Left, true
	case tcell.KeyRight:
		return structs.Right, true
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			return structs.Up, true
		case 's', 'S':
			return structs.Down, true
		case 'a', 'A':
			return structs.Left, true
		case 'd', 'D':
			return structs.Right, true
		}
	}
	return structs.Direction{}, false
}

func isQuit(key tcell.Key, r rune) bool {
	return key == tcell.KeyEscape || key == tcell.KeyCtrlC || (key == tcell.KeyRune && (r == 'q' || r == 'Q'))
}

// pollInput forwards key presses to ctrl until the user quits or the screen
// is finalized.
func pollInput(screen tcell.Screen, ctrl *snake.Controller, quit context.CancelFunc) {
	defer quit()
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			if isQuit(ev.Key(), ev.Rune()) {
				return
			}
			if d, ok := keyDirection(ev.Key(), ev.Rune()); ok {
				ctrl.PushDirection(d)
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

func main() {
	configPath := flag.String("config", "./config.json", "path of config.json")
	seed := flag.Int64("seed", 0, "random seed, 0 seeds from the clock")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	grid, err := snake.NewGrid(cfg.GridWidth, cfg.GridHeight, cfg.Blocksize)
	if err != nil {
		log.Fatalf("Invalid board: %v", err)
	}
	var opts []snake.Option
	if *seed != 0 {
		opts = append(opts, snake.WithSeed(*seed))
	}
	ctrl, err := snake.NewController(grid, opts...)
	if err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to open terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to init terminal: %v", err)
	}
	if w, h := screen.Size(); w < grid.Width()*cellColumns || h < grid.Height()+1 {
		screen.Fini()
		log.Fatalf("Terminal is %dx%d, the board needs %dx%d", w, h, grid.Width()*cellColumns, grid.Height()+1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pollInput(screen, ctrl, cancel)

	v := newView(screen, grid)
	v.Draw(ctrl.Snapshot())

	ticker := time.NewTicker(cfg.TickInterval())
	err = snake.Drive(ctx, ticker.C, ctrl, v.Draw)
	ticker.Stop()

	if errors.Is(err, snake.ErrBoardFull) {
		// 停留在最后一帧, 等待退出键
		<-ctx.Done()
	}
	screen.Fini()

	switch {
	case errors.Is(err, snake.ErrBoardFull):
		log.Printf("Board full after %d ticks", ctrl.Ticks())
	case err != nil && !errors.Is(err, context.Canceled):
		log.Fatalf("Game stopped: %v", err)
	default:
		log.Printf("Quit at tick %d, length %d", ctrl.Ticks(), ctrl.Actor().Length())
	}
}
