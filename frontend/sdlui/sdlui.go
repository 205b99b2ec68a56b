// Package sdlui is an SDL2 window frontend. All SDL calls are funnelled to
// the main thread through sdl.Do, so Run must be called from the main
// goroutine.
package sdlui

import (
	"context"
	"fmt"
	"sync"

	"emul8"
	"emul8/chip8"

	"github.com/veandco/go-sdl2/sdl"
)

// keyMap translates SDL key codes to hex keys.
var keyMap = buildKeyMap()

func buildKeyMap() map[sdl.Keycode]uint8 {
	m := make(map[sdl.Keycode]uint8, len(emul8.KeyLayout))
	for r, key := range emul8.KeyLayout {
		m[sdl.Keycode(r)] = key
	}
	return m
}

type Window struct {
	emul8.KeyLatch

	title string
	scale int

	mu       sync.Mutex
	window   *sdl.Window
	renderer *sdl.Renderer
	cancel   context.CancelFunc
}

func New(title string, scale int) *Window {
	return &Window{
		title: title,
		scale: scale,
	}
}

// Keys drains the SDL event queue before reporting the key levels.
func (w *Window) Keys() [chip8.KeyCount]bool {
	sdl.Do(w.pollEvents)
	return w.KeyLatch.Keys()
}

func (w *Window) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			w.quit()
		case *sdl.KeyboardEvent:
			w.processKey(ev)
		case *sdl.WindowEvent:
			if ev.Event == sdl.WINDOWEVENT_FOCUS_LOST {
				w.ReleaseAll()
			}
		}
	}
}

func (w *Window) processKey(ev *sdl.KeyboardEvent) {
	if ev.Keysym.Sym == sdl.K_ESCAPE {
		w.quit()
		return
	}

	key, ok := keyMap[ev.Keysym.Sym]
	if !ok {
		return
	}
	if ev.Type == sdl.KEYDOWN {
		w.Press(key)
	} else {
		w.Release(key)
	}
}

func (w *Window) quit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
}

// Render draws the frame on the main thread and presents it.
func (w *Window) Render(display []byte) error {
	var frame [chip8.Area]byte
	copy(frame[:], display)

	var err error
	sdl.Do(func() {
		err = w.draw(frame[:])
	})
	return err
}

func (w *Window) draw(frame []byte) error {
	r := w.renderer
	if r == nil {
		return nil
	}

	if err := r.SetDrawColor(0, 0, 0, 0xFF); err != nil {
		return fmt.Errorf("setting draw color: %w", err)
	}
	if err := r.Clear(); err != nil {
		return fmt.Errorf("clearing renderer: %w", err)
	}
	if err := r.SetDrawColor(0xFF, 0xFF, 0xFF, 0xFF); err != nil {
		return fmt.Errorf("setting draw color: %w", err)
	}

	// the logical size is the framebuffer size, SDL scales to the window
	for i, val := range frame {
		if val != 1 {
			continue
		}
		rect := sdl.Rect{X: int32(i % chip8.Width), Y: int32(i / chip8.Width), W: 1, H: 1}
		if err := r.FillRect(&rect); err != nil {
			return fmt.Errorf("drawing pixel: %w", err)
		}
	}
	r.Present()
	return nil
}

// Run opens the window and runs loop until it returns or the window is
// closed.
func (w *Window) Run(ctx context.Context, loop func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	var runErr error
	sdl.Main(func() {
		var err error
		sdl.Do(func() {
			err = w.open()
		})
		if err != nil {
			runErr = err
			return
		}
		defer sdl.Do(w.close)

		runErr = loop(ctx)
	})
	return runErr
}

func (w *Window) open() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initializing sdl: %w", err)
	}

	window, err := sdl.CreateWindow(w.title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(chip8.Width*w.scale), int32(chip8.Height*w.scale), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = window.Destroy()
		sdl.Quit()
		return fmt.Errorf("creating renderer: %w", err)
	}
	if err := renderer.SetLogicalSize(int32(chip8.Width), int32(chip8.Height)); err != nil {
		_ = renderer.Destroy()
		_ = window.Destroy()
		sdl.Quit()
		return fmt.Errorf("setting logical size: %w", err)
	}

	w.window = window
	w.renderer = renderer
	return nil
}

func (w *Window) close() {
	if w.renderer != nil {
		_ = w.renderer.Destroy()
		w.renderer = nil
	}
	if w.window != nil {
		_ = w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}
