// Package term renders the machine into a terminal using tcell.
package term

import (
	"context"
	"fmt"
	"sync"
	"time"

	"emul8"
	"emul8/chip8"

	"github.com/gdamore/tcell"
)

// HoldTime is how long a key stays down after its last key event.
// Terminals report presses and auto-repeat but never releases.
const HoldTime = 150 * time.Millisecond

var (
	lit  = tcell.ColorWhite
	dark = tcell.ColorBlack
)

// Terminal draws two framebuffer rows per text row with half blocks.
type Terminal struct {
	mu      sync.Mutex
	pressed [chip8.KeyCount]time.Time
	now     func() time.Time

	screen tcell.Screen
}

func New() *Terminal {
	return &Terminal{now: time.Now}
}

func (t *Terminal) press(key uint8) {
	t.mu.Lock()
	t.pressed[key&0xF] = t.now()
	t.mu.Unlock()
}

// Keys reports every key seen within HoldTime.
func (t *Terminal) Keys() [chip8.KeyCount]bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	var keys [chip8.KeyCount]bool
	now := t.now()
	for i, at := range t.pressed {
		keys[i] = !at.IsZero() && now.Sub(at) < HoldTime
	}
	return keys
}

// Render needs Run to have set up the screen first.
func (t *Terminal) Render(display []byte) error {
	t.mu.Lock()
	s := t.screen
	t.mu.Unlock()
	if s == nil {
		return nil
	}

	for y := 0; y < chip8.Height; y += 2 {
		for x := range chip8.Width {
			top := color(display[y*chip8.Width+x])
			bottom := color(display[(y+1)*chip8.Width+x])
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			s.SetContent(x, y/2, '▀', nil, style)
		}
	}
	s.Show()
	return nil
}

func color(pixel byte) tcell.Color {
	if pixel == 1 {
		return lit
	}
	return dark
}

// Run takes over the terminal until loop returns or Escape or Ctrl-C is
// pressed.
func (t *Terminal) Run(ctx context.Context, loop func(context.Context) error) error {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("initializing terminal screen: %w", err)
	}
	s.HideCursor()
	s.DisableMouse()
	s.Clear()

	t.mu.Lock()
	t.screen = s
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Go(func() {
		t.pollEvents(s, cancel)
	})

	loopErr := loop(ctx)
	cancel()

	t.mu.Lock()
	t.screen = nil
	t.mu.Unlock()

	// Fini makes PollEvent return nil which ends the event goroutine
	s.Fini()
	wg.Wait()
	return loopErr
}

func (t *Terminal) pollEvents(s tcell.Screen, cancel context.CancelFunc) {
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				cancel()
			case tcell.KeyRune:
				if key, ok := emul8.KeyLayout[ev.Rune()]; ok {
					t.press(key)
				}
			}
		case *tcell.EventResize:
			s.Sync()
		}
	}
}
