// Package fyneui is a desktop window frontend built on fyne.
package fyneui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"

	"emul8"
	"emul8/chip8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
)

var (
	foreground = color.White
	background = color.Black
)

// keyMap translates fyne key names to hex keys.
var keyMap = buildKeyMap()

func buildKeyMap() map[fyne.KeyName]uint8 {
	m := make(map[fyne.KeyName]uint8, len(emul8.KeyLayout))
	for r, key := range emul8.KeyLayout {
		m[fyne.KeyName(strings.ToUpper(string(r)))] = key
	}
	return m
}

// Window shows the framebuffer stretched over a resizable window.
type Window struct {
	emul8.KeyLatch

	title string
	scale int

	// back-buffer for the pixel data, only touched on the fyne goroutine
	buffer *image.RGBA
	image  *canvas.Image
}

func New(title string, scale int) *Window {
	return &Window{
		title:  title,
		scale:  scale,
		buffer: image.NewRGBA(image.Rect(0, 0, chip8.Width, chip8.Height)),
	}
}

func (w *Window) onKeyDown(k *fyne.KeyEvent) {
	if hex, ok := keyMap[k.Name]; ok {
		w.Press(hex)
	}
}

func (w *Window) onKeyUp(k *fyne.KeyEvent) {
	if hex, ok := keyMap[k.Name]; ok {
		w.Release(hex)
	}
}

// Render copies the frame and schedules the refresh on the fyne goroutine.
func (w *Window) Render(display []byte) error {
	var frame [chip8.Area]byte
	copy(frame[:], display)

	fyne.Do(func() {
		for i, val := range frame {
			x, y := i%chip8.Width, i/chip8.Width
			c := background
			if val == 1 {
				c = foreground
			}
			w.buffer.Set(x, y, c)
		}
		if w.image != nil {
			w.image.Refresh()
		}
	})
	return nil
}

// Run opens the window and blocks in the fyne event loop. loop runs on
// its own goroutine and the window closes when it returns.
func (w *Window) Run(ctx context.Context, loop func(context.Context) error) error {
	a := app.New()
	win := a.NewWindow(w.title)

	w.image = canvas.NewImageFromImage(w.buffer)
	w.image.FillMode = canvas.ImageFillStretch  // Scales the 64x32 grid to window size
	w.image.ScaleMode = canvas.ImageScalePixels // Maintains "pixelated" retro look

	canv, ok := win.Canvas().(desktop.Canvas)
	if !ok {
		return errors.New("emulator cannot be run on mobile")
	}
	canv.SetOnKeyDown(w.onKeyDown)
	canv.SetOnKeyUp(w.onKeyUp)
	win.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		if k.Name == fyne.KeyEscape {
			win.Close()
		}
	})

	win.SetContent(w.image)
	win.Resize(fyne.NewSize(float32(chip8.Width*w.scale), float32(chip8.Height*w.scale)))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var loopErr error
	var closed atomic.Bool

	wg.Go(func() {
		loopErr = loop(ctx)
		if !closed.Load() {
			// halted or interrupted while the window is still open
			fyne.Do(a.Quit)
		}
	})

	win.ShowAndRun()
	closed.Store(true)
	cancel()
	wg.Wait()

	return loopErr
}
