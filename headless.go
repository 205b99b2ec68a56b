package emul8

import (
	"context"
	"strings"
	"sync"

	"emul8/chip8"
)

// Headless is a frontend without a window. It keeps the last rendered
// frame and takes its keys from the embedded latch.
type Headless struct {
	KeyLatch

	mu      sync.Mutex
	frame   [chip8.Area]byte
	renders int
}

func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Render(display []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	copy(h.frame[:], display)
	h.renders++
	return nil
}

// Run calls loop directly, there is no event loop to service.
func (h *Headless) Run(ctx context.Context, loop func(context.Context) error) error {
	return loop(ctx)
}

// Renders returns the number of Render calls.
func (h *Headless) Renders() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.renders
}

// Frame returns a copy of the last rendered frame.
func (h *Headless) Frame() [chip8.Area]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// String draws the last frame as text, '#' for lit pixels.
func (h *Headless) String() string {
	frame := h.Frame()

	var sb strings.Builder
	sb.Grow((chip8.Width + 1) * chip8.Height)
	for y := range chip8.Height {
		for x := range chip8.Width {
			if frame[y*chip8.Width+x] == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
