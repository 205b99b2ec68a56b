/*
 * Copyright 2026 Joshua Jones <joshua.jones.software@gmail.com>
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      www.apache.org
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// litPixels counts the lit cells of the framebuffer.
func litPixels(p *Processor) int {
	n := 0
	for _, cell := range p.Display() {
		if cell == 1 {
			n++
		}
	}
	return n
}

func TestClearThenBlankSprite(t *testing.T) {
	// I points at zeroed program memory past the code
	p := newTestProcessor(t, 0x00E0, 0xA300, 0x6010, 0x6108, 0xD01F)
	p.display[5] = 1

	info := run(t, p, 5)
	assert.True(t, info.Has(Redraw))
	assert.Equal(t, 0, litPixels(p))
	assert.Equal(t, uint8(0), p.Register(0xF))
}

func TestDrawGlyph(t *testing.T) {
	// draw the "0" glyph at (2, 3)
	p := newTestProcessor(t, 0x6000, 0xF029, 0x6102, 0x6203, 0xD125)
	p.ClearDrawFlag()

	info := run(t, p, 5)
	assert.True(t, info.Has(Redraw))
	assert.True(t, p.DrawFlag())
	assert.Equal(t, uint8(0), p.Register(0xF))

	// 0xF0 top row
	for x := 2; x < 6; x++ {
		assert.True(t, p.Pixel(x, 3))
	}
	assert.False(t, p.Pixel(6, 3))
	// 0x90 second row
	assert.True(t, p.Pixel(2, 4))
	assert.False(t, p.Pixel(3, 4))
	assert.False(t, p.Pixel(4, 4))
	assert.True(t, p.Pixel(5, 4))
	assert.Equal(t, 14, litPixels(p))
}

func TestDrawTwiceRestores(t *testing.T) {
	p := newTestProcessor(t, 0x6008, 0xF029, 0x610A, 0x6207, 0xD125, 0xD125)
	p.display[0] = 1
	p.display[Area-1] = 1
	before := p.display

	run(t, p, 5)
	assert.Equal(t, uint8(0), p.Register(0xF))
	drawn := litPixels(p)
	assert.True(t, drawn > 2)

	run(t, p, 1)
	assert.Equal(t, uint8(1), p.Register(0xF))
	assert.Equal(t, before, p.display)
}

func TestDrawCollisionFlag(t *testing.T) {
	// a 1 pixel sprite row 0x80 drawn on top of a lit pixel
	p := newTestProcessor(t, 0xA300, 0x6004, 0xD001)
	p.memory[0x300] = 0x80
	p.display[4*Width+4] = 1

	run(t, p, 3)
	assert.Equal(t, uint8(1), p.Register(0xF))
	assert.False(t, p.Pixel(4, 4))
}

func TestDrawFlagOverridesCoordinateRegister(t *testing.T) {
	// VF is both the x coordinate and the collision flag
	p := newTestProcessor(t, 0xA300, 0x6F05, 0x6100, 0xDF11)
	p.memory[0x300] = 0x80

	run(t, p, 4)
	assert.True(t, p.Pixel(5, 0))
	assert.Equal(t, uint8(0), p.Register(0xF))
}

func TestDrawClipsAtEdges(t *testing.T) {
	p := newTestProcessor(t, 0xA300, 0x603C, 0x611E, 0xD014)
	for row := range 4 {
		p.memory[0x300+row] = 0xFF
	}

	run(t, p, 4)

	// columns 60..63 and rows 30..31 are on screen, the rest is dropped
	assert.Equal(t, 8, litPixels(p))
	assert.True(t, p.Pixel(63, 31))
	assert.False(t, p.Pixel(0, 30))
	assert.False(t, p.Pixel(60, 0))
}

func TestDrawOffScreenStart(t *testing.T) {
	tests := []struct {
		name string
		x, y uint8
	}{
		{name: "right of screen", x: 70, y: 0},
		{name: "below screen", x: 0, y: 33},
		{name: "one past both edges", x: 64, y: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// glyph "0" at (x, y)
			p := newTestProcessor(t, 0xA000, 0x6000|uint16(tt.x), 0x6100|uint16(tt.y), 0xD015)

			info := run(t, p, 4)
			assert.Equal(t, 0, litPixels(p))
			assert.Equal(t, uint8(0), p.Register(CarryFlag))
			assert.True(t, info.Has(Redraw))
		})
	}
}

func TestPixelOutside(t *testing.T) {
	p := newTestProcessor(t)
	for i := range p.display {
		p.display[i] = 1
	}

	assert.False(t, p.Pixel(-1, 0))
	assert.False(t, p.Pixel(Width, 0))
	assert.False(t, p.Pixel(0, Height))
	assert.True(t, p.Pixel(Width-1, Height-1))
}
