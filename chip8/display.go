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

const (
	Width  int = 64
	Height int = 32
	Area   int = Width * Height

	// sprite rows are one byte wide, most significant bit leftmost
	spriteWidth int = 8
)

// Pixel reports whether the framebuffer cell at x, y is lit. Coordinates
// outside the screen are never lit.
func (p *Processor) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return p.display[y*Width+x] == 1
}

func (p *Processor) markRedraw(info *Info) {
	p.redraw = true
	*info |= Redraw
}

// drawSprite XORs the n byte sprite at I onto the framebuffer at (VX, VY).
// Pixels outside the screen are clipped, so a start position past the
// right or bottom edge draws nothing. VF is set when a lit pixel is turned
// off.
func (p *Processor) drawSprite(x, y, n uint8, info *Info) error {
	if err := checkRange(p.i, int(n)); err != nil {
		return err
	}

	startX := int(p.v[x])
	startY := int(p.v[y])

	var collision uint8

	for row := 0; row < int(n); row++ {
		py := startY + row
		if py >= Height {
			break
		}

		line := p.memory[int(p.i)+row]

		for col := 0; col < spriteWidth; col++ {
			px := startX + col
			if px >= Width {
				break
			}

			if line&(0x80>>col) == 0 {
				continue
			}

			cell := &p.display[py*Width+px]
			if *cell == 1 {
				collision = 1
			}
			*cell ^= 1
		}
	}

	p.v[CarryFlag] = collision
	p.markRedraw(info)
	return nil
}
