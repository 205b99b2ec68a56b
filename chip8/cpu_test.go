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
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/afero"
)

// newTestProcessor returns a reset processor with a fixed seed and the
// given instruction words loaded at the program start address.
func newTestProcessor(t *testing.T, program ...uint16) *Processor {
	t.Helper()

	p := New(log.NewTestLogger(t))
	p.SetSeed(1)
	p.Reset()

	image := make([]byte, 0, len(program)*2)
	for _, word := range program {
		image = append(image, byte(word>>8), byte(word))
	}
	assert.NoError(t, p.Load(image))
	return p
}

// run executes n steps and fails the test on any error.
func run(t *testing.T, p *Processor, n int) Info {
	t.Helper()

	var info Info
	for range n {
		i, err := p.Step()
		assert.NoError(t, err)
		info |= i
	}
	return info
}

func TestReset(t *testing.T) {
	p := newTestProcessor(t, 0x6A42, 0x2300)
	run(t, p, 2)
	p.ClearDrawFlag()

	p.Reset()

	assert.Equal(t, ProgramStartAddress, p.ProgramCounter())
	assert.Equal(t, uint16(0), p.Index())
	assert.Equal(t, 0, p.StackDepth())
	assert.Equal(t, uint8(0), p.Register(0xA))
	assert.True(t, p.DrawFlag())
	assert.False(t, p.Waiting())
	assert.NoError(t, p.Halted())

	font := make([]byte, len(fontSet))
	assert.Equal(t, len(fontSet), p.Read(FontStartAddress, font))
	assert.Equal(t, fontSet, font)

	word := make([]byte, 2)
	p.Read(ProgramStartAddress, word)
	assert.Equal(t, []byte{0, 0}, word)
}

func TestResetKeepsSeed(t *testing.T) {
	p := newTestProcessor(t, 0xC0FF, 0xC1FF, 0xC2FF)
	run(t, p, 3)
	first := []uint8{p.Register(0), p.Register(1), p.Register(2)}

	p.Reset()
	assert.NoError(t, p.Load([]byte{0xC0, 0xFF, 0xC1, 0xFF, 0xC2, 0xFF}))
	run(t, p, 3)
	second := []uint8{p.Register(0), p.Register(1), p.Register(2)}

	assert.Equal(t, first, second)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "empty", size: 0},
		{name: "single byte", size: 1},
		{name: "fills memory", size: MaxProgramSize},
		{name: "one byte too many", size: MaxProgramSize + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(nil)
			image := make([]byte, tt.size)
			for i := range image {
				image[i] = byte(i) | 1
			}

			err := p.Load(image)
			if !tt.wantErr {
				assert.NoError(t, err)
				if tt.size > 0 {
					last := make([]byte, 1)
					p.Read(ProgramStartAddress+uint16(tt.size-1), last)
					assert.Equal(t, image[tt.size-1], last[0])
				}
				return
			}

			var loadErr *LoadError
			assert.True(t, errors.As(err, &loadErr))
			assert.True(t, errors.Is(err, ErrProgramTooLarge))
			assert.Equal(t, tt.size, loadErr.Size)
		})
	}
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/roms/pong.ch8", []byte{0x12, 0x00}, 0o644))
	assert.NoError(t, afero.WriteFile(fs, "/roms/huge.ch8", make([]byte, MaxProgramSize+1), 0o644))

	p := New(nil)
	assert.NoError(t, p.LoadFile(fs, "/roms/pong.ch8"))
	op, err := p.OpcodeAt(ProgramStartAddress)
	assert.NoError(t, err)
	assert.Equal(t, Opcode(0x1200), op)

	var loadErr *LoadError

	err = p.LoadFile(fs, "/roms/missing.ch8")
	assert.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "/roms/missing.ch8", loadErr.Path)

	err = p.LoadFile(fs, "/roms/huge.ch8")
	assert.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "/roms/huge.ch8", loadErr.Path)
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
}

func TestStepUnknownOpcode(t *testing.T) {
	for _, word := range []uint16{0x0123, 0x5121, 0x8128, 0x9123, 0xE1FF, 0xF1FF} {
		p := newTestProcessor(t, word)

		_, err := p.Step()

		var warning *DecodeWarning
		assert.True(t, errors.As(err, &warning), Opcode(word).String())
		assert.Equal(t, Opcode(word), warning.Opcode)
		assert.Equal(t, ProgramStartAddress, warning.Address)
		assert.Equal(t, ProgramStartAddress+2, p.ProgramCounter())
		assert.NoError(t, p.Halted())
	}
}

func TestStackFaults(t *testing.T) {
	t.Run("underflow", func(t *testing.T) {
		p := newTestProcessor(t, 0x00EE)

		_, err := p.Step()
		assert.True(t, errors.Is(err, ErrStackUnderflow))
		assert.Equal(t, ProgramStartAddress, p.ProgramCounter())

		_, again := p.Step()
		assert.Equal(t, err, again)
		assert.Equal(t, err, p.Halted())
	})

	t.Run("overflow", func(t *testing.T) {
		// 0x200 calls itself until the stack is exhausted
		p := newTestProcessor(t, 0x2200)
		run(t, p, StackSize)
		assert.Equal(t, StackSize, p.StackDepth())

		_, err := p.Step()
		var fault *Fault
		assert.True(t, errors.As(err, &fault))
		assert.Equal(t, StackOverflow, fault.Kind)
		assert.Equal(t, ProgramStartAddress, fault.Address)
		assert.Equal(t, Opcode(0x2200), fault.Opcode)
		assert.Equal(t, StackSize, p.StackDepth())
	})
}

func TestFetchOutOfRange(t *testing.T) {
	// jump to the last byte of memory, the second opcode byte is missing
	p := newTestProcessor(t, 0x1FFF)
	run(t, p, 1)

	_, err := p.Step()
	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, IndexOutOfRange, fault.Kind)
	assert.Equal(t, uint16(0xFFF), fault.Address)
	assert.Equal(t, 0x1000, fault.Target)
}

func TestKeyWait(t *testing.T) {
	p := newTestProcessor(t, 0xF50A, 0x6101)

	info, err := p.Step()
	assert.NoError(t, err)
	assert.True(t, info.Has(Waiting))
	assert.True(t, p.Waiting())
	pc := p.ProgramCounter()

	// without a key every step reports waiting and nothing moves
	for range 10 {
		info = run(t, p, 1)
		assert.True(t, info.Has(Waiting))
		assert.Equal(t, pc, p.ProgramCounter())
		assert.Equal(t, uint8(0), p.Register(1))
	}

	var keys [KeyCount]bool
	keys[0xB] = true
	keys[0xE] = true
	p.SetKeys(keys)

	info = run(t, p, 1)
	assert.False(t, info.Has(Waiting))
	assert.False(t, p.Waiting())
	assert.Equal(t, uint8(0xB), p.Register(5))
	assert.Equal(t, pc, p.ProgramCounter())

	run(t, p, 1)
	assert.Equal(t, uint8(1), p.Register(1))
}

func TestKeyWaitWithKeyDown(t *testing.T) {
	p := newTestProcessor(t, 0xF30A)

	var keys [KeyCount]bool
	keys[0x7] = true
	p.SetKeys(keys)

	info := run(t, p, 1)
	assert.False(t, info.Has(Waiting))
	assert.Equal(t, uint8(0x7), p.Register(3))
}

func TestTick(t *testing.T) {
	t.Run("sound expires with one beep", func(t *testing.T) {
		p := New(nil)
		p.sound.Set(1)

		info := p.Tick()
		assert.True(t, info.Has(Beep))
		assert.Equal(t, uint8(0), p.SoundTimer())

		info = p.Tick()
		assert.False(t, info.Has(Beep))
	})

	t.Run("idle sound stays silent", func(t *testing.T) {
		p := New(nil)

		info := p.Tick()
		assert.False(t, info.Has(Beep))
		assert.Equal(t, uint8(0), p.SoundTimer())
	})

	t.Run("delay counts to zero", func(t *testing.T) {
		p := New(nil)
		p.delay.Set(2)

		p.Tick()
		assert.Equal(t, uint8(1), p.DelayTimer())
		p.Tick()
		p.Tick()
		assert.Equal(t, uint8(0), p.DelayTimer())
	})

	t.Run("beep after several ticks", func(t *testing.T) {
		p := New(nil)
		p.sound.Set(3)

		beeps := 0
		for range 10 {
			if p.Tick().Has(Beep) {
				beeps++
			}
		}
		assert.Equal(t, 1, beeps)
	})
}

func TestCycleTimers(t *testing.T) {
	// V0 = 2, ST = V0, DT = V0, then jump in place
	p := newTestProcessor(t, 0x6002, 0xF018, 0xF015, 0x1206)
	p.SetCycleTimers(true)

	info := run(t, p, 2)
	assert.False(t, info.Has(Beep))
	assert.Equal(t, uint8(1), p.SoundTimer())

	info, err := p.Step()
	assert.NoError(t, err)
	assert.True(t, info.Has(Beep))
	assert.Equal(t, uint8(0), p.SoundTimer())
	assert.Equal(t, uint8(1), p.DelayTimer())
	assert.True(t, info.Has(Delay))
	assert.False(t, info.Has(Sound))

	run(t, p, 1)
	assert.Equal(t, uint8(0), p.DelayTimer())
}

func TestTimersIndependentOfStep(t *testing.T) {
	p := newTestProcessor(t, 0x6005, 0xF015, 0x1204)
	run(t, p, 5)
	assert.Equal(t, uint8(5), p.DelayTimer())

	p.Tick()
	assert.Equal(t, uint8(4), p.DelayTimer())
}
