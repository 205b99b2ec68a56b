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

// Package chip8 implements the CHIP-8 virtual machine: memory, registers,
// call stack, timers, input latch, framebuffer and the instruction
// decoder/executor. The machine is a single owned value with no global
// state; one call to Step executes exactly one instruction.
package chip8

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	MemorySize          int    = 4096
	RegisterCount       int    = 16
	KeyCount            int    = 16
	StackSize           int    = 16
	FontStartAddress    uint16 = 0x000
	ProgramStartAddress uint16 = 0x200
	LastAddress         uint16 = 0xFFF
	CarryFlag           uint8  = 0xF

	// MaxProgramSize is the number of bytes between the program start and
	// the end of memory.
	MaxProgramSize int = int(LastAddress-ProgramStartAddress) + 1

	TimerRate time.Duration = time.Second / 60  // 60hz
	ClockRate time.Duration = time.Second / 700 // 700hz
)

// Info describes what happened during a Step or Tick.
type Info uint8

const (
	Delay Info = 1 << iota
	Sound
	Redraw
	Beep
	Waiting
)

// Has reports whether all bits of flag are set.
func (i Info) Has(flag Info) bool {
	return i&flag == flag
}

type Processor struct {
	memory  [MemorySize]byte
	v       [RegisterCount]byte
	keys    keypad
	display [Area]byte
	stack   [StackSize]uint16
	sp      uint8
	pc      uint16
	i       uint16
	delay   countdown
	sound   countdown
	redraw  bool

	// set while FX0A has found no pressed key; waitX is the target register
	waiting bool
	waitX   uint8

	fault *Fault

	rng         *rand.Rand
	seed        uint64
	cycleTimers bool
	trace       bool
	logger      *log.Logger
}

// New returns a reset processor. logger may be nil, in which case no trace
// output is produced.
func New(logger *log.Logger) *Processor {
	p := &Processor{logger: logger}
	p.Reset()
	return p
}

// SetSeed fixes the seed of the random source used by CXNN. A seed of zero
// selects a time based seed. The seed is applied on the next Reset.
func (p *Processor) SetSeed(seed uint64) {
	p.seed = seed
}

// SetCycleTimers couples the timers to the instruction stream: both timers
// count down once after every Step instead of waiting for an external Tick.
func (p *Processor) SetCycleTimers(enabled bool) {
	p.cycleTimers = enabled
}

// SetTrace enables a debug log line for every executed instruction.
func (p *Processor) SetTrace(enabled bool) {
	p.trace = enabled
}

// Reset clears memory, registers, stack, timers, keys and the framebuffer,
// installs the font set, sets the redraw flag and reseeds the random
// source. Configuration set through the Set* methods survives.
func (p *Processor) Reset() {
	*p = Processor{
		seed:        p.seed,
		cycleTimers: p.cycleTimers,
		trace:       p.trace,
		logger:      p.logger,
	}

	p.pc = ProgramStartAddress
	p.redraw = true

	seed := p.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	p.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))

	written := p.Write(FontStartAddress, fontSet)
	if written < len(fontSet) {
		panic("insufficient memory to write font set")
	}
}

// Write copies data into memory starting at loc and returns the number of
// bytes written. Writing stops at the end of memory.
func (p *Processor) Write(loc uint16, data []byte) int {
	if int(loc) >= MemorySize {
		return 0
	}
	return copy(p.memory[loc:], data)
}

// Read copies memory starting at loc into data and returns the number of
// bytes read. Reading stops at the end of memory.
func (p *Processor) Read(loc uint16, data []byte) int {
	if int(loc) >= MemorySize {
		return 0
	}
	return copy(data, p.memory[loc:])
}

func (p *Processor) Display() []byte {
	return p.display[:]
}

// DrawFlag reports whether the framebuffer changed since the consumer last
// called ClearDrawFlag.
func (p *Processor) DrawFlag() bool {
	return p.redraw
}

func (p *Processor) ClearDrawFlag() {
	p.redraw = false
}

// SetKeys overwrites the whole input latch. Index is the hex key 0x0-0xF.
func (p *Processor) SetKeys(keys [KeyCount]bool) {
	p.keys = keys
}

func (p *Processor) Register(v uint8) uint8 {
	return p.v[v&0xF]
}

func (p *Processor) StackDepth() int {
	return int(p.sp)
}

func (p *Processor) Index() uint16 {
	return p.i
}

func (p *Processor) ProgramCounter() uint16 {
	return p.pc
}

func (p *Processor) DelayTimer() uint8 {
	return p.delay.Value()
}

func (p *Processor) SoundTimer() uint8 {
	return p.sound.Value()
}

// Waiting reports whether the machine is blocked in FX0A.
func (p *Processor) Waiting() bool {
	return p.waiting
}

// Halted returns the fault that stopped the machine, or nil.
func (p *Processor) Halted() error {
	if p.fault == nil {
		return nil
	}
	return p.fault
}

// OpcodeAt returns the big-endian instruction word at offset.
func (p *Processor) OpcodeAt(offset uint16) (Opcode, error) {
	if int(offset)+1 > int(LastAddress) {
		return 0, newFault(IndexOutOfRange, int(offset)+1)
	}

	// opcode is a 16bit value, comprised of two contiguous 8bit values
	// in memory, starting at the program counter
	high := uint16(p.memory[offset])  // high-order bits of opcode
	low := uint16(p.memory[offset+1]) // low-order bits of opcode
	return Opcode((high << 8) | low), nil
}

// Step executes one instruction, or re-polls the input latch when the
// machine is waiting for a key. A *DecodeWarning is returned for unknown
// opcodes, which execute as no-ops. A *Fault halts the machine: the
// faulting instruction has no effect and every further Step returns the
// same fault until Reset.
func (p *Processor) Step() (Info, error) {
	if p.fault != nil {
		return 0, p.fault
	}

	var info Info
	var err error

	if p.waiting {
		p.resolveKeyWait(&info)
	} else {
		err = p.cycle(&info)
	}

	var fault *Fault
	if errors.As(err, &fault) {
		p.fault = fault
		return info, fault
	}

	if p.cycleTimers {
		info |= p.Tick()
	}

	if p.sound.Value() > 0 {
		info |= Sound
	}

	if p.delay.Value() > 0 {
		info |= Delay
	}
	return info, err
}

func (p *Processor) cycle(info *Info) error {
	address := p.pc

	opcode, err := p.OpcodeAt(address)
	if err != nil {
		var fault *Fault
		if errors.As(err, &fault) {
			fault.Address = address
		}
		return err
	}

	if p.trace && p.logger != nil {
		p.logger.Debug("Executing",
			log.Hex("address", address),
			log.Hex("opcode", uint16(opcode)),
			log.String("instruction", opcode.String()))
	}

	p.pc += 2

	err = p.Execute(opcode, info)
	if err == nil {
		return nil
	}

	var fault *Fault
	if errors.As(err, &fault) {
		// operands are validated before any mutation, so rewinding the
		// program counter restores the pre-instruction state
		p.pc = address
		fault.Address = address
		fault.Opcode = opcode
		return fault
	}

	var warning *DecodeWarning
	if errors.As(err, &warning) {
		warning.Address = address
	}
	return err
}

// Tick counts both timers down by one. Beep is reported when the sound
// timer moves from 1 to 0.
func (p *Processor) Tick() Info {
	var info Info

	p.delay.Dec()
	if p.sound.Dec() {
		info |= Beep
	}
	return info
}
