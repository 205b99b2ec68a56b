package emul8

import (
	"context"
	"errors"
	"fmt"
	"time"

	"emul8/chip8"

	"github.com/retroenv/retrogolib/log"
)

const (
	DefaultSpeed int = int(time.Second / chip8.ClockRate) // instructions per second
	FrameRate    int = int(time.Second / chip8.TimerRate) // host ticks per second
)

// Screen is the render collaborator. display holds chip8.Area cells of 0 or
// 1, row major, and must not be retained after Render returns.
type Screen interface {
	Render(display []byte) error
}

// Keypad is the input collaborator, polled once per frame.
type Keypad interface {
	Keys() [chip8.KeyCount]bool
}

// Frontend is a windowing toolkit. Run owns the toolkit's event loop and
// calls loop with a context that is cancelled when the user closes the
// frontend.
type Frontend interface {
	Screen
	Keypad
	Run(ctx context.Context, loop func(context.Context) error) error
}

// Speaker is the audio collaborator. Beep is called once for every expiry of
// the sound timer.
type Speaker interface {
	Beep()
	Close() error
}

// FrameSink is implemented by speakers that need to know when a frame ended.
type FrameSink interface {
	EndFrame()
}

type Options struct {
	Speed       int    // instructions per second
	Strict      bool   // halt on unknown opcodes
	CycleTimers bool   // count timers down once per instruction
	MaxFrames   uint64 // stop Run after this many frames, 0 runs until cancelled
}

// Emulator drives one machine at FrameRate: each frame latches the keys,
// runs a frame's worth of instructions, counts the timers down and hands
// beeps and redraws to the collaborators.
type Emulator struct {
	cpu     *chip8.Processor
	screen  Screen
	keypad  Keypad
	speaker Speaker
	logger  *log.Logger

	opts           Options
	cyclesPerFrame int
	frames         uint64
	beeps          uint64
}

// New wires a machine to its collaborators. A nil speaker discards beeps
// and a nil logger discards all log output.
func New(cpu *chip8.Processor, frontend Frontend, speaker Speaker, logger *log.Logger, opts Options) *Emulator {
	if opts.Speed <= 0 {
		opts.Speed = DefaultSpeed
	}
	if speaker == nil {
		speaker = Silence{}
	}

	cpu.SetCycleTimers(opts.CycleTimers)

	return &Emulator{
		cpu:            cpu,
		screen:         frontend,
		keypad:         frontend,
		speaker:        speaker,
		logger:         logger,
		opts:           opts,
		cyclesPerFrame: max(1, opts.Speed/FrameRate),
	}
}

// Frames returns the number of completed frames.
func (e *Emulator) Frames() uint64 {
	return e.frames
}

// Beeps returns the number of beeps handed to the speaker.
func (e *Emulator) Beeps() uint64 {
	return e.beeps
}

// beep hands one sound timer expiry to the speaker.
func (e *Emulator) beep() {
	e.beeps++
	e.speaker.Beep()
}

// Frame runs one host tick. Execution stops early for the frame when the
// machine waits for a key. A fault is returned and the machine stays
// halted; unknown opcodes are logged and skipped unless Strict is set.
func (e *Emulator) Frame() error {
	e.cpu.SetKeys(e.keypad.Keys())

	for range e.cyclesPerFrame {
		info, err := e.cpu.Step()
		if info.Has(chip8.Beep) {
			e.beep()
		}

		if err != nil {
			var warning *chip8.DecodeWarning
			if errors.As(err, &warning) && !e.opts.Strict {
				e.logger.Warn("Skipping unknown opcode",
					log.Hex("address", warning.Address),
					log.Hex("opcode", uint16(warning.Opcode)))
				continue
			}

			e.logger.Error("Emulation halted",
				log.Hex("pc", e.cpu.ProgramCounter()),
				log.Err(err))
			return err
		}

		if info.Has(chip8.Waiting) {
			break
		}
	}

	if !e.opts.CycleTimers && e.cpu.Tick().Has(chip8.Beep) {
		e.beep()
	}
	if sink, ok := e.speaker.(FrameSink); ok {
		sink.EndFrame()
	}

	if e.cpu.DrawFlag() {
		if err := e.screen.Render(e.cpu.Display()); err != nil {
			return fmt.Errorf("rendering frame: %w", err)
		}
		e.cpu.ClearDrawFlag()
	}

	e.frames++
	return nil
}

// Run calls Frame at FrameRate until ctx is done, the machine halts or
// MaxFrames frames have run.
func (e *Emulator) Run(ctx context.Context) error {
	e.logger.Debug("Starting emulation",
		log.Int("speed", e.opts.Speed),
		log.Int("cycles_per_frame", e.cyclesPerFrame))

	ticker := time.NewTicker(chip8.TimerRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("Emulation stopped", log.Int("frames", int(e.frames)))
			return nil
		case <-ticker.C:
			if err := e.Frame(); err != nil {
				return err
			}
			if e.opts.MaxFrames > 0 && e.frames >= e.opts.MaxFrames {
				e.logger.Debug("Frame limit reached", log.Int("frames", int(e.frames)))
				return nil
			}
		}
	}
}
