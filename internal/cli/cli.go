// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"emul8/internal/config"
)

// ParseFlags parses the command line arguments, without the program name,
// into options.
func ParseFlags(args []string) (config.Options, error) {
	flags := flag.NewFlagSet("chip8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := config.Default()
	readOptionFlags(flags, &opts)

	err := flags.Parse(args)
	rest := flags.Args()
	if err != nil || len(rest) == 0 {
		msg := "missing program file"
		if err != nil {
			msg = err.Error()
		}
		return opts, &UsageError{flags: flags, msg: msg}
	}

	if err := validateArgs(rest); err != nil {
		return opts, err
	}
	opts.Input = rest[0]

	if err := opts.Normalize(); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8 [options] <program file>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks that the program file is the last argument
func validateArgs(args []string) error {
	if len(args) > 1 {
		return &UsageError{
			msg: fmt.Sprintf("unexpected argument %s found after program file, please pass options before the program file", args[1]),
		}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *config.Options) {
	flags.StringVar(&opts.Frontend, "frontend", opts.Frontend, "display frontend (fyne/term/sdl/headless)")
	flags.IntVar(&opts.Scale, "scale", opts.Scale, "window pixels per CHIP-8 pixel")
	flags.IntVar(&opts.Speed, "speed", opts.Speed, "instructions executed per second")
	flags.StringVar(&opts.Wav, "wav", "", "record beeps to the given .wav file")
	flags.Uint64Var(&opts.Seed, "seed", 0, "fixed seed for the random number instruction, 0 seeds from the clock")
	flags.Uint64Var(&opts.Frames, "frames", 0, "stop after the given number of 60hz frames, 0 runs until interrupted")
	flags.BoolVar(&opts.Mute, "mute", false, "do not play beeps on the audio device")
	flags.BoolVar(&opts.Strict, "strict", false, "halt on unknown opcodes instead of skipping them")
	flags.BoolVar(&opts.CycleTimers, "cycle-timers", false, "count timers down once per instruction instead of at 60hz")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.StatsView, "statsview", false, "serve runtime statistics on localhost")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
