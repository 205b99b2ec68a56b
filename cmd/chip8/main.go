// Package main runs a CHIP-8 program in a window, a terminal or headless.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"emul8"
	"emul8/chip8"
	"emul8/frontend/fyneui"
	"emul8/frontend/sdlui"
	"emul8/frontend/term"
	"emul8/internal/cli"
	"emul8/internal/config"
	"emul8/internal/statsview"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/afero"
)

const title = "Chip-8 Emulator"

func init() {
	// window toolkits need the event loop on the main thread
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			logger.Error(usageErr.Error())
			usageErr.ShowUsage()
		} else {
			logger.Error("Invalid options", log.Err(err))
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug || opts.Trace, opts.Quiet)
	if err := run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Emulation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, opts config.Options) error {
	if opts.StatsView {
		stop := statsview.Launch(logger)
		defer stop()
	}

	fs := afero.NewOsFs()

	cpu := chip8.New(logger)
	cpu.SetSeed(opts.Seed)
	cpu.SetTrace(opts.Trace)
	cpu.Reset()
	if err := cpu.LoadFile(fs, opts.Input); err != nil {
		return err
	}
	logger.Info("Program loaded", log.String("file", opts.Input))

	speaker, err := createSpeaker(logger, fs, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := speaker.Close(); err != nil {
			logger.Error("Closing audio output failed", log.Err(err))
		}
	}()

	var headless *emul8.Headless
	var frontend emul8.Frontend
	switch opts.Frontend {
	case config.Terminal:
		frontend = term.New()
	case config.SDL:
		frontend = sdlui.New(title, opts.Scale)
	case config.Headless:
		headless = emul8.NewHeadless()
		frontend = headless
	default:
		frontend = fyneui.New(title, opts.Scale)
	}

	emu := emul8.New(cpu, frontend, speaker, logger, emul8.Options{
		Speed:       opts.Speed,
		Strict:      opts.Strict,
		CycleTimers: opts.CycleTimers,
		MaxFrames:   opts.Frames,
	})

	err = frontend.Run(ctx, emu.Run)
	logger.Debug("Emulation stopped",
		log.Int("frames", int(emu.Frames())),
		log.Int("beeps", int(emu.Beeps())))

	if headless != nil {
		fmt.Print(headless.String())
	}
	return err
}

// createSpeaker combines the audio device and the wav recorder as
// requested by the options.
func createSpeaker(logger *log.Logger, fs afero.Fs, opts config.Options) (emul8.Speaker, error) {
	var speakers emul8.Speakers

	if !opts.Mute && opts.Frontend != config.Headless {
		tone, err := emul8.NewTone(logger, emul8.BeepDuration)
		if err != nil {
			// a missing audio device is not fatal
			logger.Warn("Audio output unavailable", log.Err(err))
		} else {
			speakers = append(speakers, tone)
		}
	}

	if opts.Wav != "" {
		speakers = append(speakers, emul8.NewWavRecorder(fs, opts.Wav))
	}

	if len(speakers) == 0 {
		return emul8.Silence{}, nil
	}
	return speakers, nil
}
