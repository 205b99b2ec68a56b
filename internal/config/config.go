// Package config contains the program options and the setup derived from
// them.
package config

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// Frontend names.
const (
	Fyne     = "fyne"
	Terminal = "term"
	SDL      = "sdl"
	Headless = "headless"
)

// Frontends lists the accepted frontend names.
var Frontends = []string{Fyne, Terminal, SDL, Headless}

const (
	DefaultScale = 10
	DefaultSpeed = 700
)

// Options of the emulator.
type Options struct {
	Input    string // program image to run
	Frontend string
	Scale    int // pixels per CHIP-8 pixel for window frontends
	Speed    int // instructions per second
	Wav      string
	Seed     uint64
	Frames   uint64 // stop after this many frames, 0 runs until interrupted

	Mute        bool
	Strict      bool
	CycleTimers bool
	Trace       bool
	StatsView   bool
	Debug       bool
	Quiet       bool
}

// Default returns the options used when no flags are given.
func Default() Options {
	return Options{
		Frontend: Fyne,
		Scale:    DefaultScale,
		Speed:    DefaultSpeed,
	}
}

// Normalize lower cases names and checks value ranges.
func (o *Options) Normalize() error {
	o.Frontend = strings.ToLower(strings.TrimSpace(o.Frontend))

	valid := false
	for _, name := range Frontends {
		if o.Frontend == name {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			o.Frontend, strings.Join(Frontends, ", "))
	}

	if o.Scale <= 0 {
		return fmt.Errorf("invalid scale %d, must be positive", o.Scale)
	}
	if o.Speed <= 0 {
		return fmt.Errorf("invalid speed %d, must be positive", o.Speed)
	}
	return nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
