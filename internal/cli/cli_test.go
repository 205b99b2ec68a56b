package cli

import (
	"errors"
	"testing"

	"emul8/internal/config"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want config.Options
	}{
		{
			name: "default flags",
			args: []string{"pong.ch8"},
			want: config.Options{Input: "pong.ch8", Frontend: config.Fyne, Scale: 10, Speed: 700},
		},
		{
			name: "terminal frontend",
			args: []string{"-frontend", "term", "-speed", "1000", "pong.ch8"},
			want: config.Options{Input: "pong.ch8", Frontend: config.Terminal, Scale: 10, Speed: 1000},
		},
		{
			name: "recording muted",
			args: []string{"-wav", "out.wav", "-mute", "-seed", "7", "-strict", "tetris.ch8"},
			want: config.Options{
				Input: "tetris.ch8", Frontend: config.Fyne, Scale: 10, Speed: 700,
				Wav: "out.wav", Mute: true, Seed: 7, Strict: true,
			},
		},
		{
			name: "headless frame limit",
			args: []string{"-frontend", "headless", "-frames", "120", "test.ch8"},
			want: config.Options{Input: "test.ch8", Frontend: config.Headless, Scale: 10, Speed: 700, Frames: 120},
		},
		{
			name: "debugging",
			args: []string{"-trace", "-cycle-timers", "-statsview", "-debug", "-scale", "20", "game.ch8"},
			want: config.Options{
				Input: "game.ch8", Frontend: config.Fyne, Scale: 20, Speed: 700,
				Trace: true, CycleTimers: true, StatsView: true, Debug: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlags(tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{name: "no program", args: []string{}, usage: true},
		{name: "unknown flag", args: []string{"-fast", "pong.ch8"}, usage: true},
		{name: "flag after program", args: []string{"pong.ch8", "-q"}, usage: true},
		{name: "bad frontend", args: []string{"-frontend", "gtk", "pong.ch8"}},
		{name: "bad scale", args: []string{"-scale", "0", "pong.ch8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.usage, errors.As(err, &usageErr))
		})
	}
}
