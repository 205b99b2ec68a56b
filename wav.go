package emul8

import (
	"fmt"

	"emul8/chip8"

	"github.com/go-audio/audio"
	"github.com/go-audio/generator"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const (
	wavBitDepth  = 16
	wavAmplitude = 0x3FFF
	wavPCM       = 1
)

// WavRecorder captures beeps against the frame clock and writes them as a
// mono WAV file on Close. Audio is buffered in memory until then. Frames
// whose tone could not be generated are recorded as silence and the
// failure is returned by Close.
type WavRecorder struct {
	fs   afero.Fs
	path string

	samplesPerFrame int
	beepFrames      int
	remaining       int

	tone   filler
	frame  *audio.FloatBuffer
	output *audio.IntBuffer

	// first tone generation failure, reported by Close
	err error
}

// filler produces tone samples, *generator.Osc in practice.
type filler interface {
	Fill(buf *audio.FloatBuffer) error
}

func NewWavRecorder(fs afero.Fs, path string) *WavRecorder {
	samplesPerFrame := format.SampleRate / FrameRate

	osc := generator.NewOsc(generator.WaveSine, note, format.SampleRate)
	osc.Amplitude = 1

	return &WavRecorder{
		fs:              fs,
		path:            path,
		samplesPerFrame: samplesPerFrame,
		beepFrames:      max(1, int(BeepDuration/chip8.TimerRate)),
		tone:            osc,
		frame: &audio.FloatBuffer{
			Data:   make([]float64, samplesPerFrame),
			Format: format,
		},
		output: &audio.IntBuffer{
			Format:         format,
			SourceBitDepth: wavBitDepth,
		},
	}
}

func (r *WavRecorder) Beep() {
	r.remaining = r.beepFrames
}

// EndFrame appends one frame of tone or silence.
func (r *WavRecorder) EndFrame() {
	if r.remaining == 0 {
		r.output.Data = append(r.output.Data, make([]int, r.samplesPerFrame)...)
		return
	}
	r.remaining--

	if err := r.tone.Fill(r.frame); err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("generating tone: %w", err)
		}
		r.output.Data = append(r.output.Data, make([]int, r.samplesPerFrame)...)
		return
	}
	for _, v := range r.frame.Data {
		r.output.Data = append(r.output.Data, int(v*wavAmplitude))
	}
}

// Samples returns the number of recorded samples.
func (r *WavRecorder) Samples() int {
	return len(r.output.Data)
}

func (r *WavRecorder) Close() (rerr error) {
	f, err := r.fs.Create(r.path)
	if err != nil {
		return fmt.Errorf("wavrecorder: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wavrecorder: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, format.SampleRate, wavBitDepth, format.NumChannels, wavPCM)
	if err := enc.Write(r.output); err != nil {
		return fmt.Errorf("wavrecorder: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavrecorder: %w", err)
	}
	if r.err != nil {
		return fmt.Errorf("wavrecorder: %w", r.err)
	}
	return nil
}
