package emul8

import (
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/generator"
	"github.com/gordonklaus/portaudio"
	"github.com/retroenv/retrogolib/log"
)

const (
	bufferSize int     = 512
	note       float64 = 440.0

	// BeepDuration is how long a single sound timer expiry is audible.
	BeepDuration time.Duration = time.Second / 10
)

var (
	format = audio.FormatMono44100
)

// Tone plays a sine wave on the default output device for every beep.
// Beeps arriving while the tone is playing extend it.
type Tone struct {
	logger   *log.Logger
	duration time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	beeping bool
	until   time.Time
}

// NewTone initializes portaudio. Close must be called to release it.
func NewTone(logger *log.Logger, duration time.Duration) (*Tone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	if duration <= 0 {
		duration = BeepDuration
	}
	return &Tone{
		logger:   logger,
		duration: duration,
	}, nil
}

func (b *Tone) Beep() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.until = time.Now().Add(b.duration)
	if b.beeping {
		return
	}
	b.beeping = true

	b.wg.Go(b.play)
}

// sounding reports whether the current beep has time left, and marks the
// tone as stopped once it has not.
func (b *Tone) sounding() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if time.Now().Before(b.until) {
		return true
	}
	b.beeping = false
	return false
}

func (b *Tone) play() {
	buffer := &audio.FloatBuffer{
		Data:   make([]float64, bufferSize),
		Format: format,
	}

	osc := generator.NewOsc(generator.WaveSine, note, buffer.Format.SampleRate)
	osc.Amplitude = 1

	out := make([]float32, bufferSize)

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(format.SampleRate), len(out), &out)
	if err != nil {
		b.logger.Error("Opening audio stream failed", log.Err(err))
		b.stop()
		return
	}
	defer func() {
		_ = stream.Close()
	}()

	if err := stream.Start(); err != nil {
		b.logger.Error("Starting audio stream failed", log.Err(err))
		b.stop()
		return
	}
	defer func() {
		_ = stream.Stop()
	}()

	for b.sounding() {
		if err := osc.Fill(buffer); err != nil {
			b.logger.Error("Filling audio buffer failed", log.Err(err))
		}

		f64Tof32(out, buffer.Data)

		if err := stream.Write(); err != nil {
			b.logger.Error("Writing to audio stream failed", log.Err(err))
		}
	}
}

func (b *Tone) stop() {
	b.mu.Lock()
	b.beeping = false
	b.until = time.Time{}
	b.mu.Unlock()
}

// Close stops a playing tone and terminates portaudio.
func (b *Tone) Close() error {
	b.stop()
	b.wg.Wait()
	return portaudio.Terminate()
}

func f64Tof32(dst []float32, src []float64) {
	for i := range src {
		dst[i] = float32(src[i])
	}
}
