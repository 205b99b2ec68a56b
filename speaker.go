package emul8

import (
	"errors"
)

// Silence discards beeps.
type Silence struct{}

func (Silence) Beep() {}

func (Silence) Close() error {
	return nil
}

// Speakers fans beeps and frame ends out to several speakers.
type Speakers []Speaker

func (s Speakers) Beep() {
	for _, speaker := range s {
		speaker.Beep()
	}
}

func (s Speakers) EndFrame() {
	for _, speaker := range s {
		if sink, ok := speaker.(FrameSink); ok {
			sink.EndFrame()
		}
	}
}

func (s Speakers) Close() error {
	var errs []error
	for _, speaker := range s {
		if err := speaker.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
