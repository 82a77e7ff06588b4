// Package wavwriter records the CHIP-8 buzzer into a WAV file. Audio is written as
// 16 bit mono PCM, one frame worth of samples per emulated frame.
package wavwriter

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mnafees/chopper/v2/internal"
)

const (
	// SampleRate of the recorded audio in Hz
	SampleRate = 44100
	bitDepth   = 16
	amplitude  = 0x2000

	samplesPerFrame = SampleRate / internal.TimerFrequency
	halfPeriod      = SampleRate / (2 * internal.ToneFrequency)

	pcmFormat = 1
)

// Recorder implements internal.Tone and internal.FrameSink.
type Recorder struct {
	filename string
	file     *os.File
	enc      *wav.Encoder
	buf      *audio.IntBuffer

	on     bool
	phase  int
	frames int
}

// New creates the output file and returns a recorder writing into it
func New(filename string) (*Recorder, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("wavwriter: %w", err)
	}

	r := &Recorder{
		filename: filename,
		file:     f,
		enc:      wav.NewEncoder(f, SampleRate, bitDepth, 1, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
			Data:           make([]int, samplesPerFrame),
			SourceBitDepth: bitDepth,
		},
	}
	return r, nil
}

// Start implements internal.Tone.
func (r *Recorder) Start() {
	r.on = true
}

// Stop implements internal.Tone.
func (r *Recorder) Stop() {
	r.on = false
}

// EndFrame implements internal.FrameSink. It appends one frame of square wave
// or silence, depending on whether the tone is on.
func (r *Recorder) EndFrame() error {
	for i := range r.buf.Data {
		switch {
		case !r.on:
			r.buf.Data[i] = 0
		case (r.phase/halfPeriod)%2 == 0:
			r.buf.Data[i] = amplitude
		default:
			r.buf.Data[i] = -amplitude
		}
		r.phase++
	}
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("wavwriter: writing frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written so far
func (r *Recorder) Frames() int {
	return r.frames
}

// Close finishes the WAV headers and closes the file
func (r *Recorder) Close() (rerr error) {
	defer func() {
		if err := r.file.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	if r.frames == 0 {
		// the encoder only writes headers together with the first samples
		if err := r.EndFrame(); err != nil {
			return err
		}
	}
	if err := r.enc.Close(); err != nil {
		return fmt.Errorf("wavwriter: finishing %s: %w", r.filename, err)
	}
	return nil
}
