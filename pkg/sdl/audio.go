package sdl

import (
	"github.com/mnafees/chopper/v2/internal"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleFreq   = 44100
	bufferLength = 512
	volume       = 0x20

	// keep at most this many frames of sound queued so the buzzer does not
	// lag behind the sound timer
	maxQueuedFrames = 3
)

// Audio plays the CHIP-8 buzzer as a square wave. It implements
// internal.Tone and internal.FrameSink.
type Audio struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	buffer  []uint8 // one frame of samples
	phase   int
	playing bool
}

// NewAudio opens the default audio device. SDL must have been initialised
// with audio support.
func NewAudio() (*Audio, error) {
	spec := &sdl.AudioSpec{
		Freq:     sampleFreq,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  uint16(bufferLength),
	}

	var err error
	var actualSpec sdl.AudioSpec

	aud := &Audio{}
	aud.id, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return nil, err
	}
	aud.spec = actualSpec
	aud.buffer = make([]uint8, int(aud.spec.Freq)/internal.TimerFrequency)

	// device starts paused
	sdl.PauseAudioDevice(aud.id, true)
	return aud, nil
}

// Start implements internal.Tone.
func (aud *Audio) Start() {
	if aud.playing {
		return
	}
	aud.playing = true
	sdl.PauseAudioDevice(aud.id, false)
}

// Stop implements internal.Tone.
func (aud *Audio) Stop() {
	if !aud.playing {
		return
	}
	aud.playing = false
	sdl.PauseAudioDevice(aud.id, true)
	sdl.ClearQueuedAudio(aud.id)
}

// EndFrame implements internal.FrameSink. While the buzzer is on it queues
// another frame of the square wave.
func (aud *Audio) EndFrame() error {
	if !aud.playing {
		return nil
	}
	if sdl.GetQueuedAudioSize(aud.id) > uint32(maxQueuedFrames*len(aud.buffer)) {
		return nil
	}

	halfPeriod := int(aud.spec.Freq) / (2 * internal.ToneFrequency)
	for i := range aud.buffer {
		if (aud.phase/halfPeriod)%2 == 0 {
			aud.buffer[i] = aud.spec.Silence + volume
		} else {
			aud.buffer[i] = aud.spec.Silence - volume
		}
		aud.phase++
	}
	return sdl.QueueAudio(aud.id, aud.buffer)
}

// Close releases the audio device
func (aud *Audio) Close() {
	sdl.CloseAudioDevice(aud.id)
}
