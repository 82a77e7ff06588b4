package internal

// ToneFrequency is the pitch of the CHIP-8 buzzer in Hz.
const ToneFrequency = 440

// Tone is the buzzer driven by the sound timer. Start and Stop must be
// idempotent.
type Tone interface {
	Start()
	Stop()
}

// FrameSink is implemented by tone devices that generate audio per emulated
// frame. EndFrame is called once per frame after Start/Stop were applied.
type FrameSink interface {
	EndFrame() error
}

// Tones fans Start and Stop out to several devices.
type Tones []Tone

// Start implements Tone.
func (t Tones) Start() {
	for _, tone := range t {
		tone.Start()
	}
}

// Stop implements Tone.
func (t Tones) Stop() {
	for _, tone := range t {
		tone.Stop()
	}
}

// EndFrame implements FrameSink for every device that supports it.
func (t Tones) EndFrame() error {
	for _, tone := range t {
		if sink, ok := tone.(FrameSink); ok {
			if err := sink.EndFrame(); err != nil {
				return err
			}
		}
	}
	return nil
}

type silence struct{}

func (silence) Start() {}
func (silence) Stop()  {}
