package internal

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// DefaultCyclesPerFrame is the number of instructions executed per 60 Hz frame.
const DefaultCyclesPerFrame = 10

// Frontend is the host side of a Machine: it turns user input into key
// events and paints the screen.
type Frontend interface {
	// PollEvents forwards pending input to the machine. It returns false when
	// the user asked to quit.
	PollEvents(m *Machine) bool
	// Paint draws the current screen contents.
	Paint(fb *FrameBuffer) error
}

// MachineConfig configures a Machine.
type MachineConfig struct {
	CyclesPerFrame int         // instructions per frame, DefaultCyclesPerFrame when 0
	Tone           Tone        // buzzer, silent when nil
	Logger         *log.Logger // required
	Rand           *rand.Rand
	Trace          bool
}

// Machine wires a VM to its frame buffer, keypad and buzzer and drives it
// one frame at a time.
type Machine struct {
	vm     *C8VM
	screen *FrameBuffer
	keypad *Keypad
	tone   Tone
	logger *log.Logger

	cyclesPerFrame int
	frames         uint64
}

// NewMachine returns a machine with a freshly reset VM
func NewMachine(cfg MachineConfig) (*Machine, error) {
	if cfg.Logger == nil {
		return nil, errors.New("a logger is required")
	}
	if cfg.CyclesPerFrame < 0 {
		return nil, fmt.Errorf("invalid cycles per frame %d", cfg.CyclesPerFrame)
	}

	m := &Machine{
		screen:         NewFrameBuffer(),
		keypad:         &Keypad{},
		tone:           cfg.Tone,
		logger:         cfg.Logger,
		cyclesPerFrame: cfg.CyclesPerFrame,
	}
	if m.tone == nil {
		m.tone = silence{}
	}
	if m.cyclesPerFrame == 0 {
		m.cyclesPerFrame = DefaultCyclesPerFrame
	}

	vm, err := NewC8VM(Config{
		Display: m.screen,
		Keypad:  m.keypad,
		Logger:  cfg.Logger,
		Rand:    cfg.Rand,
		Trace:   cfg.Trace,
	})
	if err != nil {
		return nil, err
	}
	m.vm = vm
	return m, nil
}

// VM returns the interpreter
func (m *Machine) VM() *C8VM {
	return m.vm
}

// Screen returns the frame buffer the VM draws on
func (m *Machine) Screen() *FrameBuffer {
	return m.screen
}

// Frames returns the number of completed frames
func (m *Machine) Frames() uint64 {
	return m.frames
}

// Keypad returns the held state of the keypad
func (m *Machine) Keypad() *Keypad {
	return m.keypad
}

// KeyDown marks a keypad key as held and hands it to a VM waiting in Fx0A
func (m *Machine) KeyDown(key uint8) {
	m.keypad.SetKeymask(key)
	m.vm.DeliverKeyPress(key)
}

// KeyUp marks a keypad key as released
func (m *Machine) KeyUp(key uint8) {
	m.keypad.UnsetKeymask(key)
}

// ReleaseKeys marks every keypad key as released
func (m *Machine) ReleaseKeys() {
	m.keypad.Release()
}

// Frame runs the configured number of instructions, then one timer tick, then
// updates the buzzer. Instructions are skipped while the VM waits for a key.
func (m *Machine) Frame() error {
	for i := 0; i < m.cyclesPerFrame && !m.vm.IsPaused(); i++ {
		if err := m.vm.Step(); err != nil {
			return fmt.Errorf("frame %d: %w", m.frames, err)
		}
	}

	m.vm.Tick60Hz()

	if m.vm.ShouldSound() {
		m.tone.Start()
	} else {
		m.tone.Stop()
	}
	if sink, ok := m.tone.(FrameSink); ok {
		if err := sink.EndFrame(); err != nil {
			return fmt.Errorf("generating audio: %w", err)
		}
	}

	m.frames++
	return nil
}

// Run drives the machine at TimerFrequency until the frontend quits, the
// context is cancelled or the VM faults.
func (m *Machine) Run(ctx context.Context, fe Frontend) error {
	defer m.tone.Stop()

	ticker := time.NewTicker(time.Second / TimerFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if !fe.PollEvents(m) {
			m.logger.Debug("Frontend requested quit", log.Int("frames", int(m.frames)))
			return nil
		}

		if err := m.Frame(); err != nil {
			return err
		}

		if m.screen.IsDrawFlagSet() {
			if err := fe.Paint(m.screen); err != nil {
				return fmt.Errorf("painting screen: %w", err)
			}
			m.screen.UnsetDrawFlag()
		}
	}
}
