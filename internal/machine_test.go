package internal

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// recordingTone logs every call made to it.
type recordingTone struct {
	calls []string
}

func (r *recordingTone) Start()          { r.calls = append(r.calls, "start") }
func (r *recordingTone) Stop()           { r.calls = append(r.calls, "stop") }
func (r *recordingTone) EndFrame() error { r.calls = append(r.calls, "frame"); return nil }

// scriptedFrontend presses keys on given frames and quits after quitAfter polls.
type scriptedFrontend struct {
	quitAfter int
	presses   map[int]uint8

	polls  int
	paints int
}

func (f *scriptedFrontend) PollEvents(m *Machine) bool {
	if key, ok := f.presses[f.polls]; ok {
		m.KeyDown(key)
	}
	f.polls++
	return f.polls <= f.quitAfter
}

func (f *scriptedFrontend) Paint(*FrameBuffer) error {
	f.paints++
	return nil
}

func newTestMachine(t *testing.T, cycles int, tone Tone, program []byte) *Machine {
	t.Helper()

	m, err := NewMachine(MachineConfig{
		CyclesPerFrame: cycles,
		Tone:           tone,
		Logger:         log.NewTestLogger(t),
		Rand:           rand.New(rand.NewSource(1)),
	})
	assert.NoError(t, err)
	assert.NoError(t, m.VM().LoadProgram(program))
	return m
}

func TestNewMachine(t *testing.T) {
	_, err := NewMachine(MachineConfig{})
	assert.Error(t, err)

	_, err = NewMachine(MachineConfig{Logger: log.NewTestLogger(t), CyclesPerFrame: -1})
	assert.Error(t, err)

	m, err := NewMachine(MachineConfig{Logger: log.NewTestLogger(t)})
	assert.NoError(t, err)
	assert.Equal(t, DefaultCyclesPerFrame, m.cyclesPerFrame)
	assert.NotNil(t, m.Screen())
	assert.Equal(t, uint64(0), m.Frames())
}

func TestMachine_FrameRunsCycles(t *testing.T) {
	// ADD V0, 1 followed by JP $200
	m := newTestMachine(t, 6, nil, []byte{0x70, 0x01, 0x12, 0x00})

	assert.NoError(t, m.Frame())
	regs := m.VM().Registers()
	assert.Equal(t, uint8(3), regs[0])
	assert.Equal(t, uint64(1), m.Frames())

	assert.NoError(t, m.Frame())
	regs = m.VM().Registers()
	assert.Equal(t, uint8(6), regs[0])
}

func TestMachine_FrameStopsWhenWaitingForKey(t *testing.T) {
	// LD V5, K then ADD V1, 1 in a loop
	m := newTestMachine(t, 10, nil, []byte{0xF5, 0x0A, 0x71, 0x01, 0x12, 0x02})

	assert.NoError(t, m.Frame())
	assert.True(t, m.VM().IsPaused())
	assert.Equal(t, uint16(0x202), m.VM().PC())

	assert.NoError(t, m.Frame())
	assert.Equal(t, uint16(0x202), m.VM().PC())

	m.KeyDown(0xC)
	assert.False(t, m.VM().IsPaused())
	assert.True(t, m.keypad.IsPressed(0xC))
	regs := m.VM().Registers()
	assert.Equal(t, uint8(0xC), regs[0x5])

	m.KeyUp(0xC)
	assert.False(t, m.Keypad().IsPressed(0xC))

	m.KeyDown(0x1)
	m.KeyDown(0x2)
	m.ReleaseKeys()
	assert.False(t, m.Keypad().IsPressed(0x1))
	assert.False(t, m.Keypad().IsPressed(0x2))

	assert.NoError(t, m.Frame())
	regs = m.VM().Registers()
	assert.Equal(t, uint8(5), regs[0x1])
}

func TestMachine_ToneFollowsSoundTimer(t *testing.T) {
	tone := &recordingTone{}
	// LD V0, 2; LD ST, V0; JP $204
	m := newTestMachine(t, 3, tone, []byte{0x60, 0x02, 0xF0, 0x18, 0x12, 0x04})

	for i := 0; i < 3; i++ {
		assert.NoError(t, m.Frame())
	}

	// ST is 2 after the first frame's instructions, 1 after its tick
	expected := []string{"start", "frame", "stop", "frame", "stop", "frame"}
	if diff := cmp.Diff(expected, tone.calls); diff != "" {
		t.Errorf("tone calls: (-want, +got)\n%s", diff)
	}
}

func TestMachine_FrameReturnsFault(t *testing.T) {
	m := newTestMachine(t, 10, nil, []byte{0x00, 0xEE})

	err := m.Frame()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.ErrorContains(t, err, "frame 0")
	assert.Equal(t, uint64(0), m.Frames())
}

func TestMachine_Run(t *testing.T) {
	// CLS; JP $200
	m := newTestMachine(t, 10, nil, []byte{0x00, 0xE0, 0x12, 0x00})
	fe := &scriptedFrontend{quitAfter: 3}

	assert.NoError(t, m.Run(context.Background(), fe))
	assert.Equal(t, 4, fe.polls)
	assert.Equal(t, uint64(3), m.Frames())
	assert.Equal(t, 3, fe.paints)
}

func TestMachine_RunDeliversKeys(t *testing.T) {
	// LD V2, K; JP $202
	m := newTestMachine(t, 10, nil, []byte{0xF2, 0x0A, 0x12, 0x02})
	fe := &scriptedFrontend{quitAfter: 3, presses: map[int]uint8{1: 0x9}}

	assert.NoError(t, m.Run(context.Background(), fe))
	assert.False(t, m.VM().IsPaused())
	regs := m.VM().Registers()
	assert.Equal(t, uint8(0x9), regs[0x2])
}

func TestMachine_RunStopsOnFault(t *testing.T) {
	tone := &recordingTone{}
	m := newTestMachine(t, 10, tone, []byte{0xFF, 0xFF})
	fe := &scriptedFrontend{quitAfter: 100}

	err := m.Run(context.Background(), fe)
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.Equal(t, 1, fe.polls)
	if diff := cmp.Diff([]string{"stop"}, tone.calls); diff != "" {
		t.Errorf("tone calls: (-want, +got)\n%s", diff)
	}
}

func TestMachine_RunCancelled(t *testing.T) {
	m := newTestMachine(t, 10, nil, []byte{0x12, 0x00})
	fe := &scriptedFrontend{quitAfter: 1 << 30}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, fe)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTones(t *testing.T) {
	a := &recordingTone{}
	b := &recordingTone{}
	tones := Tones{a, silence{}, b}

	tones.Start()
	tones.Stop()
	assert.NoError(t, tones.EndFrame())

	expected := []string{"start", "stop", "frame"}
	for _, tone := range []*recordingTone{a, b} {
		if diff := cmp.Diff(expected, tone.calls); diff != "" {
			t.Errorf("tone calls: (-want, +got)\n%s", diff)
		}
	}
}
