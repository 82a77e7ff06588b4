package term

import (
	"bytes"
	"testing"
	"time"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestKeymap(t *testing.T) {
	layout := map[rune]int8{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	}

	seen := make(map[int8]bool)
	for ch, code := range layout {
		assert.Equal(t, code, keymap(ch))
		seen[code] = true
	}
	assert.Equal(t, 16, len(seen))

	assert.Equal(t, int8(0xB), keymap('C'))
	assert.Equal(t, int8(-1), keymap('p'))
	assert.Equal(t, int8(-1), keymap(0))
}

func TestCellColor(t *testing.T) {
	assert.Equal(t, termbox.ColorWhite, cellColor(true))
	assert.Equal(t, termbox.ColorBlack, cellColor(false))
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	b := &Bell{out: &buf}

	b.Start()
	b.Start()
	assert.Equal(t, "\a", buf.String())

	b.Stop()
	b.Start()
	assert.Equal(t, "\a\a", buf.String())
}

func keyEvent(ch rune) termbox.Event {
	return termbox.Event{Type: termbox.EventKey, Ch: ch}
}

func TestIO_PollEvents(t *testing.T) {
	m, err := internal.NewMachine(internal.MachineConfig{Logger: log.NewTestLogger(t)})
	assert.NoError(t, err)
	// LD V3, K; LD V4, K; JP $204
	assert.NoError(t, m.VM().LoadProgram([]byte{0xF3, 0x0A, 0xF4, 0x0A, 0x12, 0x04}))

	io := newIO()
	assert.NoError(t, m.Frame())
	assert.True(t, m.VM().IsPaused())

	io.events <- keyEvent('w')
	assert.True(t, io.PollEvents(m))
	assert.False(t, m.VM().IsPaused())
	assert.True(t, m.Keypad().IsPressed(0x5))
	regs := m.VM().Registers()
	assert.Equal(t, uint8(0x5), regs[0x3])

	assert.NoError(t, m.Frame())
	assert.True(t, m.VM().IsPaused())

	// tapping the still held key again resumes the second wait
	io.events <- keyEvent('W')
	assert.True(t, io.PollEvents(m))
	assert.False(t, m.VM().IsPaused())
	regs = m.VM().Registers()
	assert.Equal(t, uint8(0x5), regs[0x4])

	for i := 1; i < holdFrames; i++ {
		assert.True(t, io.PollEvents(m))
		assert.True(t, m.Keypad().IsPressed(0x5))
	}
	assert.True(t, io.PollEvents(m))
	assert.False(t, m.Keypad().IsPressed(0x5))
	assert.Equal(t, 0, len(io.held))

	io.events <- keyEvent('p')
	assert.True(t, io.PollEvents(m))
	assert.Equal(t, 0, len(io.held))

	io.events <- termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}
	assert.False(t, io.PollEvents(m))
}

func TestIO_ForwardStops(t *testing.T) {
	t.Run("interrupt", func(t *testing.T) {
		io := newIO()
		events := []termbox.Event{keyEvent('1'), keyEvent('2'), {Type: termbox.EventInterrupt}}
		io.forward(func() termbox.Event {
			ev := events[0]
			events = events[1:]
			return ev
		})
		assert.Equal(t, 2, len(io.events))
	})

	t.Run("destroyed with full queue", func(t *testing.T) {
		io := newIO()
		finished := make(chan struct{})
		go func() {
			io.forward(func() termbox.Event { return keyEvent('1') })
			close(finished)
		}()

		close(io.done)
		select {
		case <-finished:
		case <-time.After(time.Second):
			t.Fatal("event reader still blocked after the frontend was destroyed")
		}
	})
}
