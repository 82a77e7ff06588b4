// Package term is a terminal frontend. Two CHIP-8 rows share one character
// cell using the upper half block glyph.
//
// Terminals only report key presses, never releases, so a key counts as held
// for holdFrames frames after its last press or auto-repeat.
package term

import (
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/nsf/termbox-go"
)

const (
	holdFrames = 6
	halfBlock  = '▀'

	screenColor = termbox.ColorBlack
	spriteColor = termbox.ColorWhite
)

// IO is the terminal frontend of a machine
type IO struct {
	events chan termbox.Event
	done   chan struct{}
	held   map[uint8]int // key -> frames left until it is released
}

// NewIO switches the terminal into raw mode and starts reading key events
func NewIO() (*IO, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initialising terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)

	io := newIO()
	go io.forward(termbox.PollEvent)
	return io, nil
}

func newIO() *IO {
	return &IO{
		events: make(chan termbox.Event, 16),
		done:   make(chan struct{}),
		held:   make(map[uint8]int),
	}
}

// forward hands events from poll to PollEvents until poll is interrupted or
// the frontend is destroyed.
func (io *IO) forward(poll func() termbox.Event) {
	for {
		ev := poll()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		select {
		case io.events <- ev:
		case <-io.done:
			return
		}
	}
}

// Destroy restores the terminal
func (io *IO) Destroy() {
	close(io.done)
	termbox.Interrupt()
	termbox.Close()
}

// PollEvents implements internal.Frontend.
func (io *IO) PollEvents(m *internal.Machine) bool {
	for key, left := range io.held {
		if left <= 1 {
			delete(io.held, key)
			m.KeyUp(key)
			continue
		}
		io.held[key] = left - 1
	}

	for {
		select {
		case ev := <-io.events:
			switch ev.Type {
			case termbox.EventKey:
				if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC {
					return false
				}
				code := keymap(ev.Ch)
				if code == -1 {
					continue
				}
				// presses of a held key still resume Fx0A
				m.KeyDown(uint8(code))
				io.held[uint8(code)] = holdFrames
			case termbox.EventError:
				return false
			}
		default:
			return true
		}
	}
}

// Paint implements internal.Frontend.
func (io *IO) Paint(fb *internal.FrameBuffer) error {
	if err := termbox.Clear(screenColor, screenColor); err != nil {
		return err
	}
	for y := 0; y < internal.ScreenHeight; y += 2 {
		for x := 0; x < internal.ScreenWidth; x++ {
			termbox.SetCell(x, y/2, halfBlock, cellColor(fb.Pixel(x, y)), cellColor(fb.Pixel(x, y+1)))
		}
	}
	return termbox.Flush()
}

func cellColor(on bool) termbox.Attribute {
	if on {
		return spriteColor
	}
	return screenColor
}

// Bell sounds the terminal bell when the buzzer starts. It implements
// internal.Tone.
type Bell struct {
	out     io.Writer
	playing bool
}

// NewBell returns a bell ringing on standard output
func NewBell() *Bell {
	return &Bell{out: os.Stdout}
}

// Start implements internal.Tone.
func (b *Bell) Start() {
	if b.playing {
		return
	}
	b.playing = true
	_, _ = io.WriteString(b.out, "\a")
}

// Stop implements internal.Tone.
func (b *Bell) Stop() {
	b.playing = false
}

// Same layout as the SDL frontend
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(ch rune) int8 {
	switch unicode.ToLower(ch) {
	case '1':
		return 0x1
	case '2':
		return 0x2
	case '3':
		return 0x3
	case '4':
		return 0xC
	case 'q':
		return 0x4
	case 'w':
		return 0x5
	case 'e':
		return 0x6
	case 'r':
		return 0xD
	case 'a':
		return 0x7
	case 's':
		return 0x8
	case 'd':
		return 0x9
	case 'f':
		return 0xE
	case 'z':
		return 0xA
	case 'x':
		return 0x0
	case 'c':
		return 0xB
	case 'v':
		return 0xF
	default:
		return -1
	}
}
