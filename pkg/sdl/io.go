package sdl

import (
	"fmt"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

// IO is the SDL frontend of a machine
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface

	pixelSize int32
}

// NewIO initialises SDL and opens the main window
func NewIO(title string, pixelSize int) (*IO, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("initialising SDL: %w", err)
	}

	io := &IO{pixelSize: int32(pixelSize)}
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	io.window = window

	io.surface, err = window.GetSurface()
	if err != nil {
		io.Destroy()
		return nil, fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		io.Destroy()
		return nil, fmt.Errorf("clearing window surface: %w", err)
	}
	return io, nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// PollEvents implements internal.Frontend.
func (io *IO) PollEvents(m *internal.Machine) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			if t.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				return false
			}
			code := keymap(t.Keysym.Scancode)
			if code == -1 || t.Repeat != 0 {
				continue
			}
			switch t.GetType() {
			case sdl.KEYDOWN:
				m.KeyDown(uint8(code))
			case sdl.KEYUP:
				m.KeyUp(uint8(code))
			}
		case *sdl.WindowEvent:
			// key up events of a window without focus never arrive
			if t.Event == sdl.WINDOWEVENT_FOCUS_LOST {
				m.ReleaseKeys()
			}
		case *sdl.QuitEvent:
			return false
		}
	}
	return true
}

// Paint implements internal.Frontend.
func (io *IO) Paint(fb *internal.FrameBuffer) error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return err
	}
	pixels := fb.Pixels()
	for w := int32(0); w < internal.ScreenWidth; w++ {
		for h := int32(0); h < internal.ScreenHeight; h++ {
			if pixels[w][h] == 1 {
				rect := &sdl.Rect{X: w * io.pixelSize, Y: h * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
				if err := io.surface.FillRect(rect, spriteColor); err != nil {
					return err
				}
			}
		}
	}
	return io.window.UpdateSurface()
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) int8 {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1
	case sdl.SCANCODE_2:
		return 0x2
	case sdl.SCANCODE_3:
		return 0x3
	case sdl.SCANCODE_4:
		return 0xC
	case sdl.SCANCODE_Q:
		return 0x4
	case sdl.SCANCODE_W:
		return 0x5
	case sdl.SCANCODE_E:
		return 0x6
	case sdl.SCANCODE_R:
		return 0xD
	case sdl.SCANCODE_A:
		return 0x7
	case sdl.SCANCODE_S:
		return 0x8
	case sdl.SCANCODE_D:
		return 0x9
	case sdl.SCANCODE_F:
		return 0xE
	case sdl.SCANCODE_Z:
		return 0xA
	case sdl.SCANCODE_X:
		return 0x0
	case sdl.SCANCODE_C:
		return 0xB
	case sdl.SCANCODE_V:
		return 0xF
	default:
		return -1
	}
}
