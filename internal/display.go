package internal

import "strings"

// Display is the pixel surface the VM draws on. The VM only toggles and clears
// logical pixels, painting them is up to the frontend.
type Display interface {
	// TogglePixel flips the pixel at (x, y), wrapping both coordinates at the
	// surface edges, and reports whether the pixel is now off.
	TogglePixel(x, y int) bool
	// Clear turns every pixel off.
	Clear()
}

// FrameBuffer is the 64x32 monochrome CHIP-8 screen.
type FrameBuffer struct {
	// 64 px x 32 px display
	pixels [ScreenWidth][ScreenHeight]uint8

	drawFlag bool // set whenever a pixel changed since the last repaint
}

// NewFrameBuffer returns a blank frame buffer
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// TogglePixel implements Display.
func (fb *FrameBuffer) TogglePixel(x, y int) bool {
	px := &fb.pixels[wrap(x, ScreenWidth)][wrap(y, ScreenHeight)]
	*px ^= 1
	fb.drawFlag = true
	return *px == 0
}

// Clear implements Display.
func (fb *FrameBuffer) Clear() {
	fb.pixels = [ScreenWidth][ScreenHeight]uint8{}
	fb.drawFlag = true
}

// Pixel returns whether the pixel at (x, y) is on, wrapping the coordinates.
func (fb *FrameBuffer) Pixel(x, y int) bool {
	return fb.pixels[wrap(x, ScreenWidth)][wrap(y, ScreenHeight)] == 1
}

// Pixels returns a copy of the pixel grid, indexed [x][y]
func (fb *FrameBuffer) Pixels() [ScreenWidth][ScreenHeight]uint8 {
	return fb.pixels
}

// IsDrawFlagSet returns whether the screen changed since UnsetDrawFlag
func (fb *FrameBuffer) IsDrawFlagSet() bool {
	return fb.drawFlag
}

// UnsetDrawFlag marks the current contents as painted
func (fb *FrameBuffer) UnsetDrawFlag() {
	fb.drawFlag = false
}

// String renders the screen as text, one line per row, '#' for a lit pixel.
func (fb *FrameBuffer) String() string {
	var sb strings.Builder
	sb.Grow((ScreenWidth + 1) * ScreenHeight)
	for h := 0; h < ScreenHeight; h++ {
		for w := 0; w < ScreenWidth; w++ {
			if fb.pixels[w][h] == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
