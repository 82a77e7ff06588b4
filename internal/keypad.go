package internal

// Keyboard reports which keys of the hexadecimal keypad are held down.
type Keyboard interface {
	IsPressed(key uint8) bool
}

// Keypad is the 16 key CHIP-8 keypad.
type Keypad struct {
	// A 16-bit integer to hold the current key values in the form of individual bits.
	// So when 0 is pushed in the keypad, the 0'th bit will be set and so on.
	key uint16
}

// SetKeymask sets the respective bit in the key
func (k *Keypad) SetKeymask(code uint8) {
	k.key |= 1 << (code & 0xF)
}

// UnsetKeymask unsets the respective bit in the key
func (k *Keypad) UnsetKeymask(code uint8) {
	k.key &^= 1 << (code & 0xF)
}

// IsPressed implements Keyboard.
func (k *Keypad) IsPressed(code uint8) bool {
	mask := uint16(1) << (code & 0xF)
	return k.key&mask == mask
}

// Release lifts every key
func (k *Keypad) Release() {
	k.key = 0
}
