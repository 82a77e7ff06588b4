package internal

// drawSprite XORs an 8 pixel wide, n rows tall sprite read from memory at I
// onto the display with its top left corner at (x, y). VF ends up 1 if any lit
// pixel was turned off.
func (vm *C8VM) drawSprite(x uint8, y uint8, n uint8) {
	vm.regV[0xF] = 0
	for byteIdx := uint8(0); byteIdx < n; byteIdx++ {
		spriteByte := vm.read(vm.regI + uint16(byteIdx))
		for bitIdx := uint8(0); bitIdx < 8; bitIdx++ {
			if spriteByte&(0x80>>bitIdx) == 0 {
				continue
			}
			if vm.display.TogglePixel(int(x)+int(bitIdx), int(y)+int(byteIdx)) {
				vm.regV[0xF] = 1
			}
		}
	}
}
