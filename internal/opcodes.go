package internal

import "github.com/retroenv/retrogolib/log"

func (vm *C8VM) unknownOpcode() error {
	return &UnknownOpcodeError{
		Opcode: vm.opcode,
		PC:     (vm.pc - 2) & addrMask,
	}
}

func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.pc = (vm.pc + 2) & addrMask
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// execute runs the instruction in vm.opcode. The program counter already
// points past it.
func (vm *C8VM) execute() error {
	x := uint8((vm.opcode >> 8) & 0x000F) // the lower 4 bits of the high byte of the instruction
	y := uint8((vm.opcode >> 4) & 0x000F) // the upper 4 bits of the low byte of the instruction
	n := uint8(vm.opcode & 0x000F)        // the lowest 4 bits of the instruction
	kk := uint8(vm.opcode & 0x00FF)       // the lowest 8 bits of the instruction
	nnn := vm.opcode & 0x0FFF             // the lowest 12 bits of the instruction

	switch vm.opcode & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		switch vm.opcode {
		case 0x00E0: // CLS
			vm.display.Clear()
		case 0x00EE: // RET
			addr, err := vm.stack.pop()
			if err != nil {
				return err
			}
			vm.pc = addr
		default: // SYS nnn, machine code routines are not emulated
			vm.logger.Debug("Ignoring machine code call", log.Hex("address", nnn))
		}
	case 0x1000: // JP nnn
		vm.pc = nnn
	case 0x2000: // CALL nnn
		if err := vm.stack.push(vm.pc); err != nil {
			return err
		}
		vm.pc = nnn
	case 0x3000: // SE Vx, kk
		vm.skipIf(vm.regV[x] == kk)
	case 0x4000: // SNE Vx, kk
		vm.skipIf(vm.regV[x] != kk)
	case 0x5000:
		if n != 0x0 {
			return vm.unknownOpcode()
		}
		// SE Vx, Vy
		vm.skipIf(vm.regV[x] == vm.regV[y])
	case 0x6000: // LD Vx, kk
		vm.regV[x] = kk
	case 0x7000: // ADD Vx, kk
		vm.regV[x] += kk
	case 0x8000:
		return vm.executeALU(x, y, n)
	case 0x9000:
		if n != 0x0 {
			return vm.unknownOpcode()
		}
		// SNE Vx, Vy
		vm.skipIf(vm.regV[x] != vm.regV[y])
	case 0xA000: // LD I, nnn
		vm.regI = nnn
	case 0xB000: // JP V0, nnn
		vm.pc = (nnn + uint16(vm.regV[0])) & addrMask
	case 0xC000: // RND Vx, kk
		vm.regV[x] = uint8(vm.rnd.Intn(256)) & kk
	case 0xD000: // DRW Vx, Vy, n
		vm.drawSprite(vm.regV[x], vm.regV[y], n)
	case 0xE000:
		switch kk {
		case 0x9E: // SKP Vx
			vm.skipIf(vm.keypad.IsPressed(vm.regV[x] & 0xF))
		case 0xA1: // SKNP Vx
			vm.skipIf(!vm.keypad.IsPressed(vm.regV[x] & 0xF))
		default:
			return vm.unknownOpcode()
		}
	case 0xF000:
		return vm.executeMisc(x, kk)
	}
	return nil
}

// executeALU runs the 8xyn register to register instructions. Flag results
// are written to VF after the result so they win when x is F.
func (vm *C8VM) executeALU(x, y, n uint8) error {
	switch n {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vm.regV[y]
	case 0x1: // OR Vx, Vy
		vm.regV[x] |= vm.regV[y]
	case 0x2: // AND Vx, Vy
		vm.regV[x] &= vm.regV[y]
	case 0x3: // XOR Vx, Vy
		vm.regV[x] ^= vm.regV[y]
	case 0x4: // ADD Vx, Vy
		sum := uint16(vm.regV[x]) + uint16(vm.regV[y])
		vm.regV[x] = uint8(sum)
		vm.regV[0xF] = boolToFlag(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		noBorrow := vm.regV[x] > vm.regV[y]
		vm.regV[x] -= vm.regV[y]
		vm.regV[0xF] = boolToFlag(noBorrow)
	case 0x6: // SHR Vx {, Vy}
		lsb := vm.regV[x] & 0x01
		vm.regV[x] >>= 1
		vm.regV[0xF] = lsb
	case 0x7: // SUBN Vx, Vy
		noBorrow := vm.regV[y] > vm.regV[x]
		vm.regV[x] = vm.regV[y] - vm.regV[x]
		vm.regV[0xF] = boolToFlag(noBorrow)
	case 0xE: // SHL Vx {, Vy}
		// VF receives the masked bit, 0x80 rather than 1
		msb := vm.regV[x] & 0x80
		vm.regV[x] <<= 1
		vm.regV[0xF] = msb
	default:
		return vm.unknownOpcode()
	}
	return nil
}

// executeMisc runs the Fxkk timer, keypad and memory block instructions.
func (vm *C8VM) executeMisc(x, kk uint8) error {
	switch kk {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case 0x0A: // LD Vx, K
		vm.paused = true
		vm.waitReg = x
		vm.logger.Debug("Waiting for key press", log.Int("register", int(x)))
	case 0x15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case 0x18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case 0x1E: // ADD I, Vx
		vm.regI += uint16(vm.regV[x])
	case 0x29: // LD F, Vx
		vm.regI = fontStartAddr + uint16(vm.regV[x]&0xF)*fontGlyphSize
	case 0x33: // LD B, Vx
		vm.write(vm.regI, vm.regV[x]/100)
		vm.write(vm.regI+1, (vm.regV[x]/10)%10)
		vm.write(vm.regI+2, vm.regV[x]%10)
	case 0x55: // LD [I], Vx
		for i := uint16(0); i <= uint16(x); i++ {
			vm.write(vm.regI+i, vm.regV[i])
		}
	case 0x65: // LD Vx, [I]
		for i := uint16(0); i <= uint16(x); i++ {
			vm.regV[i] = vm.read(vm.regI + i)
		}
	default:
		return vm.unknownOpcode()
	}
	return nil
}
