package internal

import (
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Disassemble returns the assembly form of an instruction word, for example
// "ld VA, $0A". Words that are not instructions come back as a .word directive.
func Disassemble(opcode uint16) string {
	name, ok := instructionName(opcode)
	if !ok {
		return fmt.Sprintf(".word $%04X", opcode)
	}
	if params := formatParams(opcode); params != "" {
		return name + " " + params
	}
	return name
}

// Listing writes a disassembly of a program image as it would be laid out in
// memory starting at 0x200, one instruction word per line.
func Listing(w io.Writer, program []byte) error {
	for offset := 0; offset < len(program); offset += 2 {
		addr := pcStartAddr + offset
		if offset+1 == len(program) {
			if _, err := fmt.Fprintf(w, "$%03X  %02X    .byte $%02X\n", addr, program[offset], program[offset]); err != nil {
				return err
			}
			break
		}

		opcode := uint16(program[offset])<<8 | uint16(program[offset+1])
		if _, err := fmt.Fprintf(w, "$%03X  %04X  %s\n", addr, opcode, Disassemble(opcode)); err != nil {
			return err
		}
	}
	return nil
}

func instructionName(opcode uint16) (string, bool) {
	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name, true
		}
	}
	return "", false
}

func formatParams(opcode uint16) string {
	x := (opcode & 0x0F00) >> 8
	y := (opcode & 0x00F0) >> 4
	n := opcode & 0x000F
	kk := opcode & 0x00FF
	nnn := opcode & 0x0FFF

	switch opcode & 0xF000 {
	case 0x0000:
		if opcode == 0x00E0 || opcode == 0x00EE {
			return ""
		}
		return fmt.Sprintf("$%03X", nnn)
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03X", nnn)
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xC000:
		return fmt.Sprintf("V%X, $%02X", x, kk)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0x8000:
		if n == 0x6 || n == 0xE {
			return fmt.Sprintf("V%X", x)
		}
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", nnn)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", nnn)
	case 0xD000:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, n)
	case 0xE000:
		return fmt.Sprintf("V%X", x)
	}

	// 0xF000
	switch kk {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}
