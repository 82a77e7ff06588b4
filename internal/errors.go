package internal

import (
	"errors"
	"fmt"
)

// Fatal conditions of the VM. Once Step returns one of these the VM is halted
// and keeps returning the same error until Reset is called.
var (
	ErrProgramTooLarge = errors.New("program size exceeds the maximum size")
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrStackOverflow   = errors.New("call stack overflow")
	ErrStackUnderflow  = errors.New("return with empty call stack")
)

// UnknownOpcodeError is returned by Step when the fetched instruction word
// does not decode to any CHIP-8 instruction.
type UnknownOpcodeError struct {
	Opcode uint16 // raw instruction word
	PC     uint16 // address the word was fetched from
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04X at %03X", e.Opcode, e.PC)
}

// Is makes errors.Is(err, ErrUnknownOpcode) match.
func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}
