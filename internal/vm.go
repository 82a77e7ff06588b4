package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	addrMask       = totalMemory - 1
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr
	fontStartAddr  = 0x000
	fontGlyphSize  = 5

	TimerFrequency = 60 // Hz
	ScreenWidth    = 64
	ScreenHeight   = 32
)

// Config holds the collaborators of a VM.
type Config struct {
	Display Display     // required
	Keypad  Keyboard    // required
	Logger  *log.Logger // defaults to an info level logger
	Rand    *rand.Rand  // source for RND, seeded from the clock when nil
	Trace   bool        // log every executed instruction at debug level
}

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	opcode     uint16             // 16-bit opcode of the current instruction
	regV       [16]uint8          // 16 general purpose 8-bit registers
	regI       uint16             // 16-bit register that is generally used to store memory addresses
	delayTimer uint8              // Delay timer
	soundTimer uint8              // Sound timer
	pc         uint16             // Program counter
	stack      callStack          // Return addresses of subroutine calls
	memory     [totalMemory]uint8 // 4 KB global memory

	// Fx0A parks the VM until DeliverKeyPress stores the key in regV[waitReg]
	paused  bool
	waitReg uint8

	fault error // set once a fatal error halted the VM

	display Display
	keypad  Keyboard
	logger  *log.Logger
	rnd     *rand.Rand
	trace   bool
}

var fontset = []uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(cfg Config) (*C8VM, error) {
	if cfg.Display == nil {
		return nil, errors.New("a display is required")
	}
	if cfg.Keypad == nil {
		return nil, errors.New("a keypad is required")
	}

	vm := &C8VM{
		display: cfg.Display,
		keypad:  cfg.Keypad,
		logger:  cfg.Logger,
		rnd:     cfg.Rand,
		trace:   cfg.Trace,
	}
	if vm.logger == nil {
		vm.logger = log.NewWithConfig(log.DefaultConfig())
	}
	if vm.rnd == nil {
		vm.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	vm.Reset()
	return vm, nil
}

// Reset puts the VM back into its power-on state. The loaded program is lost
// and the display is cleared.
func (vm *C8VM) Reset() {
	vm.opcode = 0
	vm.regV = [16]uint8{}
	vm.regI = 0
	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.pc = pcStartAddr
	vm.stack = callStack{}
	vm.memory = [totalMemory]uint8{}
	vm.paused = false
	vm.waitReg = 0
	vm.fault = nil

	copy(vm.memory[fontStartAddr:], fontset)
	vm.display.Clear()
}

// LoadProgram copies a program image into the VM's memory at 0x200
func (vm *C8VM) LoadProgram(data []byte) error {
	size := len(data)
	if size > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, size, maxProgramSize)
	}
	copy(vm.memory[pcStartAddr:], data)
	vm.logger.Debug("Program loaded",
		log.Int("size", size),
		log.Hex("address", uint16(pcStartAddr)))
	return nil
}

// LoadProgramFile loads a given CHIP-8 program file into the VM's memory
func (vm *C8VM) LoadProgramFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return vm.LoadProgram(data)
}

// Step fetches, decodes and executes one instruction. It does nothing while
// the VM waits for a key press. Errors are fatal, the VM stays halted and
// returns the same error from every later call.
func (vm *C8VM) Step() error {
	if vm.fault != nil {
		return vm.fault
	}
	if vm.paused {
		return nil
	}

	pc := vm.pc
	vm.opcode = uint16(vm.read(pc))<<8 | uint16(vm.read(pc+1)) // 16-bit instruction opcode
	vm.pc = (pc + 2) & addrMask

	if vm.trace {
		vm.logger.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", vm.opcode),
			log.String("instruction", Disassemble(vm.opcode)))
	}

	if err := vm.execute(); err != nil {
		vm.pc = pc
		vm.fault = err
		vm.logger.Debug("VM halted",
			log.Hex("pc", pc),
			log.Hex("opcode", vm.opcode),
			log.Err(err))
		return err
	}
	return nil
}

// Tick60Hz decrements the delay and sound timers towards zero. It is meant to
// be called once per frame at TimerFrequency.
func (vm *C8VM) Tick60Hz() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// ShouldSound returns whether the buzzer should be on
func (vm *C8VM) ShouldSound() bool {
	return vm.soundTimer > 0
}

// IsPaused returns whether the VM waits for a key press
func (vm *C8VM) IsPaused() bool {
	return vm.paused
}

// DeliverKeyPress resumes a VM that is waiting in Fx0A, storing the key in the
// register named by the instruction. Presses while not waiting are ignored.
func (vm *C8VM) DeliverKeyPress(key uint8) {
	if !vm.paused {
		return
	}
	vm.regV[vm.waitReg] = key & 0xF
	vm.paused = false
	vm.logger.Debug("Key press resumed execution",
		log.Hex("key", key&0xF),
		log.Int("register", int(vm.waitReg)))
}

// Fault returns the error that halted the VM, if any
func (vm *C8VM) Fault() error {
	return vm.fault
}

// Opcode returns the most recently fetched instruction word
func (vm *C8VM) Opcode() uint16 {
	return vm.opcode
}

// Registers returns the values of V0..VF
func (vm *C8VM) Registers() [16]uint8 {
	return vm.regV
}

// I returns the value of the address register
func (vm *C8VM) I() uint16 {
	return vm.regI
}

// PC returns the address of the next instruction
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// StackDepth returns the number of pending subroutine returns
func (vm *C8VM) StackDepth() int {
	return vm.stack.depth()
}

// Memory returns a copy of the 4 KB memory
func (vm *C8VM) Memory() [totalMemory]uint8 {
	return vm.memory
}

// Addresses wrap at the 4 KB boundary.
func (vm *C8VM) read(addr uint16) uint8 {
	return vm.memory[addr&addrMask]
}

func (vm *C8VM) write(addr uint16, value uint8) {
	vm.memory[addr&addrMask] = value
}
