// Package options contains the program options.
package options

// Program options of the emulator frontends.
type Program struct {
	Input string // program file to run

	CyclesPerFrame int    // instructions executed per 60 Hz frame
	Seed           int64  // seed for RND, 0 seeds from the clock
	Scale          int    // size of a CHIP-8 pixel in window pixels
	WavFile        string // record the buzzer into this file

	Disasm  bool // print a listing of the program and exit
	Trace   bool // log every executed instruction
	Debug   bool
	Quiet   bool
	Version bool
}
