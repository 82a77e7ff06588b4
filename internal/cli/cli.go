// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/options"
)

const defaultScale = 20

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage text of the command
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [options] <CHIP-8 program>\n\n", e.flags.Name())
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the command line of the command called name
func ParseFlags(name string, args []string) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options.Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	if opts.Version {
		return opts, nil
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &UsageError{flags: flags, msg: "no CHIP-8 program given"}
	case len(rest) > 1:
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s, pass options before the program file", rest[1]),
		}
	}
	opts.Input = rest[0]

	if err := validateOptions(opts); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	return opts, nil
}

func validateOptions(opts options.Program) error {
	if opts.CyclesPerFrame <= 0 {
		return fmt.Errorf("cycles per frame must be positive, got %d", opts.CyclesPerFrame)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %d", opts.Scale)
	}
	if opts.Debug && opts.Quiet {
		return fmt.Errorf("debug and quiet options are mutually exclusive")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.IntVar(&opts.CyclesPerFrame, "cycles", internal.DefaultCyclesPerFrame, "instructions executed per 60 Hz frame")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed for the random number instruction, 0 seeds from the clock")
	flags.IntVar(&opts.Scale, "scale", defaultScale, "window pixels per CHIP-8 pixel")
	flags.StringVar(&opts.WavFile, "wav", "", "record the buzzer into a WAV file")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly of the program and exit")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
	flags.BoolVar(&opts.Version, "version", false, "print version information and exit")
}
