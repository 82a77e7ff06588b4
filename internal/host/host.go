// Package host contains the start up sequence shared by the frontend
// executables: flag parsing, logging, program loading and the run loop.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/cli"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/pkg/wavwriter"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// Frontend is a frontend together with its buzzer and a function releasing
// both.
type Frontend struct {
	internal.Frontend
	Tone    internal.Tone
	Destroy func()
}

// FrontendFactory creates the frontend once the options are known.
type FrontendFactory func(opts options.Program) (Frontend, error)

// Main runs the emulator command called name and returns its exit code.
func Main(name string, args []string, stdout, stderr io.Writer, newFrontend FrontendFactory) int {
	opts, err := cli.ParseFlags(name, args)
	if err != nil {
		logger := config.CreateLogger(opts)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(stderr)
		}
		logger.Error("Invalid command line", log.Err(err))
		return 1
	}

	if opts.Version {
		fmt.Fprintf(stdout, "%s version: %s\n", name, buildinfo.Version(version, commit, date))
		return 0
	}

	logger := config.CreateLogger(opts)
	if err := run(app.Context(), logger, opts, stdout, newFrontend); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Emulation cancelled")
			return 0
		}
		logger.Error("Emulation failed", log.Err(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *log.Logger, opts options.Program,
	stdout io.Writer, newFrontend FrontendFactory) error {

	if opts.Disasm {
		program, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("loading program: %w", err)
		}
		return internal.Listing(stdout, program)
	}

	fe, err := newFrontend(opts)
	if err != nil {
		return fmt.Errorf("creating frontend: %w", err)
	}
	if fe.Destroy != nil {
		defer fe.Destroy()
	}

	var tones internal.Tones
	if fe.Tone != nil {
		tones = append(tones, fe.Tone)
	}
	if opts.WavFile != "" {
		rec, err := wavwriter.New(opts.WavFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("Writing audio failed", log.Err(err))
				return
			}
			logger.Info("Audio recorded",
				log.String("file", opts.WavFile),
				log.Int("frames", rec.Frames()))
		}()
		tones = append(tones, rec)
	}

	var rnd *rand.Rand
	if opts.Seed != 0 {
		rnd = rand.New(rand.NewSource(opts.Seed))
	}

	machine, err := internal.NewMachine(internal.MachineConfig{
		CyclesPerFrame: opts.CyclesPerFrame,
		Tone:           tones,
		Logger:         logger,
		Rand:           rnd,
		Trace:          opts.Trace,
	})
	if err != nil {
		return err
	}
	if err := machine.VM().LoadProgramFile(opts.Input); err != nil {
		return err
	}

	logger.Info("Running program",
		log.String("file", opts.Input),
		log.Int("cycles_per_frame", opts.CyclesPerFrame))
	err = machine.Run(ctx, fe)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("Screen when the emulation stopped",
			log.Hex("pc", machine.VM().PC()),
			log.String("screen", "\n"+machine.Screen().String()))
	}
	return err
}
