package main

import (
	"os"
	"runtime"

	"github.com/mnafees/chopper/v2/internal/host"
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/pkg/sdl"
)

// SDL has to be driven from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(host.Main("chopper", os.Args[1:], os.Stdout, os.Stderr, newFrontend))
}

func newFrontend(opts options.Program) (host.Frontend, error) {
	io, err := sdl.NewIO("Chopper | CHIP-8 Emulator", opts.Scale)
	if err != nil {
		return host.Frontend{}, err
	}
	audio, err := sdl.NewAudio()
	if err != nil {
		io.Destroy()
		return host.Frontend{}, err
	}

	return host.Frontend{
		Frontend: io,
		Tone:     audio,
		Destroy: func() {
			audio.Close()
			io.Destroy()
		},
	}, nil
}
