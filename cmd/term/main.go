package main

import (
	"os"

	"github.com/mnafees/chopper/v2/internal/host"
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/pkg/term"
)

func main() {
	os.Exit(host.Main("chopper-term", os.Args[1:], os.Stdout, os.Stderr, newFrontend))
}

func newFrontend(_ options.Program) (host.Frontend, error) {
	io, err := term.NewIO()
	if err != nil {
		return host.Frontend{}, err
	}
	return host.Frontend{
		Frontend: io,
		Tone:     term.NewBell(),
		Destroy:  io.Destroy,
	}, nil
}
