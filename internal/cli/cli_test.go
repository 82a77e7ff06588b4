package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected options.Program
	}{
		{
			name: "defaults",
			args: []string{"pong.ch8"},
			expected: options.Program{
				Input:          "pong.ch8",
				CyclesPerFrame: 10,
				Scale:          defaultScale,
			},
		},
		{
			name: "all options",
			args: []string{"-cycles", "20", "-seed", "7", "-scale", "4", "-wav", "out.wav",
				"-trace", "-debug", "tetris.ch8"},
			expected: options.Program{
				Input:          "tetris.ch8",
				CyclesPerFrame: 20,
				Seed:           7,
				Scale:          4,
				WavFile:        "out.wav",
				Trace:          true,
				Debug:          true,
			},
		},
		{
			name: "disassembly",
			args: []string{"-disasm", "-q", "maze.ch8"},
			expected: options.Program{
				Input:          "maze.ch8",
				CyclesPerFrame: 10,
				Scale:          defaultScale,
				Disasm:         true,
				Quiet:          true,
			},
		},
		{
			name: "version needs no program",
			args: []string{"-version"},
			expected: options.Program{
				CyclesPerFrame: 10,
				Scale:          defaultScale,
				Version:        true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseFlags("chopper", tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, opts)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "no program", args: nil, message: "no CHIP-8 program given"},
		{name: "two programs", args: []string{"a.ch8", "b.ch8"}, message: "unexpected argument b.ch8"},
		{name: "zero cycles", args: []string{"-cycles", "0", "a.ch8"}, message: "cycles per frame must be positive"},
		{name: "negative scale", args: []string{"-scale", "-2", "a.ch8"}, message: "scale must be positive"},
		{name: "debug and quiet", args: []string{"-debug", "-q", "a.ch8"}, message: "mutually exclusive"},
		{name: "unknown flag", args: []string{"-turbo", "a.ch8"}, message: "turbo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags("chopper", tt.args)
			assert.ErrorContains(t, err, tt.message)

			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))

			var buf bytes.Buffer
			usageErr.ShowUsage(&buf)
			assert.Contains(t, buf.String(), "usage: chopper [options] <CHIP-8 program>")
			assert.Contains(t, buf.String(), "-cycles")
		})
	}
}
