package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Jonlenes/simpleconf"
)

var osExit = os.Exit

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "simpleconf:", err)
		osExit(exitCode(err))
	}
}

// exitCode maps error categories to distinct process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, simpleconf.ErrConfigNotFound):
		return 2
	case errors.Is(err, simpleconf.ErrUnsupportedFormat):
		return 3
	case errors.Is(err, simpleconf.ErrInterpolation):
		return 4
	case errors.Is(err, simpleconf.ErrValidation):
		return 5
	case errors.Is(err, simpleconf.ErrLookup):
		return 6
	default:
		return 1
	}
}
