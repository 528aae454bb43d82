package kernel

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package-level structured logger for kernel events
// (allocation, bootstrap, fork, dispatch, kill, exit, reaping) — the equivalent of
// the original's cprintf debug output, but structured. Callers that want
// different sinks or levels can reassign it, e.g. in cmd's root command
// setup.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	With().Timestamp().Logger().
	Level(zerolog.InfoLevel)
