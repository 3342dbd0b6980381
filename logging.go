package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const logTimeFormat = "2006-01-02 15:04:05"

// setupLogging points the global logger at w. verbose lowers the level to
// debug and mirrors every line to stderr.
func setupLogging(w io.Writer, verbose bool) {
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: logTimeFormat}
	level := zerolog.InfoLevel
	var writer io.Writer = out
	if verbose {
		level = zerolog.DebugLevel
		writer = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: logTimeFormat})
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
}

// openLog opens the append-only log file, falling back to stderr.
func openLog(path string) (io.Writer, func()) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}
