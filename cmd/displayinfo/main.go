// Command displayinfo prints and changes the HDR state of the attached
// monitors from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cmd := newRootCmd(openBackend)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "displayinfo:", err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
