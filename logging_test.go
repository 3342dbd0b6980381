package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogging(t *testing.T) {
	saved, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(level)
	})

	var buf bytes.Buffer
	setupLogging(&buf, false)
	log.Debug().Msg("hidden")
	log.Info().Str("monitor", "DELL").Msg("engine: monitor changed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "engine: monitor changed")
	assert.Contains(t, out, "monitor=DELL")
	assert.NotContains(t, out, "\x1b[", "file output has no color codes")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} INF `, out)
}

func TestSetupLoggingVerbose(t *testing.T) {
	saved, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(level)
	})

	var buf bytes.Buffer
	setupLogging(&buf, true)
	log.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
