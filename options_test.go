package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (options, *cobra.Command, bool) {
	t.Helper()
	var got options
	ran := false
	cmd := newRootCmd(func(c *cobra.Command, o options) error {
		got, ran = o, true
		return nil
	})
	// nil args would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())
	return got, cmd, ran
}

func TestFlags(t *testing.T) {
	opts, _, ran := execute(t, "--hide", "-k", "--disable-notify", "-v")
	require.True(t, ran)
	assert.True(t, opts.hide)
	assert.True(t, opts.keepHDR)
	assert.True(t, opts.disableNotify)
	assert.True(t, opts.verbose)
	assert.False(t, opts.colorAccurate)
}

func TestLongFlags(t *testing.T) {
	opts, _, _ := execute(t, "--enable-keep-hdr", "--color-accurate")
	assert.True(t, opts.keepHDR)
	assert.True(t, opts.colorAccurate)
}

func TestUnknownFlagsIgnored(t *testing.T) {
	opts, _, ran := execute(t, "--from-installer", "-k", "stray")
	require.True(t, ran)
	assert.True(t, opts.keepHDR)
}

func TestHelpDoesNotRun(t *testing.T) {
	var out bytes.Buffer
	ran := false
	cmd := newRootCmd(func(*cobra.Command, options) error {
		ran = true
		return nil
	})
	cmd.SetArgs([]string{"-h"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.False(t, ran)
	assert.Contains(t, out.String(), "--enable-keep-hdr")
}

func TestApplyOverridesConfig(t *testing.T) {
	opts, cmd, _ := execute(t, "-k", "-c", "--disable-notify")
	cfg := defaultConfig()
	opts.apply(cmd, &cfg)
	assert.True(t, cfg.KeepHDR)
	assert.True(t, cfg.ColorAccurate)
	assert.False(t, cfg.Notify)

	opts, cmd, _ = execute(t)
	cfg = defaultConfig()
	cfg.KeepHDR = true
	opts.apply(cmd, &cfg)
	assert.True(t, cfg.KeepHDR, "absent switch keeps the config value")
	assert.True(t, cfg.Notify)
}
