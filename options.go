package main

import (
	"github.com/spf13/cobra"
)

// options are the command line switches of the tray host. They override the
// matching config values for one run.
type options struct {
	hide          bool
	keepHDR       bool
	colorAccurate bool
	disableNotify bool
	verbose       bool
}

func newRootCmd(run func(cmd *cobra.Command, opts options) error) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "hdrbright",
		Short: "Tray utility for HDR and SDR content brightness",
		Long: `hdrbright sits in the notification area and controls the SDR content
brightness of the monitor it is shown on. With keep HDR brightness on, the
SDR white level follows the backlight so HDR content keeps its brightness.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.hide, "hide", false, "Start without showing the brightness popup")
	flags.BoolVarP(&opts.keepHDR, "enable-keep-hdr", "k", false, "Turn on keep HDR brightness")
	flags.BoolVarP(&opts.colorAccurate, "color-accurate", "c", false, "Request the color accurate scenario")
	flags.BoolVar(&opts.disableNotify, "disable-notify", false, "Do not pop up the slider when a hotkey changes brightness")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level and mirror the log to stderr")
	return cmd
}

// apply folds the switches that were given into cfg. Switches only turn
// features on; the config file is the place to turn them off.
func (o options) apply(cmd *cobra.Command, cfg *config) {
	flags := cmd.Flags()
	if flags.Changed("enable-keep-hdr") && o.keepHDR {
		cfg.KeepHDR = true
	}
	if flags.Changed("color-accurate") && o.colorAccurate {
		cfg.ColorAccurate = true
	}
	if o.disableNotify {
		cfg.Notify = false
	}
}
