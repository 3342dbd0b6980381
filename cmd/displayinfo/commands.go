package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/engine"
	"github.com/alex-vit/hdrbright/internal/enhance"
)

// backend is the display stack the commands drive.
type backend interface {
	HDRStatus() ([]enhance.HDRStatus, error)
	Snapshot(ctx context.Context, hwnd uintptr) (engine.Snapshot, error)
	Certifications(interfacePath string) []string
	SetSDRWhiteLevel(hwnd uintptr, nits float64) bool
	SetGlobalHDR(on bool) enhance.HDRSwitchResult
	Pairs(ctx context.Context, hwnd uintptr) ([]brightness.Pair, error)
	ForegroundWindow() uintptr
	Close()
}

type opener func() (backend, error)

const timeout = 10 * time.Second

func newRootCmd(open opener) *cobra.Command {
	var (
		verbose bool
		hwnd    uint64
	)
	root := &cobra.Command{
		Use:   "displayinfo",
		Short: "Inspect and change HDR display state",
		Long: `displayinfo reports the HDR state, SDR white level, panel luminance and
certifications of the attached monitors, and changes SDR white level and HDR.

Per-monitor commands act on the monitor showing the foreground window unless
--hwnd names another window.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().Uint64Var(&hwnd, "hwnd", 0, "Window whose monitor to use (default: foreground window)")

	// with opens the backend for one command and resolves the target window.
	with := func(fn func(ctx context.Context, b backend, hwnd uintptr) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			b, err := open()
			if err != nil {
				return err
			}
			defer b.Close()
			h := uintptr(hwnd)
			if h == 0 {
				h = b.ForegroundWindow()
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return fn(ctx, b, h)
		}
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List active displays and their HDR state",
		Args:  cobra.NoArgs,
	}
	list.RunE = with(func(_ context.Context, b backend, _ uintptr) error {
		rows, err := b.HDRStatus()
		if err != nil {
			return err
		}
		fmt.Fprintln(list.OutOrStdout(), statusTable(rows))
		return nil
	})

	info := &cobra.Command{
		Use:   "info",
		Short: "Show the enhancement state of the target monitor",
		Args:  cobra.NoArgs,
	}
	info.RunE = with(func(ctx context.Context, b backend, h uintptr) error {
		snap, err := b.Snapshot(ctx, h)
		if err != nil {
			return err
		}
		if !snap.Resolved {
			return errors.New("window is not on an active monitor")
		}
		fmt.Fprintln(info.OutOrStdout(), snapshotTable(snap))
		return nil
	})

	certs := &cobra.Command{
		Use:   "certs <interface-path>",
		Short: "List the HDR certifications of a monitor",
		Args:  cobra.ExactArgs(1),
	}
	certs.RunE = with(func(_ context.Context, b backend, _ uintptr) error {
		labels := b.Certifications(certs.Flags().Arg(0))
		if len(labels) == 0 {
			fmt.Fprintln(certs.OutOrStdout(), "no known HDR certifications")
			return nil
		}
		for _, l := range labels {
			fmt.Fprintln(certs.OutOrStdout(), l)
		}
		return nil
	})

	setSDR := &cobra.Command{
		Use:   "set-sdr <nits>",
		Short: "Set the SDR white level of the target monitor (80-480, step 4)",
		Args:  cobra.ExactArgs(1),
	}
	setSDR.RunE = with(func(_ context.Context, b backend, h uintptr) error {
		nits, err := strconv.ParseFloat(setSDR.Flags().Arg(0), 64)
		if err != nil {
			return fmt.Errorf("nits: %w", err)
		}
		n := enhance.ClampSDRNits(nits)
		if !b.SetSDRWhiteLevel(h, float64(n)) {
			return errors.New("could not set the SDR white level, see --verbose")
		}
		fmt.Fprintf(setSDR.OutOrStdout(), "SDR white level set to %d nits\n", n)
		return nil
	})

	hdr := &cobra.Command{
		Use:       "hdr on|off",
		Short:     "Turn HDR on or off on every capable display",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
	}
	hdr.RunE = with(func(_ context.Context, b backend, _ uintptr) error {
		res := b.SetGlobalHDR(hdr.Flags().Arg(0) == "on")
		fmt.Fprintln(hdr.OutOrStdout(), switchSummary(res))
		if !res.OK() {
			return errors.New("some displays could not be switched")
		}
		return nil
	})

	pairs := &cobra.Command{
		Use:   "pairs",
		Short: "List backlight levels that map exactly onto SDR white steps",
		Args:  cobra.NoArgs,
	}
	pairs.RunE = with(func(ctx context.Context, b backend, h uintptr) error {
		ps, err := b.Pairs(ctx, h)
		if err != nil && len(ps) == 0 {
			return err
		}
		fmt.Fprintln(pairs.OutOrStdout(), pairsTable(ps))
		return nil
	})

	root.AddCommand(list, info, certs, setSDR, hdr, pairs)
	return root
}
