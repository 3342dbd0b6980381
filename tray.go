package main

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/alex-vit/hdrbright/internal/displayconfig"
	"github.com/alex-vit/hdrbright/internal/engine"
	"github.com/alex-vit/hdrbright/internal/notify"
)

const notSupported = " (not supported)"

const (
	colorAccurateTip = "Request the color accurate display scenario"
	// The display enhancement override is bound to a CoreWindow view, which a
	// desktop tray process does not have.
	colorAccurateUnsupportedTip = "Windows offers the color accurate scenario only to apps with a CoreWindow view"
)

type toggle struct {
	Title   string
	Enabled bool
	Checked bool
	// Tooltip replaces the item's tooltip when set.
	Tooltip string
}

type pairItem struct {
	Label string
	Nits  float64
}

// trayView is what the tray menu and icon show for one snapshot.
type trayView struct {
	Tooltip       string
	Monitor       string
	Certs         string
	KeepHDR       toggle
	ColorAccurate toggle
	HDR           toggle
	// PairsMenu is the precise brightness submenu; Checked is unused.
	PairsMenu toggle
	Pairs     []pairItem
	// Fraction is the SDR white level within its range, for the icon.
	Fraction float64
	HDROn    bool
}

func supportTitle(title string, supported bool) string {
	if supported {
		return title
	}
	return title + notSupported
}

func pairLabel(level, nits float64) string {
	return fmt.Sprintf("Brightness %d (%d nits)", int(math.Round(level*100)), int(math.Round(nits)))
}

func viewOf(snap engine.Snapshot) trayView {
	v := trayView{
		Fraction: snap.SDRFraction(),
		HDROn:    snap.ColorKnown && snap.Color.Mode == displayconfig.ColorModeHDR,
	}

	keepHDR := snap.Capabilities.BrightnessNitsControlSupported
	v.KeepHDR = toggle{
		Title:   supportTitle("Keep HDR brightness", keepHDR),
		Enabled: keepHDR,
		Checked: keepHDR && snap.KeepHDR,
	}
	v.ColorAccurate = toggle{
		Title:   supportTitle("Color accurate", snap.ColorAccurateSupported),
		Enabled: snap.ColorAccurateSupported,
		Checked: snap.ColorAccurate,
		Tooltip: colorAccurateTip,
	}
	if !snap.ColorAccurateSupported {
		v.ColorAccurate.Tooltip = colorAccurateUnsupportedTip
	}
	v.HDR = toggle{
		Title:   "Use HDR",
		Enabled: snap.Resolved,
		Checked: v.HDROn,
	}

	v.PairsMenu = toggle{
		Title:   supportTitle("Precise SDR content brightness", keepHDR),
		Enabled: keepHDR,
	}
	if keepHDR {
		for _, p := range snap.Pairs {
			v.Pairs = append(v.Pairs, pairItem{Label: pairLabel(p.Level, p.Nits), Nits: p.Nits})
		}
	}

	if !snap.Resolved {
		v.Monitor = "No monitor"
		v.Tooltip = "hdrbright"
		return v
	}

	name := snap.Identity.FriendlyName
	if name == "" {
		name = "Monitor"
	}
	var parts []string
	if snap.ColorKnown {
		parts = append(parts, snap.Color.Mode.String())
		if v.HDROn {
			parts = append(parts, fmt.Sprintf("SDR %d nits", snap.SDRNits()))
		}
	}
	if snap.BacklightKnown {
		parts = append(parts, fmt.Sprintf("backlight %d%%", snap.Backlight))
	}
	v.Monitor = name
	if len(parts) > 0 {
		v.Monitor += ": " + strings.Join(parts, ", ")
	}
	// The notification area truncates tooltips at 127 characters.
	v.Tooltip = truncate("hdrbright\n"+v.Monitor, 127)

	if len(snap.Certifications) > 0 {
		v.Certs = strings.Join(snap.Certifications, ", ")
	}
	return v
}

// sliderInfoOf is the status line under the slider.
func sliderInfoOf(snap engine.Snapshot) string {
	if !snap.Resolved {
		return "No monitor"
	}
	var parts []string
	if snap.ColorKnown {
		parts = append(parts, snap.Color.Mode.String())
	}
	if snap.KeepHDR && snap.Capabilities.BrightnessNitsControlSupported {
		parts = append(parts, "keep HDR")
	}
	if snap.BacklightKnown {
		parts = append(parts, fmt.Sprintf("backlight %d%%", snap.Backlight))
	}
	if len(parts) == 0 {
		return snap.Identity.FriendlyName
	}
	return strings.Join(parts, ", ")
}

type snapshotSource interface {
	Subscribe(fn func(engine.Snapshot)) *notify.Subscription
}

// onFirstResolved runs fn once, for the first snapshot with a monitor, and
// then unsubscribes. Call it before the source starts publishing.
func onFirstResolved(src snapshotSource, fn func()) {
	var once sync.Once
	var sub *notify.Subscription
	sub = src.Subscribe(func(s engine.Snapshot) {
		if !s.Resolved {
			return
		}
		once.Do(func() {
			sub.Unsubscribe()
			fn()
		})
	})
}

// notice is a transient status line shown in place of the snapshot info
// until it expires.
type notice struct {
	mu    sync.Mutex
	text  string
	until time.Time
}

func (n *notice) set(text string, d time.Duration, now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.text, n.until = text, now.Add(d)
}

// info returns the notice while it lasts, otherwise fallback.
func (n *notice) info(fallback string, now time.Time) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.text == "" || !now.Before(n.until) {
		return fallback
	}
	return n.text
}

func calibrationNotice(err error) string {
	if err != nil {
		return "Could not reload monitor calibration"
	}
	return "Monitor calibration reloaded"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// autostartCommand is the Run key value: the quoted executable, always
// hidden, plus args.
func autostartCommand(exe string, args ...string) string {
	cmd := `"` + exe + `" --hide`
	for _, a := range args {
		cmd += " " + a
	}
	return cmd
}
