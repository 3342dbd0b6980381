package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/displayconfig"
	"github.com/alex-vit/hdrbright/internal/engine"
	"github.com/alex-vit/hdrbright/internal/enhance"
	"github.com/alex-vit/hdrbright/internal/monitor"
	"github.com/alex-vit/hdrbright/internal/notify"
)

func hdrSnapshot() engine.Snapshot {
	return engine.Snapshot{
		Resolved: true,
		Identity: monitor.Identity{FriendlyName: "DELL U2720Q"},
		Capabilities: enhance.Capabilities{
			BrightnessControlSupported:     true,
			BrightnessNitsControlSupported: true,
		},
		Color:          enhance.AdvancedColorInfo{Mode: displayconfig.ColorModeHDR, SDRWhiteLevelNits: 280},
		ColorKnown:     true,
		Backlight:      55,
		BacklightKnown: true,
		KeepHDR:        true,
		Certifications: []string{"VESA DisplayHDR 400"},
		Pairs: []brightness.Pair{
			{Level: 0, Nits: 80},
			{Level: 0.5, Nits: 280},
		},
	}
}

func TestPairLabel(t *testing.T) {
	assert.Equal(t, "Brightness 55 (300 nits)", pairLabel(0.55, 300))
	assert.Equal(t, "Brightness 0 (80 nits)", pairLabel(0.001, 80.2))
	assert.Equal(t, "Brightness 100 (480 nits)", pairLabel(1, 480))
}

func TestSupportTitle(t *testing.T) {
	assert.Equal(t, "Color accurate", supportTitle("Color accurate", true))
	assert.Equal(t, "Color accurate (not supported)", supportTitle("Color accurate", false))
}

func TestViewOfHDRMonitor(t *testing.T) {
	v := viewOf(hdrSnapshot())

	assert.Equal(t, toggle{Title: "Keep HDR brightness", Enabled: true, Checked: true}, v.KeepHDR)
	assert.Equal(t, toggle{Title: "Color accurate (not supported)", Tooltip: colorAccurateUnsupportedTip}, v.ColorAccurate)
	assert.Equal(t, toggle{Title: "Precise SDR content brightness", Enabled: true}, v.PairsMenu)
	assert.Equal(t, toggle{Title: "Use HDR", Enabled: true, Checked: true}, v.HDR)
	assert.True(t, v.HDROn)
	assert.InDelta(t, 0.5, v.Fraction, 1e-9)
	assert.Equal(t, "DELL U2720Q: HDR, SDR 280 nits, backlight 55%", v.Monitor)
	assert.Equal(t, "hdrbright\n"+v.Monitor, v.Tooltip)
	assert.Equal(t, "VESA DisplayHDR 400", v.Certs)
	assert.Equal(t, []pairItem{
		{Label: "Brightness 0 (80 nits)", Nits: 80},
		{Label: "Brightness 50 (280 nits)", Nits: 280},
	}, v.Pairs)
}

func TestViewOfUnsupportedKeepHDR(t *testing.T) {
	s := hdrSnapshot()
	s.Capabilities.BrightnessNitsControlSupported = false
	s.Color.Mode = displayconfig.ColorModeSDR

	v := viewOf(s)
	assert.Equal(t, toggle{Title: "Keep HDR brightness (not supported)"}, v.KeepHDR,
		"an unsupported toggle is never shown as checked")
	assert.False(t, v.HDR.Checked)
	assert.Equal(t, "DELL U2720Q: SDR, backlight 55%", v.Monitor)
	assert.Equal(t, toggle{Title: "Precise SDR content brightness (not supported)"}, v.PairsMenu)
	assert.Empty(t, v.Pairs, "stale pairs are not offered without nits control")
}

func TestViewOfColorAccurateSupported(t *testing.T) {
	s := hdrSnapshot()
	s.ColorAccurateSupported = true
	s.ColorAccurate = true
	v := viewOf(s)
	assert.Equal(t, toggle{Title: "Color accurate", Enabled: true, Checked: true, Tooltip: colorAccurateTip}, v.ColorAccurate)
}

func TestViewOfUnresolved(t *testing.T) {
	v := viewOf(engine.Snapshot{KeepHDR: true})
	assert.Equal(t, "No monitor", v.Monitor)
	assert.Equal(t, "hdrbright", v.Tooltip)
	assert.False(t, v.HDR.Enabled)
	assert.False(t, v.KeepHDR.Checked)
	assert.Zero(t, v.Fraction)
}

func TestTooltipTruncated(t *testing.T) {
	s := hdrSnapshot()
	s.Identity.FriendlyName = strings.Repeat("x", 200)
	v := viewOf(s)
	assert.Len(t, []rune(v.Tooltip), 127)
	assert.True(t, strings.HasSuffix(v.Tooltip, "…"))
}

func TestSliderInfo(t *testing.T) {
	assert.Equal(t, "HDR, keep HDR, backlight 55%", sliderInfoOf(hdrSnapshot()))
	assert.Equal(t, "No monitor", sliderInfoOf(engine.Snapshot{}))
	assert.Equal(t, "Panel", sliderInfoOf(engine.Snapshot{Resolved: true, Identity: monitor.Identity{FriendlyName: "Panel"}}))
}

func TestAutostartCommand(t *testing.T) {
	assert.Equal(t, `"C:\Apps\hdrbright.exe" --hide`, autostartCommand(`C:\Apps\hdrbright.exe`))
	assert.Equal(t, `"C:\a b\h.exe" --hide -k`, autostartCommand(`C:\a b\h.exe`, "-k"))
}

func TestNoticeExpires(t *testing.T) {
	var n notice
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "HDR", n.info("HDR", now))

	n.set(calibrationNotice(errors.New("denied")), 3*time.Second, now)
	assert.Equal(t, "Could not reload monitor calibration", n.info("HDR", now.Add(time.Second)))
	assert.Equal(t, "HDR", n.info("HDR", now.Add(3*time.Second)))

	n.set(calibrationNotice(nil), time.Second, now)
	assert.Equal(t, "Monitor calibration reloaded", n.info("HDR", now))
}

func TestOnFirstResolved(t *testing.T) {
	var hub notify.Hub[engine.Snapshot]
	calls := 0
	onFirstResolved(&hub, func() { calls++ })

	hub.Publish(engine.Snapshot{})
	assert.Zero(t, calls, "no monitor yet")
	hub.Publish(hdrSnapshot())
	hub.Publish(hdrSnapshot())
	assert.Equal(t, 1, calls)
	assert.Zero(t, hub.Len(), "unsubscribed after the first resolved snapshot")
}
