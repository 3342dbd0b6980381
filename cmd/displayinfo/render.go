package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/displayconfig"
	"github.com/alex-vit/hdrbright/internal/dxgi"
	"github.com/alex-vit/hdrbright/internal/engine"
	"github.com/alex-vit/hdrbright/internal/enhance"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = cellStyle.Foreground(lipgloss.Color("250"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func statusTable(rows []enhance.HDRStatus) string {
	t := newTable("ID", "Monitor", "HDR supported", "HDR on", "Device path")
	for _, r := range rows {
		t.Row(fmt.Sprint(r.DisplayID), r.FriendlyName, yesNo(r.Supported), yesNo(r.Enabled), r.DevicePath)
	}
	return t.String()
}

func nits(v float64) string {
	if v <= 0 || math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.0f nits", v)
}

func chroma(c dxgi.Chromaticity) string {
	if c == (dxgi.Chromaticity{}) {
		return "-"
	}
	return fmt.Sprintf("(%.3f, %.3f)", c.X, c.Y)
}

func ranges(rs []enhance.NitRange) string {
	if len(rs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		s := fmt.Sprintf("%.0f-%.0f", r.Min, r.Max)
		if r.Step > 0 {
			s += fmt.Sprintf(" step %.0f", r.Step)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func snapshotTable(s engine.Snapshot) string {
	t := newTable("Property", "Value").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			}
			return cellStyle
		})

	t.Row("Monitor", s.Identity.FriendlyName)
	t.Row("Device path", s.Identity.InterfacePath)
	t.Row("WMI instance", s.Identity.WMIInstanceName)

	mode := "unknown"
	if s.ColorKnown {
		mode = s.Color.Mode.String()
	}
	t.Row("Color mode", mode)
	if s.ColorKnown {
		sdr := "-"
		if s.Color.Mode == displayconfig.ColorModeHDR {
			sdr = fmt.Sprintf("%d nits", s.SDRNits())
		}
		t.Row("SDR white level", sdr)
		t.Row("Max luminance", nits(s.Color.MaxLuminance))
		t.Row("Max full-frame", nits(s.Color.MaxFullFrameLuminance))
		t.Row("Min luminance", fmt.Sprintf("%.4f nits", s.Color.MinLuminance))
		t.Row("Red / green / blue", strings.Join([]string{
			chroma(s.Color.RedPrimary), chroma(s.Color.GreenPrimary), chroma(s.Color.BluePrimary),
		}, " "))
		t.Row("White point", chroma(s.Color.WhitePoint))
	}

	backlight := "-"
	if s.BacklightKnown {
		backlight = fmt.Sprintf("%d%%", s.Backlight)
	}
	t.Row("Backlight", backlight)
	t.Row("Brightness control", yesNo(s.Capabilities.BrightnessControlSupported))
	t.Row("Nits control", yesNo(s.Capabilities.BrightnessNitsControlSupported))
	t.Row("Nit ranges", ranges(s.Capabilities.NitRanges))

	accurate := "not supported"
	if s.ColorAccurateSupported {
		accurate = yesNo(s.ColorAccurate)
	}
	t.Row("Color accurate", accurate)

	certs := "-"
	if len(s.Certifications) > 0 {
		certs = strings.Join(s.Certifications, ", ")
	}
	t.Row("Certifications", certs)
	return t.String()
}

func pairsTable(pairs []brightness.Pair) string {
	if len(pairs) == 0 {
		return "no available brightness"
	}
	t := newTable("Backlight", "SDR white")
	for _, p := range pairs {
		t.Row(fmt.Sprintf("%d%%", int(math.Round(p.Level*100))), nits(p.Nits))
	}
	return t.String()
}

func targets(ts []displayconfig.Target) string {
	ids := make([]string, 0, len(ts))
	for _, t := range ts {
		ids = append(ids, fmt.Sprint(t.ID))
	}
	return strings.Join(ids, ", ")
}

func switchSummary(res enhance.HDRSwitchResult) string {
	if res.Err != nil {
		return "could not enumerate displays: " + res.Err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "switched: %d", len(res.Switched))
	if len(res.Switched) > 0 {
		fmt.Fprintf(&b, " (%s)", targets(res.Switched))
	}
	fmt.Fprintf(&b, ", skipped: %d, failed: %d", len(res.Skipped), len(res.Failed))
	if len(res.Failed) > 0 {
		fmt.Fprintf(&b, " (%s)", targets(res.Failed))
	}
	return b.String()
}
