package enhance

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/alex-vit/hdrbright/internal/displayconfig"
	"github.com/alex-vit/hdrbright/internal/winrt"
)

// Capabilities reports what brightness control the monitor hosting hwnd
// offers. The OS override capabilities are used when available; otherwise
// they are derived from WMI presence and the panel's HDR support.
func (a *Adapter) Capabilities(hwnd uintptr) Capabilities {
	id, ok := a.resolver.Resolve(hwnd)
	if !ok {
		log.Debug().Msg("enhance: capabilities: no monitor")
		return Capabilities{}
	}

	if a.override != nil {
		oc, err := a.override.Capabilities()
		if err == nil {
			return fromOverride(oc)
		}
		log.Debug().Err(err).Msg("enhance: override capabilities unavailable")
	}

	var caps Capabilities
	caps.BrightnessControlSupported = a.support != nil && a.support.Supports(id.WMIInstanceName)
	if !caps.BrightnessControlSupported || !a.hdrSupported(id.Path.Target) {
		return caps
	}

	caps.BrightnessNitsControlSupported = true
	caps.NitRanges = append(caps.NitRanges, SDRWhiteRange)
	if a.outputs != nil {
		d, err := a.outputs.OutputDesc(id.GDIName)
		switch {
		case err != nil:
			log.Debug().Err(err).Str("gdi", id.GDIName).Msg("enhance: output descriptor failed")
		case d.MaxLuminance > 0:
			caps.NitRanges = append(caps.NitRanges, NitRange{Min: d.MinLuminance, Max: d.MaxLuminance})
		}
	}
	sortRanges(caps.NitRanges)
	return caps
}

func fromOverride(oc winrt.OverrideCapabilities) Capabilities {
	caps := Capabilities{
		BrightnessControlSupported:     oc.BrightnessSupported,
		BrightnessNitsControlSupported: oc.BrightnessNitsSupported,
	}
	for _, r := range oc.NitRanges {
		caps.NitRanges = append(caps.NitRanges, NitRange{
			Min:  float64(r.MinNits),
			Max:  float64(r.MaxNits),
			Step: float64(r.StepSizeNits),
		})
	}
	sortRanges(caps.NitRanges)
	return caps
}

func sortRanges(r []NitRange) {
	sort.SliceStable(r, func(i, j int) bool { return r[i].Min < r[j].Min })
}

// hdrSupported prefers the 24H2 advanced color query and falls back to the
// original one.
func (a *Adapter) hdrSupported(t displayconfig.Target) bool {
	if ac2, err := a.dc.AdvancedColor2(t); err == nil {
		return ac2.HDRSupported
	}
	ac, err := a.dc.AdvancedColor(t)
	if err != nil {
		log.Debug().Err(err).Uint32("target", t.ID).Msg("enhance: advanced color query failed")
		return false
	}
	return ac.Supported
}
