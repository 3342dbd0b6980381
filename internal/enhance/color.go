package enhance

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/alex-vit/hdrbright/internal/displayconfig"
)

// AdvancedColorInfo reads the color mode, SDR white level and panel metadata
// of the monitor hosting hwnd. Panel metadata is left zero when DXGI has no
// descriptor for the output.
func (a *Adapter) AdvancedColorInfo(hwnd uintptr) (AdvancedColorInfo, error) {
	p, gdiName, ok := a.resolver.ResolvePath(hwnd)
	if !ok {
		return AdvancedColorInfo{}, ErrNoMonitor
	}

	var info AdvancedColorInfo
	if ac2, err := a.dc.AdvancedColor2(p.Target); err == nil {
		info.Mode = ac2.Mode
	} else {
		ac, err := a.dc.AdvancedColor(p.Target)
		if err != nil {
			return AdvancedColorInfo{}, fmt.Errorf("advanced color: %w", err)
		}
		if ac.Enabled {
			info.Mode = displayconfig.ColorModeHDR
		}
	}

	nits, err := a.dc.SDRWhiteLevel(p.Target)
	if err != nil {
		log.Debug().Err(err).Msg("enhance: sdr white level unavailable")
	}
	info.SDRWhiteLevelNits = nits

	if a.outputs == nil {
		return info, nil
	}
	d, err := a.outputs.OutputDesc(gdiName)
	if err != nil {
		log.Debug().Err(err).Str("gdi", gdiName).Msg("enhance: output descriptor failed")
		return info, nil
	}
	info.MaxLuminance = d.MaxLuminance
	info.MaxFullFrameLuminance = d.MaxFullFrameLuminance
	info.MinLuminance = d.MinLuminance
	info.RedPrimary = d.Red
	info.GreenPrimary = d.Green
	info.BluePrimary = d.Blue
	info.WhitePoint = d.White
	return info, nil
}

// SetSDRWhiteLevelNits sets the SDR content brightness of the monitor hosting
// hwnd. nits is normalized with ClampSDRNits first.
func (a *Adapter) SetSDRWhiteLevelNits(hwnd uintptr, nits float64) bool {
	n := ClampSDRNits(nits)
	p, _, ok := a.resolver.ResolvePath(hwnd)
	if !ok {
		log.Warn().Int("nits", n).Msg("enhance: set sdr white level: no monitor")
		return false
	}
	if err := a.dc.SetSDRWhiteLevel(p.Target, n); err != nil {
		log.Warn().Err(err).Int("nits", n).Uint32("target", p.Target.ID).Msg("enhance: set sdr white level failed")
		return false
	}
	log.Debug().Int("nits", n).Uint32("target", p.Target.ID).Msg("enhance: sdr white level set")
	return true
}

// ColorOverrideSupported reports whether the color-accurate scenario can be
// requested at all.
func (a *Adapter) ColorOverrideSupported() bool {
	return a.override != nil
}

// ColorOverrideActive reports whether an override is currently applied.
func (a *Adapter) ColorOverrideActive() bool {
	if a.override == nil {
		return false
	}
	active, err := a.override.Active()
	if err != nil {
		log.Debug().Err(err).Msg("enhance: override state unavailable")
		return false
	}
	return active
}

// SetColorOverrideScenario requests (accurate) or stops the color-accurate
// scenario. Requests matching the live state are no-ops.
func (a *Adapter) SetColorOverrideScenario(accurate bool) bool {
	if a.override == nil {
		return false
	}
	a.overrideMu.Lock()
	defer a.overrideMu.Unlock()

	active, err := a.override.Active()
	if err != nil {
		log.Warn().Err(err).Msg("enhance: read override state failed")
		return false
	}
	if active == accurate {
		return true
	}
	if err := a.override.SetAccurate(accurate); err != nil {
		log.Warn().Err(err).Bool("accurate", accurate).Msg("enhance: color override failed")
		return false
	}
	log.Info().Bool("accurate", accurate).Msg("enhance: color override changed")
	return true
}
