package enhance

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/alex-vit/hdrbright/internal/displayconfig"
)

// HDRSwitchResult reports what SetGlobalHDR did per target.
type HDRSwitchResult struct {
	Switched []displayconfig.Target
	Skipped  []displayconfig.Target
	Failed   []displayconfig.Target
	// Err is set when the active paths could not be enumerated.
	Err error
}

// OK reports whether no target failed.
func (r HDRSwitchResult) OK() bool {
	return r.Err == nil && len(r.Failed) == 0
}

// SetGlobalHDR turns HDR on or off for every active target that supports it.
// A failing target is logged and skipped; targets already switched stay
// switched.
func (a *Adapter) SetGlobalHDR(enable bool) HDRSwitchResult {
	var res HDRSwitchResult
	paths, err := a.dc.ActivePaths()
	if err != nil {
		log.Error().Err(err).Msg("enhance: global hdr: query paths failed")
		res.Err = err
		return res
	}

	seen := make(map[displayconfig.Target]bool)
	for _, p := range paths {
		t := p.Target
		if seen[t] {
			continue
		}
		seen[t] = true

		ac, err := a.dc.AdvancedColor(t)
		if err != nil {
			log.Warn().Err(err).Uint32("target", t.ID).Msg("enhance: global hdr: read state failed")
			res.Failed = append(res.Failed, t)
			continue
		}
		if !ac.Supported || ac.Enabled == enable {
			res.Skipped = append(res.Skipped, t)
			continue
		}
		if err := a.dc.SetAdvancedColorState(t, enable); err != nil {
			log.Warn().Err(err).Uint32("target", t.ID).Bool("enable", enable).Msg("enhance: global hdr: set state failed")
			res.Failed = append(res.Failed, t)
			continue
		}
		res.Switched = append(res.Switched, t)
	}
	log.Info().Bool("enable", enable).
		Int("switched", len(res.Switched)).
		Int("skipped", len(res.Skipped)).
		Int("failed", len(res.Failed)).
		Msg("enhance: global hdr")
	return res
}

// HDRStatus is the HDR state of one active target.
type HDRStatus struct {
	DisplayID    uint32
	DevicePath   string
	FriendlyName string
	Supported    bool
	Enabled      bool
}

// HDRStatus lists the HDR state of every active target.
func (a *Adapter) HDRStatus() ([]HDRStatus, error) {
	paths, err := a.dc.ActivePaths()
	if err != nil {
		return nil, fmt.Errorf("active paths: %w", err)
	}
	out := make([]HDRStatus, 0, len(paths))
	for _, p := range paths {
		st := HDRStatus{DisplayID: p.Target.ID}
		if name, err := a.dc.TargetDeviceName(p.Target); err == nil {
			st.DevicePath = name.DevicePath
			st.FriendlyName = name.FriendlyName
		}
		if ac, err := a.dc.AdvancedColor(p.Target); err == nil {
			st.Supported = ac.Supported
			st.Enabled = ac.Enabled
		}
		out = append(out, st)
	}
	return out, nil
}
