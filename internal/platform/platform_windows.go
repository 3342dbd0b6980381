//go:build windows

// Package platform assembles the Windows implementations behind the engine:
// COM apartments, WinRT statics, WMI, DXGI, DISPLAYCONFIG, DDC/CI and the
// calibration loader task. Pieces that fail to load are left out and the
// features depending on them report themselves unsupported.
package platform

import (
	"github.com/rs/zerolog/log"

	"github.com/alex-vit/hdrbright/internal/backlight"
	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/calibration"
	"github.com/alex-vit/hdrbright/internal/com"
	"github.com/alex-vit/hdrbright/internal/displayconfig"
	"github.com/alex-vit/hdrbright/internal/dxgi"
	"github.com/alex-vit/hdrbright/internal/engine"
	"github.com/alex-vit/hdrbright/internal/enhance"
	"github.com/alex-vit/hdrbright/internal/monitor"
	"github.com/alex-vit/hdrbright/internal/winrt"
	"github.com/alex-vit/hdrbright/internal/wmi"
)

// unsupportedCurve stands in when the brightness settings statics are
// missing; every lookup fails and keep-HDR stays inert.
type unsupportedCurve struct{}

func (unsupportedCurve) NitsForLevel(float64) (float64, error) { return 0, winrt.ErrUnsupported }
func (unsupportedCurve) LevelForNits(float64) (float64, error) { return 0, winrt.ErrUnsupported }

// Stack owns every OS handle the engine needs.
type Stack struct {
	Resolver     *monitor.Resolver
	Adapter      *enhance.Adapter
	Cache        *brightness.Cache
	Watcher      *wmi.Watcher
	BacklightFor engine.BacklightFor
	Calibration  *calibration.Loader

	mta, sta *com.Apartment
	curve    *winrt.BrightnessCurve
	override *winrt.ColorOverride
	session  *wmi.Session
}

// Open builds the stack. Only a missing MTA apartment is fatal.
// certLabels extends the built-in HDR certification labels.
func Open(certLabels map[string]string) (*Stack, error) {
	s := &Stack{}

	var err error
	if s.mta, err = com.NewMTA(); err != nil {
		return nil, err
	}

	var curve brightness.Curve = unsupportedCurve{}
	if s.curve, err = winrt.NewBrightnessCurve(s.mta); err == nil {
		curve = s.curve
	} else {
		log.Warn().Err(err).Msg("platform: brightness settings unavailable, keep hdr brightness disabled")
	}
	s.Cache = brightness.NewCache(curve)

	dc := displayconfig.API{}
	s.Resolver = monitor.NewResolver(dc)
	opts := []enhance.Option{
		enhance.WithOutputs(dxgi.API{}),
		enhance.WithRegistry(enhance.LocalMachine{}),
		enhance.WithCertificationLabels(certLabels),
	}

	if s.sta, err = com.NewSTA(); err == nil {
		if s.override, err = winrt.NewColorOverride(s.sta); err == nil {
			opts = append(opts, enhance.WithColorOverride(s.override))
		} else {
			log.Info().Err(err).Msg("platform: color override unavailable")
		}
	} else {
		log.Warn().Err(err).Msg("platform: sta apartment unavailable")
	}

	// A nil *wmi.Session must not reach backlight.Select as a non-nil
	// interface.
	var panels backlight.Session
	if s.session, err = wmi.Connect(); err == nil {
		opts = append(opts, enhance.WithBrightnessSupport(s.session))
		panels = s.session
	} else {
		log.Warn().Err(err).Msg("platform: wmi unavailable, internal panel brightness disabled")
	}

	ddc := backlight.NewDDC(backlight.EnumeratePhysical)
	s.BacklightFor = func(instance string) backlight.Backlight {
		return backlight.Select(instance, panels, ddc)
	}

	s.Calibration = calibration.New(calibration.NewTaskScheduler(s.mta))
	s.Adapter = enhance.NewAdapter(dc, s.Resolver, opts...)
	s.Watcher = wmi.NewWatcher("")
	return s, nil
}

// NewEngine creates an engine over the stack.
func (s *Stack) NewEngine(opts ...engine.Option) *engine.Engine {
	return engine.New(s.Resolver, s.Adapter, s.Cache, s.Watcher, s.BacklightFor, opts...)
}

// Close releases the stack. Engines built on it must be closed first.
func (s *Stack) Close() {
	s.Watcher.Close()
	if s.override != nil {
		s.override.Close()
	}
	if s.curve != nil {
		s.curve.Close()
	}
	if s.session != nil {
		s.session.Close()
	}
	if s.sta != nil {
		s.sta.Close()
	}
	s.mta.Close()
}
