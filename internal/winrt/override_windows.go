//go:build windows

package winrt

import (
	"context"
	"fmt"
	"unsafe"

	ole "github.com/go-ole/go-ole"

	"github.com/alex-vit/hdrbright/internal/com"
)

const (
	displayEnhancementOverrideClass = "Windows.Graphics.Display.DisplayEnhancementOverride"
	colorOverrideSettingsClass      = "Windows.Graphics.Display.ColorOverrideSettings"
)

var (
	iidDisplayEnhancementOverrideStatics = ole.NewGUID("{CF5B7EC1-9791-4453-B013-29B6F778E519}")
	iidColorOverrideSettingsStatics      = ole.NewGUID("{B068E05F-C41F-4AC9-AFAB-827AB6248F9A}")
)

const (
	// IDisplayEnhancementOverrideStatics
	overrideGetForCurrentView = 6

	// IDisplayEnhancementOverride
	overridePutColorSettings = 7
	overrideCanOverride      = 10
	overrideIsActive         = 11
	overrideGetCapabilities  = 12
	overrideRequestOverride  = 13
	overrideStopOverride     = 14

	// IColorOverrideSettingsStatics
	colorCreateFromScenario = 6

	// IDisplayEnhancementOverrideCapabilities
	capsBrightnessSupported     = 6
	capsBrightnessNitsSupported = 7
	capsSupportedNitRanges      = 8

	// IVectorView<NitRange>
	vectorGetAt   = 6
	vectorGetSize = 7

	scenarioAccurate = 0
)

// ColorOverride drives the color-accurate display scenario. The override
// object is view bound and lives on an STA apartment.
type ColorOverride struct {
	sta      *com.Apartment
	override uintptr
	color    uintptr
}

// NewColorOverride obtains the override for the current view. Processes
// without a core window get ErrUnsupported.
func NewColorOverride(sta *com.Apartment) (*ColorOverride, error) {
	o := &ColorOverride{sta: sta}
	err := sta.Do(context.Background(), func() error {
		statics, err := com.ActivationFactory(displayEnhancementOverrideClass, iidDisplayEnhancementOverrideStatics)
		if err != nil {
			return err
		}
		defer com.Release(statics)

		if err := com.Call(statics, overrideGetForCurrentView, uintptr(unsafe.Pointer(&o.override))); err != nil || o.override == 0 {
			return fmt.Errorf("GetForCurrentView: %w (%v)", ErrUnsupported, err)
		}
		o.color, err = com.ActivationFactory(colorOverrideSettingsClass, iidColorOverrideSettingsStatics)
		if err != nil {
			com.Release(o.override)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (o *ColorOverride) getBool(idx int) (bool, error) {
	var v uint8
	err := o.sta.Do(context.Background(), func() error {
		return com.Call(o.override, idx, uintptr(unsafe.Pointer(&v)))
	})
	return v != 0, err
}

// Active reports whether an override is currently applied.
func (o *ColorOverride) Active() (bool, error) {
	return o.getBool(overrideIsActive)
}

// CanOverride reports whether the system would honor a request now.
func (o *ColorOverride) CanOverride() (bool, error) {
	return o.getBool(overrideCanOverride)
}

// SetAccurate requests the accurate color scenario, or stops the override.
func (o *ColorOverride) SetAccurate(accurate bool) error {
	return o.sta.Do(context.Background(), func() error {
		if !accurate {
			return com.Call(o.override, overrideStopOverride)
		}
		var settings uintptr
		if err := com.Call(o.color, colorCreateFromScenario, scenarioAccurate, uintptr(unsafe.Pointer(&settings))); err != nil {
			return fmt.Errorf("CreateFromDisplayColorOverrideScenario: %w", err)
		}
		defer com.Release(settings)
		if err := com.Call(o.override, overridePutColorSettings, settings); err != nil {
			return fmt.Errorf("put_ColorOverrideSettings: %w", err)
		}
		return com.Call(o.override, overrideRequestOverride)
	})
}

// Capabilities reads the current display's override capabilities.
func (o *ColorOverride) Capabilities() (OverrideCapabilities, error) {
	var caps OverrideCapabilities
	err := o.sta.Do(context.Background(), func() error {
		var c uintptr
		if err := com.Call(o.override, overrideGetCapabilities, uintptr(unsafe.Pointer(&c))); err != nil {
			return fmt.Errorf("GetCurrentDisplayEnhancementOverrideCapabilities: %w", err)
		}
		defer com.Release(c)

		var b, nits uint8
		if err := com.Call(c, capsBrightnessSupported, uintptr(unsafe.Pointer(&b))); err != nil {
			return err
		}
		if err := com.Call(c, capsBrightnessNitsSupported, uintptr(unsafe.Pointer(&nits))); err != nil {
			return err
		}
		caps.BrightnessSupported = b != 0
		caps.BrightnessNitsSupported = nits != 0

		var ranges uintptr
		if err := com.Call(c, capsSupportedNitRanges, uintptr(unsafe.Pointer(&ranges))); err != nil {
			return err
		}
		defer com.Release(ranges)
		var n uint32
		if err := com.Call(ranges, vectorGetSize, uintptr(unsafe.Pointer(&n))); err != nil {
			return err
		}
		for i := range n {
			var r NitRange
			if err := com.Call(ranges, vectorGetAt, uintptr(i), uintptr(unsafe.Pointer(&r))); err != nil {
				return err
			}
			caps.NitRanges = append(caps.NitRanges, r)
		}
		return nil
	})
	return caps, err
}

// Close releases the override objects.
func (o *ColorOverride) Close() {
	_ = o.sta.Do(context.Background(), func() error {
		com.Release(o.color)
		com.Release(o.override)
		o.color, o.override = 0, 0
		return nil
	})
}
