// Package winrt binds the Windows.Graphics.Display runtime classes used for
// brightness calibration and the color-accurate display scenario.
package winrt

import "errors"

// ErrUnsupported is returned when the runtime class exists but has no
// instance for this process, e.g. an override without a core window.
var ErrUnsupported = errors.New("winrt: not supported")

// NitRange mirrors Windows.Graphics.Display.NitRange.
type NitRange struct {
	MinNits      float32
	MaxNits      float32
	StepSizeNits float32
}

// OverrideCapabilities mirrors DisplayEnhancementOverrideCapabilities.
type OverrideCapabilities struct {
	BrightnessSupported     bool
	BrightnessNitsSupported bool
	NitRanges               []NitRange
}
