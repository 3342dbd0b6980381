// Package enhance queries and changes the display enhancement state of the
// monitor hosting a window: brightness capabilities, advanced color, SDR
// white level, the color-accurate scenario and global HDR.
//
// Every exported operation is safe to call from any goroutine and reports
// failure as a false/empty result after logging it.
package enhance

//go:generate mockgen -source=enhance.go -destination=mocks/enhance_mock.go -package=mocks

import (
	"errors"
	"math"
	"sync"

	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/displayconfig"
	"github.com/alex-vit/hdrbright/internal/dxgi"
	"github.com/alex-vit/hdrbright/internal/monitor"
	"github.com/alex-vit/hdrbright/internal/winrt"
)

// ErrNoMonitor is returned when the window does not resolve to a monitor.
var ErrNoMonitor = errors.New("enhance: window has no resolvable monitor")

// DisplayConfig is the DISPLAYCONFIG surface the adapter drives.
type DisplayConfig interface {
	ActivePaths() ([]displayconfig.Path, error)
	TargetDeviceName(t displayconfig.Target) (displayconfig.TargetName, error)
	AdvancedColor(t displayconfig.Target) (displayconfig.AdvancedColor, error)
	AdvancedColor2(t displayconfig.Target) (displayconfig.AdvancedColor2, error)
	SDRWhiteLevel(t displayconfig.Target) (float64, error)
	SetSDRWhiteLevel(t displayconfig.Target, nits int) error
	SetAdvancedColorState(t displayconfig.Target, enable bool) error
}

// Resolver maps a window to its monitor.
type Resolver interface {
	Resolve(hwnd uintptr) (monitor.Identity, bool)
	ResolvePath(hwnd uintptr) (displayconfig.Path, string, bool)
}

// Outputs describes a monitor's luminance and primaries.
type Outputs interface {
	OutputDesc(gdiName string) (dxgi.OutputDesc, error)
}

// Registry reads HKLM string values. A REG_SZ comes back as one element.
type Registry interface {
	ReadStrings(path, name string) ([]string, error)
}

// ColorOverride controls the color-accurate display scenario.
type ColorOverride interface {
	Active() (bool, error)
	SetAccurate(accurate bool) error
	Capabilities() (winrt.OverrideCapabilities, error)
}

// BrightnessSupport reports whether a monitor has OS brightness control.
type BrightnessSupport interface {
	Supports(instance string) bool
}

// NitRange is a supported luminance range. Step 0 means continuous.
type NitRange struct {
	Min, Max, Step float64
}

// SDRWhiteRange is the range of the SDR content brightness setting.
var SDRWhiteRange = NitRange{Min: brightness.MinNits, Max: brightness.MaxNits, Step: brightness.NitsStep}

// Capabilities of the monitor hosting a window.
type Capabilities struct {
	BrightnessControlSupported     bool
	BrightnessNitsControlSupported bool
	NitRanges                      []NitRange
}

// AdvancedColorInfo describes a monitor's color mode and panel metadata.
type AdvancedColorInfo struct {
	Mode              displayconfig.ColorMode
	SDRWhiteLevelNits float64

	MaxLuminance          float64
	MaxFullFrameLuminance float64
	MinLuminance          float64

	RedPrimary   dxgi.Chromaticity
	GreenPrimary dxgi.Chromaticity
	BluePrimary  dxgi.Chromaticity
	WhitePoint   dxgi.Chromaticity
}

// Adapter implements the enhancement operations over injected OS surfaces.
type Adapter struct {
	dc       DisplayConfig
	resolver Resolver
	outputs  Outputs
	registry Registry
	override ColorOverride
	support  BrightnessSupport
	certs    map[string]string

	overrideMu sync.Mutex
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithOutputs enables DXGI luminance and primaries.
func WithOutputs(o Outputs) Option {
	return func(a *Adapter) { a.outputs = o }
}

// WithRegistry enables certification lookups.
func WithRegistry(r Registry) Option {
	return func(a *Adapter) { a.registry = r }
}

// WithColorOverride enables the color-accurate scenario.
func WithColorOverride(o ColorOverride) Option {
	return func(a *Adapter) { a.override = o }
}

// WithBrightnessSupport enables brightness capability detection.
func WithBrightnessSupport(p BrightnessSupport) Option {
	return func(a *Adapter) { a.support = p }
}

// WithCertificationLabels adds or replaces GUID -> label entries.
func WithCertificationLabels(labels map[string]string) Option {
	return func(a *Adapter) {
		for guid, label := range labels {
			a.certs[normalizeGUID(guid)] = label
		}
	}
}

// NewAdapter creates an adapter. Optional surfaces left unset report as
// unsupported.
func NewAdapter(dc DisplayConfig, resolver Resolver, opts ...Option) *Adapter {
	a := &Adapter{
		dc:       dc,
		resolver: resolver,
		certs:    defaultCertifications(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ClampSDRNits rounds nits to the nearest integer, clamps it to the SDR
// white range and rounds up to the next step.
func ClampSDRNits(nits float64) int {
	if math.IsNaN(nits) {
		return brightness.MinNits
	}
	n := int(max(brightness.MinNits, min(brightness.MaxNits, math.Round(nits))))
	if r := n % brightness.NitsStep; r != 0 {
		n += brightness.NitsStep - r
	}
	return n
}
