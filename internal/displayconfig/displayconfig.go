// Package displayconfig wraps the user32 DISPLAYCONFIG API: active path
// enumeration, per-target device-info queries and the setters used to change
// SDR white level and HDR state.
package displayconfig

import "errors"

// SDR white level slider limits as exposed by Windows display settings.
const (
	MinSDRNits  = 80
	MaxSDRNits  = 480
	SDRNitsStep = 4
)

// ErrNotFound is returned when no active path matches the requested device.
var ErrNotFound = errors.New("displayconfig: no matching active path")

// LUID mirrors the Win32 LUID used to identify a display adapter.
type LUID struct {
	LowPart  uint32
	HighPart int32
}

// Target addresses one side (source or target) of a display path.
type Target struct {
	AdapterID LUID
	ID        uint32
}

// Path is an active source->target display path.
type Path struct {
	Source Target
	Target Target
}

// TargetName is the monitor description returned for a target.
type TargetName struct {
	FriendlyName     string
	DevicePath       string
	OutputTechnology uint32
}

// ColorMode is the active color pipeline of a target.
type ColorMode uint32

const (
	ColorModeSDR ColorMode = iota
	ColorModeWCG
	ColorModeHDR
)

func (m ColorMode) String() string {
	switch m {
	case ColorModeSDR:
		return "SDR"
	case ColorModeWCG:
		return "WCG"
	case ColorModeHDR:
		return "HDR"
	}
	return "unknown"
}

// AdvancedColor is the legacy advanced color (HDR) state of a target.
type AdvancedColor struct {
	Supported      bool
	Enabled        bool
	WideColorForce bool
	ForceDisabled  bool
	Encoding       uint32
	BitsPerChannel uint32
}

// AdvancedColor2 is the Windows 11 24H2 advanced color state, which separates
// HDR from automatic color management.
type AdvancedColor2 struct {
	Supported        bool
	Active           bool
	LimitedByPolicy  bool
	HDRSupported     bool
	HDRUserEnabled   bool
	WideColorSupport bool
	WideColorEnabled bool
	Encoding         uint32
	BitsPerChannel   uint32
	Mode             ColorMode
}

// SDRLevelToNits converts a DISPLAYCONFIG SDR white level (1000 == 80 nits)
// to nits.
func SDRLevelToNits(level uint32) float64 {
	return float64(level) * 80 / 1000
}

// NitsToSDRLevel is the inverse of SDRLevelToNits.
func NitsToSDRLevel(nits int) uint32 {
	if nits < 0 {
		return 0
	}
	return uint32(nits) * 1000 / 80
}

func decodeAdvancedColor(value, encoding, bpc uint32) AdvancedColor {
	return AdvancedColor{
		Supported:      value&0x1 != 0,
		Enabled:        value&0x2 != 0,
		WideColorForce: value&0x4 != 0,
		ForceDisabled:  value&0x8 != 0,
		Encoding:       encoding,
		BitsPerChannel: bpc,
	}
}

func decodeAdvancedColor2(value, encoding, bpc, mode uint32) AdvancedColor2 {
	return AdvancedColor2{
		Supported:        value&0x01 != 0,
		Active:           value&0x02 != 0,
		LimitedByPolicy:  value&0x08 != 0,
		HDRSupported:     value&0x10 != 0,
		HDRUserEnabled:   value&0x20 != 0,
		WideColorSupport: value&0x40 != 0,
		WideColorEnabled: value&0x80 != 0,
		Encoding:         encoding,
		BitsPerChannel:   bpc,
		Mode:             ColorMode(mode),
	}
}
