// Package dxgi reads per-output color and luminance descriptors.
package dxgi

import "errors"

// ErrNotFound is returned when no output is attached under the GDI name.
var ErrNotFound = errors.New("dxgi: output not found")

// Chromaticity is a CIE 1931 xy coordinate.
type Chromaticity struct {
	X, Y float64
}

// OutputDesc is the subset of DXGI_OUTPUT_DESC1 describing a panel.
type OutputDesc struct {
	DeviceName   string // \\.\DISPLAY1
	BitsPerColor uint32
	ColorSpace   uint32

	Red, Green, Blue, White Chromaticity

	MinLuminance          float64
	MaxLuminance          float64
	MaxFullFrameLuminance float64
}

// HDR10 reports whether the output is currently driven in the HDR10
// (ST.2084, BT.2020) color space.
func (d OutputDesc) HDR10() bool {
	return d.ColorSpace == colorSpaceRGBFullG2084NoneP2020
}

// DXGI_COLOR_SPACE_RGB_FULL_G2084_NONE_P2020
const colorSpaceRGBFullG2084NoneP2020 = 12
