// Package icon renders the tray icon: a sun whose visible part tracks the SDR
// content brightness, with a badge while the monitor is in HDR mode.
package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	colorLow  = color.NRGBA{R: 0xB8, G: 0x73, B: 0x33, A: 0xFF} // #B87333
	colorMid  = color.NRGBA{R: 0xDC, G: 0xA5, B: 0x1A, A: 0xFF} // #DCA51A
	colorHigh = color.NRGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF} // #FFD700
	// badge marks HDR mode.
	badge = color.NRGBA{R: 0x4F, G: 0xC3, B: 0xF7, A: 0xFF} // #4FC3F7
)

var sizes = []int{16, 32}

// Generate returns ICO bytes (16 and 32 px) for an SDR white fraction in
// [0,1]. hdr adds the HDR badge.
func Generate(fraction float64, hdr bool) []byte {
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	c := sunColor(fraction)

	pngs := make([][]byte, 0, len(sizes))
	for _, size := range sizes {
		img := eclipseImage(size, fraction, c)
		if hdr {
			drawBadge(img)
		}
		var buf bytes.Buffer
		png.Encode(&buf, img)
		pngs = append(pngs, buf.Bytes())
	}
	return buildICO(sizes, pngs)
}

// eclipseImage draws a sun partly covered by a moon. The moon slides from
// full cover at t=0 off the sun at t=1. Pixels are fully opaque or fully
// transparent.
func eclipseImage(size int, t float64, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	center := float64(size) / 2
	r := center - 0.5
	moonCx := center + t*(2*r+1)

	for y := range size {
		for x := range size {
			px, py := float64(x)+0.5, float64(y)+0.5
			if math.Hypot(px-center, py-center) <= r && math.Hypot(px-moonCx, py-center) > r {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

// drawBadge fills the bottom-right quarter-height strip with the badge color,
// framed by one transparent pixel so it reads against the sun.
func drawBadge(img *image.NRGBA) {
	size := img.Bounds().Dx()
	h := max(size/4, 3)
	w := size / 2
	x0, y0 := size-w, size-h
	for y := y0 - 1; y < size; y++ {
		for x := x0 - 1; x < size; x++ {
			if y < y0 || x < x0 {
				img.SetNRGBA(x, y, color.NRGBA{})
				continue
			}
			img.SetNRGBA(x, y, badge)
		}
	}
}

func sunColor(t float64) color.NRGBA {
	if t <= 0.5 {
		return lerpColor(colorLow, colorMid, t*2)
	}
	return lerpColor(colorMid, colorHigh, (t-0.5)*2)
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: 0xFF,
	}
}

// buildICO assembles an ICO file from PNG-encoded images.
func buildICO(sizes []int, pngs [][]byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, uint16(len(sizes))})

	offset := uint32(6 + len(sizes)*16)
	for i, size := range sizes {
		w := uint8(size)
		if size >= 256 {
			w = 0
		}
		buf.Write([]byte{w, w, 0, 0})
		binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
		binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(pngs[i])), offset})
		offset += uint32(len(pngs[i]))
	}
	for _, p := range pngs {
		buf.Write(p)
	}
	return buf.Bytes()
}
