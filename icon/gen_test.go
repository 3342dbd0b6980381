package icon

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLerpColor(t *testing.T) {
	a := color.NRGBA{A: 255}
	b := color.NRGBA{R: 200, G: 100, B: 50, A: 255}

	assert.Equal(t, a, lerpColor(a, b, 0))
	assert.Equal(t, b, lerpColor(a, b, 1))
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 25, A: 255}, lerpColor(a, b, 0.5))
}

func TestSunColor(t *testing.T) {
	assert.Equal(t, colorLow, sunColor(0))
	assert.Equal(t, colorMid, sunColor(0.5))
	assert.Equal(t, colorHigh, sunColor(1))
}

type entry struct {
	W, H, Palette, Reserved uint8
	Planes, BPP             uint16
	Size, Offset            uint32
}

func parseICO(t *testing.T, data []byte) []entry {
	t.Helper()
	r := bytes.NewReader(data)
	var hdr [3]uint16
	require.NoError(t, binary.Read(r, binary.LittleEndian, &hdr))
	require.Equal(t, [3]uint16{0, 1, 2}, hdr)
	entries := make([]entry, hdr[2])
	require.NoError(t, binary.Read(r, binary.LittleEndian, &entries))
	return entries
}

func TestGenerateICO(t *testing.T) {
	data := Generate(0.5, false)
	entries := parseICO(t, data)
	for i, want := range []uint8{16, 32} {
		e := entries[i]
		assert.Equal(t, want, e.W)
		assert.Equal(t, uint16(32), e.BPP)
		require.LessOrEqual(t, int(e.Offset+e.Size), len(data))
		img, err := png.Decode(bytes.NewReader(data[e.Offset : e.Offset+e.Size]))
		require.NoError(t, err)
		assert.Equal(t, int(want), img.Bounds().Dx())
	}
}

func TestGenerateClamps(t *testing.T) {
	assert.Equal(t, Generate(0, false), Generate(-3, false))
	assert.Equal(t, Generate(1, true), Generate(7, true))
}

func TestBadge(t *testing.T) {
	img := eclipseImage(16, 1, colorHigh)
	drawBadge(img)
	assert.Equal(t, badge, img.NRGBAAt(15, 15))
	assert.Equal(t, badge, img.NRGBAAt(8, 12))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(7, 12), "frame column")
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(12, 11), "frame row")

	assert.NotEqual(t, Generate(0.5, false), Generate(0.5, true))
}

func TestEclipseCoverage(t *testing.T) {
	lit := func(f float64) int {
		img := eclipseImage(32, f, colorHigh)
		n := 0
		for i := 3; i < len(img.Pix); i += 4 {
			if img.Pix[i] != 0 {
				n++
			}
		}
		return n
	}
	assert.Zero(t, lit(0))
	assert.Less(t, lit(0.25), lit(0.75))
}
