package dxgi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHDR10(t *testing.T) {
	assert.True(t, OutputDesc{ColorSpace: colorSpaceRGBFullG2084NoneP2020}.HDR10())
	assert.False(t, OutputDesc{ColorSpace: 0}.HDR10(), "sRGB G22 P709")
}
