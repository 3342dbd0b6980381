package main

import (
	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/enhance"
)

// Popup size in pixels.
const (
	sliderW   int32 = 280
	sliderH   int32 = 96
	sliderGap int32 = 4
)

// sliderSteps is the trackbar range; one step is one SDR white level step.
const sliderSteps = (brightness.MaxNits - brightness.MinNits) / brightness.NitsStep

type sliderRect struct{ Left, Top, Right, Bottom int32 }

func nitsForPosition(pos int) int {
	pos = min(max(pos, 0), sliderSteps)
	return brightness.MinNits + pos*brightness.NitsStep
}

func positionForNits(nits int) int {
	n := enhance.ClampSDRNits(float64(nits))
	return (n - brightness.MinNits) / brightness.NitsStep
}

// sliderPosition anchors the popup next to the taskbar, centered on the
// cursor along it, like the volume flyout. Without a taskbar it sits above
// the cursor. The result is clamped to the screen.
func sliderPosition(cursorX, cursorY int32, taskbar *sliderRect, screenW, screenH int32) (x, y int32) {
	switch {
	case taskbar == nil:
		x = cursorX - sliderW/2
		y = cursorY - sliderH - sliderGap
	case taskbar.Bottom-taskbar.Top < taskbar.Right-taskbar.Left:
		x = cursorX - sliderW/2
		if taskbar.Top == 0 {
			y = taskbar.Bottom + sliderGap
		} else {
			y = taskbar.Top - sliderH - sliderGap
		}
	default:
		y = cursorY - sliderH/2
		if taskbar.Left == 0 {
			x = taskbar.Right + sliderGap
		} else {
			x = taskbar.Left - sliderW - sliderGap
		}
	}
	x = min(max(x, 0), screenW-sliderW)
	y = min(max(y, 0), screenH-sliderH)
	return x, y
}
