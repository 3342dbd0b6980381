//go:build windows

package winrt

import (
	"context"
	"fmt"
	"math"
	"unsafe"

	ole "github.com/go-ole/go-ole"

	"github.com/alex-vit/hdrbright/internal/com"
)

const brightnessOverrideSettingsClass = "Windows.Graphics.Display.BrightnessOverrideSettings"

var iidBrightnessOverrideSettingsStatics = ole.NewGUID("{D487DC90-6F74-440B-B383-5FE96CF00B0F}")

// IBrightnessOverrideSettingsStatics / IBrightnessOverrideSettings slots,
// after the six IInspectable methods.
const (
	staticsCreateFromLevel = 6
	staticsCreateFromNits  = 7

	settingsDesiredLevel = 6
	settingsDesiredNits  = 7
)

// BrightnessCurve asks the OS which nits correspond to a backlight level and
// back. The statics are agile, so calls run on the caller's goroutine while
// the MTA apartment is alive.
type BrightnessCurve struct {
	mta     *com.Apartment
	statics uintptr
}

// NewBrightnessCurve activates the BrightnessOverrideSettings statics inside
// mta.
func NewBrightnessCurve(mta *com.Apartment) (*BrightnessCurve, error) {
	c := &BrightnessCurve{mta: mta}
	err := mta.Do(context.Background(), func() error {
		f, err := com.ActivationFactory(brightnessOverrideSettingsClass, iidBrightnessOverrideSettingsStatics)
		c.statics = f
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NitsForLevel implements brightness.Curve.
func (c *BrightnessCurve) NitsForLevel(level float64) (float64, error) {
	var settings uintptr
	if err := com.Call(c.statics, staticsCreateFromLevel,
		uintptr(math.Float64bits(level)),
		uintptr(unsafe.Pointer(&settings)),
	); err != nil {
		return 0, fmt.Errorf("CreateFromLevel(%.2f): %w", level, err)
	}
	defer com.Release(settings)

	var nits float32
	if err := com.Call(settings, settingsDesiredNits, uintptr(unsafe.Pointer(&nits))); err != nil {
		return 0, fmt.Errorf("get_DesiredNits: %w", err)
	}
	return float64(nits), nil
}

// LevelForNits implements brightness.Curve.
func (c *BrightnessCurve) LevelForNits(nits float64) (float64, error) {
	var settings uintptr
	if err := com.Call(c.statics, staticsCreateFromNits,
		uintptr(math.Float32bits(float32(nits))),
		uintptr(unsafe.Pointer(&settings)),
	); err != nil {
		return 0, fmt.Errorf("CreateFromNits(%.0f): %w", nits, err)
	}
	defer com.Release(settings)

	var level float64
	if err := com.Call(settings, settingsDesiredLevel, uintptr(unsafe.Pointer(&level))); err != nil {
		return 0, fmt.Errorf("get_DesiredLevel: %w", err)
	}
	return level, nil
}

// Close releases the statics.
func (c *BrightnessCurve) Close() {
	_ = c.mta.Do(context.Background(), func() error {
		com.Release(c.statics)
		c.statics = 0
		return nil
	})
}
