// Package backlight reads and sets panel backlight brightness in percent.
// Internal panels go through WMI; external monitors through DDC/CI.
package backlight

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNoPanels is returned when DDC/CI enumeration finds nothing usable.
var ErrNoPanels = errors.New("backlight: no DDC/CI monitors")

// ErrAmbiguous is returned by DDC reads when several monitors are attached
// and none can be told apart from the others.
var ErrAmbiguous = errors.New("backlight: several DDC/CI monitors, reading is ambiguous")

// Backlight is a brightness control in percent (0..100).
type Backlight interface {
	Get() (uint8, error)
	Set(percent uint8) error
}

// Session is the WMI brightness surface.
type Session interface {
	Supports(instance string) bool
	CurrentBrightness(instance string) (uint8, error)
	SetBrightness(instance string, percent uint8) error
}

// WMI controls one internal panel through its WMI instance.
type WMI struct {
	Session  Session
	Instance string
}

func (w WMI) Get() (uint8, error) { return w.Session.CurrentBrightness(w.Instance) }

func (w WMI) Set(percent uint8) error {
	return w.Session.SetBrightness(w.Instance, min(percent, 100))
}

// Select returns the WMI control when the monitor has one, otherwise ddc.
func Select(instance string, s Session, ddc Backlight) Backlight {
	if s != nil && instance != "" && s.Supports(instance) {
		return WMI{Session: s, Instance: instance}
	}
	return ddc
}

// Panel is one DDC/CI physical monitor.
type Panel interface {
	Brightness() (int, error)
	SetBrightness(level int) error
}

// staleTolerance is how far a read-back may drift before the handles are
// considered stale.
const staleTolerance = 5

// DDC drives every DDC/CI monitor together. It only reports a reading when
// exactly one monitor is attached. Handles go stale after sleep/wake, so reads of 0 and writes that do not
// stick trigger one re-enumeration.
type DDC struct {
	enumerate func() ([]Panel, error)

	mu     sync.Mutex
	panels []Panel
}

// NewDDC creates a DDC backlight over enumerate.
func NewDDC(enumerate func() ([]Panel, error)) *DDC {
	return &DDC{enumerate: enumerate}
}

func (d *DDC) refresh() error {
	panels, err := d.enumerate()
	if err != nil {
		return fmt.Errorf("enumerate monitors: %w", err)
	}
	if len(panels) == 0 {
		return ErrNoPanels
	}
	d.panels = panels
	log.Debug().Int("count", len(panels)).Msg("backlight: enumerated DDC/CI monitors")
	return nil
}

func (d *DDC) ensure() error {
	if len(d.panels) > 0 {
		return nil
	}
	return d.refresh()
}

// Get returns the brightness of the only monitor.
func (d *DDC) Get() (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensure(); err != nil {
		return 0, err
	}
	if len(d.panels) > 1 {
		return 0, ErrAmbiguous
	}
	cur, err := d.panels[0].Brightness()
	if err != nil {
		return 0, err
	}
	if cur == 0 {
		log.Debug().Msg("backlight: brightness=0 is suspicious, re-enumerating")
		if err := d.refresh(); err == nil {
			if len(d.panels) > 1 {
				return 0, ErrAmbiguous
			}
			if cur, err = d.panels[0].Brightness(); err != nil {
				return 0, err
			}
		}
	}
	return uint8(max(0, min(cur, 100))), nil
}

// Set writes percent to every monitor and verifies the first one took it.
func (d *DDC) Set(percent uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensure(); err != nil {
		return err
	}
	level := int(min(percent, 100))
	d.setAll(level)

	cur, err := d.panels[0].Brightness()
	if err == nil && abs(cur-level) <= staleTolerance {
		return nil
	}
	log.Debug().Err(err).Int("current", cur).Int("expected", level).Msg("backlight: stale handle, retrying")
	if err := d.refresh(); err != nil {
		return err
	}
	d.setAll(level)
	return nil
}

func (d *DDC) setAll(level int) {
	for i, p := range d.panels {
		if err := p.SetBrightness(level); err != nil {
			log.Warn().Err(err).Int("monitor", i).Int("level", level).Msg("backlight: SetBrightness failed")
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
