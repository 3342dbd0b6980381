//go:build windows

package backlight

import (
	"github.com/niluan304/ddcci"
	"github.com/rs/zerolog/log"
)

type physical struct {
	m *ddcci.PhysicalMonitor
}

func (p physical) Brightness() (int, error) {
	_, cur, _, err := p.m.GetBrightness()
	return cur, err
}

func (p physical) SetBrightness(level int) error {
	return p.m.SetBrightness(level)
}

// EnumeratePhysical opens every DDC/CI capable monitor.
func EnumeratePhysical() ([]Panel, error) {
	sysMonitors, err := ddcci.NewSystemMonitors()
	if err != nil {
		return nil, err
	}
	var panels []Panel
	for i := range sysMonitors {
		m, err := ddcci.NewPhysicalMonitor(&sysMonitors[i])
		if err != nil {
			log.Debug().Err(err).Int("monitor", i).Msg("backlight: open physical monitor failed")
			continue
		}
		panels = append(panels, physical{m: m})
	}
	return panels, nil
}
