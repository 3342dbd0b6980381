//go:build windows

package main

import (
	"slices"
	"sync"

	"github.com/energye/systray"

	"github.com/alex-vit/hdrbright/icon"
	"github.com/alex-vit/hdrbright/internal/engine"
)

type trayMenu struct {
	monitor       *systray.MenuItem
	certs         *systray.MenuItem
	keepHDR       *systray.MenuItem
	colorAccurate *systray.MenuItem
	hdr           *systray.MenuItem
	pairs         *systray.MenuItem
	noPairs       *systray.MenuItem
	autostart     *systray.MenuItem

	mu        sync.Mutex
	last      trayView
	shown     bool
	pairItems []*systray.MenuItem
	pairNits  []float64
	onPair    func(nits float64)
}

func (a *app) buildMenu() *trayMenu {
	m := &trayMenu{onPair: func(nits float64) { a.eng.SetNitsSync(nits) }}

	systray.AddMenuItem("hdrbright "+displayVersion(), "").Disable()
	systray.AddMenuItem("Open log", "Open log file").Click(func() { open(a.logPath) })
	systray.AddMenuItem("Open config", "Open config file").Click(a.openConfig)
	systray.AddSeparator()

	m.monitor = systray.AddMenuItem("No monitor", "Monitor under the brightness popup")
	m.monitor.Disable()
	m.certs = systray.AddMenuItem("", "HDR certifications")
	m.certs.Disable()
	m.certs.Hide()
	systray.AddSeparator()

	m.keepHDR = systray.AddMenuItem("Keep HDR brightness", "SDR content brightness follows the backlight")
	m.keepHDR.Click(a.toggleKeepHDR)
	m.colorAccurate = systray.AddMenuItem("Color accurate", colorAccurateTip)
	m.colorAccurate.Click(a.toggleColorAccurate)
	m.hdr = systray.AddMenuItem("Use HDR", "Turn HDR on or off on every capable display")
	m.hdr.Click(func() { a.eng.SetGlobalHDR(!m.hdr.Checked()) })

	m.pairs = systray.AddMenuItem("Precise SDR content brightness", "Backlight levels that land exactly on an SDR white step")
	m.noPairs = m.pairs.AddSubMenuItem("No available brightness", "")
	m.noPairs.Disable()
	systray.AddSeparator()

	systray.AddMenuItem("Reload monitor calibration", "Reapply the color calibration of every monitor").Click(func() { go a.reloadCalibration() })
	systray.AddSeparator()

	systray.AddMenuItem("Show brightness", "Show the SDR content brightness slider").Click(func() { go showSlider() })
	m.autostart = systray.AddMenuItem("Start with Windows", "Launch hdrbright at login")
	if isAutostartEnabled() {
		m.autostart.Check()
	}
	m.autostart.Click(a.toggleAutostart)
	systray.AddMenuItem("HDR settings", "Open Windows HDR settings").Click(func() { open(hdrSettingsURI) })
	systray.AddMenuItem("HDR calibration", "Get the Windows HDR Calibration app").Click(func() { open(hdrCalibrationURI) })
	systray.AddSeparator()
	systray.AddMenuItem("Quit", "Quit hdrbright").Click(func() { systray.Quit() })

	m.update(viewOf(engine.Snapshot{}))
	return m
}

func setEnabled(item *systray.MenuItem, t toggle) {
	item.SetTitle(t.Title)
	if t.Tooltip != "" {
		item.SetTooltip(t.Tooltip)
	}
	if t.Enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}

func setToggle(item *systray.MenuItem, t toggle) {
	setEnabled(item, t)
	if t.Checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// update applies v. It runs on the engine goroutine.
func (m *trayMenu) update(v trayView) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.shown || v.Fraction != m.last.Fraction || v.HDROn != m.last.HDROn {
		systray.SetIcon(icon.Generate(v.Fraction, v.HDROn))
	}
	systray.SetTooltip(v.Tooltip)

	m.monitor.SetTitle(v.Monitor)
	if v.Certs != "" {
		m.certs.SetTitle(v.Certs)
		m.certs.Show()
	} else {
		m.certs.Hide()
	}
	setToggle(m.keepHDR, v.KeepHDR)
	setToggle(m.colorAccurate, v.ColorAccurate)
	setToggle(m.hdr, v.HDR)
	setEnabled(m.pairs, v.PairsMenu)

	if !m.shown || !slices.Equal(v.Pairs, m.last.Pairs) {
		m.setPairs(v.Pairs)
	}
	m.last = v
	m.shown = true
}

// setPairs reuses submenu items; systray cannot remove them, so surplus ones
// are hidden.
func (m *trayMenu) setPairs(pairs []pairItem) {
	for len(m.pairItems) < len(pairs) {
		i := len(m.pairItems)
		item := m.pairs.AddSubMenuItem("", "Set this SDR white level and the matching backlight")
		item.Click(func() {
			m.mu.Lock()
			nits := m.pairNits[i]
			m.mu.Unlock()
			m.onPair(nits)
		})
		m.pairItems = append(m.pairItems, item)
		m.pairNits = append(m.pairNits, 0)
	}
	for i, item := range m.pairItems {
		if i < len(pairs) {
			item.SetTitle(pairs[i].Label)
			m.pairNits[i] = pairs[i].Nits
			item.Show()
		} else {
			item.Hide()
		}
	}
	if len(pairs) == 0 {
		m.noPairs.Show()
	} else {
		m.noPairs.Hide()
	}
}
