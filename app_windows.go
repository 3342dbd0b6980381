//go:build windows

package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/energye/systray"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sys/windows"

	"github.com/alex-vit/hdrbright/icon"
	"github.com/alex-vit/hdrbright/internal/engine"
	"github.com/alex-vit/hdrbright/internal/hotkey"
	"github.com/alex-vit/hdrbright/internal/platform"
	"github.com/alex-vit/hdrbright/internal/update"
)

const (
	hdrSettingsURI    = "ms-settings:display-hdr"
	hdrCalibrationURI = "ms-windows-store://pdp?productId=9N7F2SM5D1LR&mode=mini"
)

var (
	procSetProcessDpiAwarenessContext = windows.NewLazySystemDLL("user32.dll").NewProc("SetProcessDpiAwarenessContext")
	procSetProcessDpiAwareness        = windows.NewLazySystemDLL("shcore.dll").NewProc("SetProcessDpiAwareness")
)

// dpiAwarenessPerMonitorV2 is DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 (-4).
const dpiAwarenessPerMonitorV2 = ^uintptr(3)

func run(cmd *cobra.Command, opts options) error {
	name, _ := windows.UTF16PtrFromString("HdrBrightMutex")
	mutex, err := windows.CreateMutex(nil, false, name)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		return nil
	}
	if mutex != 0 {
		defer windows.CloseHandle(mutex)
	}

	dataDir := filepath.Join(os.Getenv("LocalAppData"), "hdrbright")
	os.MkdirAll(dataDir, 0o755)
	logPath := filepath.Join(dataDir, "log.txt")
	w, closeLog := openLog(logPath)
	defer closeLog()
	setupLogging(w, opts.verbose)
	log.Info().Str("version", displayVersion()).Msg("hdrbright starting")

	enableDPIAwareness()

	cfg := loadConfig(configPath(dataDir))
	opts.apply(cmd, &cfg)

	if u, err := update.New(version); err == nil {
		u.CleanOld()
		if cfg.AutoUpdate {
			go autoUpdate(u)
		}
	}

	a, err := newApp(dataDir, logPath, cfg, opts)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return err
	}
	systray.Run(a.onReady, a.onExit)
	log.Info().Msg("hdrbright stopped")
	return nil
}

func autoUpdate(u *update.Updater) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	v, err := u.Run(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("update failed")
	case v != "":
		log.Info().Str("version", v).Msg("update installed, restart to apply")
	}
}

func enableDPIAwareness() {
	if procSetProcessDpiAwarenessContext.Find() == nil {
		if ok, _, _ := procSetProcessDpiAwarenessContext.Call(dpiAwarenessPerMonitorV2); ok != 0 {
			return
		}
	}
	// Process_Per_Monitor_DPI_Aware on builds before 1703.
	if procSetProcessDpiAwareness.Find() == nil {
		procSetProcessDpiAwareness.Call(2)
	}
}

type app struct {
	dataDir string
	logPath string
	opts    options

	cfgMu sync.Mutex
	cfg   config

	stack *platform.Stack
	eng   *engine.Engine

	ctx    context.Context
	cancel context.CancelFunc

	menu *trayMenu
}

func newApp(dataDir, logPath string, cfg config, opts options) (*app, error) {
	a := &app{dataDir: dataDir, logPath: logPath, cfg: cfg, opts: opts}

	stack, err := platform.Open(cfg.CertificationLabels)
	if err != nil {
		return nil, err
	}
	a.stack = stack
	a.eng = stack.NewEngine(
		engine.WithKeepHDR(cfg.KeepHDR),
		engine.WithColorAccurate(cfg.ColorAccurate),
	)
	return a, nil
}

func (a *app) config() config {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	return a.cfg
}

func (a *app) updateConfig(fn func(*config)) {
	a.cfgMu.Lock()
	fn(&a.cfg)
	cfg := a.cfg
	a.cfgMu.Unlock()
	if err := saveConfig(configPath(a.dataDir), cfg); err != nil {
		log.Warn().Err(err).Msg("config: save failed")
	}
}

func (a *app) onReady() {
	a.ctx, a.cancel = context.WithCancel(context.Background())

	systray.SetIcon(icon.Generate(0, false))
	systray.SetTooltip("hdrbright")
	a.menu = a.buildMenu()

	// Both subscriptions must exist before Run publishes the first snapshot.
	a.eng.Subscribe(a.onSnapshot)
	cfg := a.config()
	if cfg.SDRNits > 0 {
		nits := float64(cfg.SDRNits)
		onFirstResolved(a.eng, func() { a.eng.SetSDRNits(nits) })
	}
	go a.eng.Run(a.ctx)
	go runSlider(a.eng)

	if !a.opts.hide {
		go showSlider()
	}

	systray.SetOnClick(func(menu systray.IMenu) { showSlider() })
	systray.SetOnRClick(func(menu systray.IMenu) {
		a.eng.RequestRefresh()
		menu.ShowMenu()
	})

	go a.listenHotkeys(cfg)
}

func (a *app) onSnapshot(snap engine.Snapshot) {
	v := viewOf(snap)
	a.menu.update(v)
	syncSlider(snap, sliderInfoOf(snap))
}

func (a *app) listenHotkeys(cfg config) {
	combos := []string{cfg.Hotkeys.SDRUp, cfg.Hotkeys.SDRDown, cfg.Hotkeys.KeepHDR}
	hks := make([]hotkey.Hotkey, len(combos))
	for i, s := range combos {
		if hk, err := hotkey.Parse(s); err == nil {
			hks[i] = hk
		}
	}
	err := hotkey.Listen(a.ctx, hks, func(id int) {
		switch id {
		case 0:
			a.eng.StepSDRNits(cfg.SDRStep)
		case 1:
			a.eng.StepSDRNits(-cfg.SDRStep)
		case 2:
			a.toggleKeepHDR()
			return
		}
		if a.config().Notify {
			go showSlider()
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("hotkey registration failed")
	}
}

func (a *app) toggleKeepHDR() {
	on := !a.eng.KeepHDR()
	a.eng.SetKeepHDR(on)
	a.updateConfig(func(c *config) { c.KeepHDR = on })
}

func (a *app) toggleColorAccurate() {
	on := !a.eng.ColorAccurate()
	a.eng.SetColorAccurate(on)
	a.updateConfig(func(c *config) { c.ColorAccurate = on })
}

func (a *app) reloadCalibration() {
	ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
	defer cancel()
	err := a.stack.Calibration.Reload(ctx)
	if a.config().Notify {
		flashSlider(calibrationNotice(err))
	}
}

func (a *app) toggleAutostart() {
	if isAutostartEnabled() {
		if err := autostartDisable(); err != nil {
			log.Warn().Err(err).Msg("failed to disable autostart")
			return
		}
		a.menu.autostart.Uncheck()
		return
	}
	if err := autostartEnable(); err != nil {
		log.Warn().Err(err).Msg("failed to enable autostart")
		return
	}
	a.menu.autostart.Check()
}

func (a *app) openConfig() {
	path := configPath(a.dataDir)
	if _, err := os.Stat(path); err != nil {
		if err := saveConfig(path, a.config()); err != nil {
			log.Warn().Err(err).Msg("config: save failed")
			return
		}
	}
	open(path)
}

func (a *app) onExit() {
	if a.cancel != nil {
		a.cancel()
	}
	a.eng.Close()
	closeSlider()
	a.stack.Close()
}

// open hands target to the shell: files, ms-settings and store links.
func open(target string) {
	if err := exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start(); err != nil {
		log.Warn().Err(err).Str("target", target).Msg("open failed")
	}
}
