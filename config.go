package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/hotkey"
)

type hotkeys struct {
	SDRUp   string `yaml:"sdr_up"`
	SDRDown string `yaml:"sdr_down"`
	KeepHDR string `yaml:"keep_hdr"`
}

type config struct {
	KeepHDR       bool `yaml:"keep_hdr"`
	ColorAccurate bool `yaml:"color_accurate"`
	// SDRNits is applied once at startup; zero leaves the display alone.
	SDRNits int  `yaml:"sdr_nits"`
	SDRStep int  `yaml:"sdr_step"`
	Notify  bool `yaml:"notify"`
	// AutoUpdate installs newer releases at startup.
	AutoUpdate bool `yaml:"auto_update"`

	Hotkeys hotkeys `yaml:"hotkeys"`

	// CertificationLabels adds or overrides HDR certification GUID labels.
	CertificationLabels map[string]string `yaml:"certification_labels,omitempty"`
}

func defaultConfig() config {
	return config{
		SDRStep:    4,
		Notify:     true,
		AutoUpdate: true,
		Hotkeys: hotkeys{
			SDRUp:   "win+alt+up",
			SDRDown: "win+alt+down",
			KeepHDR: "win+alt+k",
		},
	}
}

func configPath(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// loadConfig reads path over the defaults. A missing or broken file yields
// the defaults; the error is only logged.
func loadConfig(path string) config {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", path).Msg("config: no config file, using defaults")
		return cfg
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config: read failed, using defaults")
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config: parse error, using defaults")
		return defaultConfig()
	}
	cfg.normalize()
	log.Info().
		Bool("keep_hdr", cfg.KeepHDR).
		Bool("color_accurate", cfg.ColorAccurate).
		Int("sdr_nits", cfg.SDRNits).
		Bool("notify", cfg.Notify).
		Msg("config: loaded")
	return cfg
}

// normalize replaces out of range values with usable ones.
func (c *config) normalize() {
	def := defaultConfig()
	if c.SDRStep <= 0 {
		c.SDRStep = def.SDRStep
	}
	if c.SDRNits != 0 {
		c.SDRNits = min(max(c.SDRNits, brightness.MinNits), brightness.MaxNits)
	}
	for _, hk := range []struct {
		s   *string
		def string
	}{
		{&c.Hotkeys.SDRUp, def.Hotkeys.SDRUp},
		{&c.Hotkeys.SDRDown, def.Hotkeys.SDRDown},
		{&c.Hotkeys.KeepHDR, def.Hotkeys.KeepHDR},
	} {
		if *hk.s == "" || *hk.s == "none" {
			continue
		}
		if _, err := hotkey.Parse(*hk.s); err != nil {
			log.Warn().Err(err).Str("hotkey", *hk.s).Msg("config: bad hotkey, using default")
			*hk.s = hk.def
		}
	}
}

// saveConfig writes cfg next to path through a temp file so a crash never
// leaves a truncated config behind.
func saveConfig(path string, cfg config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
