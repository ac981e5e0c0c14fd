// config.go - machine configuration: front-panel port, peripheral
// attachments, and I/O arbitration timings, loaded from a TOML file
// (spec.md S4.8).
//
// Grounded on the domain dependency signal from the rest of the
// example pack's manifests (rcornwell-S370, lookbusy1344-arm_emulator):
// both configure their device map via BurntSushi/toml rather than
// flags or a bespoke format, which is the idiom this module follows.

package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/intuitionamiga/sel810/sel810"
)

// PeripheralConfig describes one device attachment.
type PeripheralConfig struct {
	Unit int    `toml:"unit"`
	Kind string `toml:"kind"` // "null", "teletype", "tape", "network"

	// Teletype
	IntGroup int `toml:"int_group"`
	IntBit   int `toml:"int_bit"`

	// Tape
	ImagePath string `toml:"image_path"`

	// Network
	Address string `toml:"address"`
}

// TimingConfig overrides the I/O arbiter's default poll/stall windows
// (spec.md S4.3), in milliseconds.
type TimingConfig struct {
	IndicatorLagMS int `toml:"indicator_lag_ms"`
	PollMS         int `toml:"poll_ms"`
	HoldPollCmdMS  int `toml:"hold_poll_cmd_ms"`
	HoldPollRWMS   int `toml:"hold_poll_rw_ms"`
}

// MachineConfig is the top-level configuration document.
type MachineConfig struct {
	FrontPanelAddr string             `toml:"front_panel_addr"`
	LoadOrigin     int                `toml:"load_origin"`
	ProgramPath    string             `toml:"program_path"`
	Peripherals    []PeripheralConfig `toml:"peripherals"`
	Timings        TimingConfig       `toml:"timings"`
}

// Load decodes a MachineConfig from path.
func Load(path string) (MachineConfig, error) {
	var cfg MachineConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return MachineConfig{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// durationOr returns ms as a duration, or fallback if ms is zero
// (TOML's zero value for an absent key).
func durationOr(ms int, fallback time.Duration) time.Duration {
	if ms == 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// Resolve layers Timings (zero fields meaning "use the default") over
// defaults, producing the concrete sel810.IOTimings the arbiter runs
// with.
func (t TimingConfig) Resolve(defaults sel810.IOTimings) sel810.IOTimings {
	return sel810.IOTimings{
		IndicatorLag: durationOr(t.IndicatorLagMS, defaults.IndicatorLag),
		PollInterval: durationOr(t.PollMS, defaults.PollInterval),
		HoldPollCmd:  durationOr(t.HoldPollCmdMS, defaults.HoldPollCmd),
		HoldPollRW:   durationOr(t.HoldPollRWMS, defaults.HoldPollRW),
	}
}
