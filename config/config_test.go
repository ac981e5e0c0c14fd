package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/sel810/sel810"
)

const sampleTOML = `
front_panel_addr = "127.0.0.1:9100"
load_origin = 64
program_path = "boot.bin"

[[peripherals]]
unit = 1
kind = "teletype"
int_group = 2
int_bit = 3

[[peripherals]]
unit = 2
kind = "tape"
image_path = "tape.img"

[timings]
poll_ms = 5
hold_poll_rw_ms = 50
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sel810.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDecodesDocument(t *testing.T) {
	path := writeTemp(t, sampleTOML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9100", cfg.FrontPanelAddr)
	assert.Equal(t, 64, cfg.LoadOrigin)
	require.Len(t, cfg.Peripherals, 2)
	assert.Equal(t, "teletype", cfg.Peripherals[0].Kind)
	assert.Equal(t, 3, cfg.Peripherals[0].IntBit)
	assert.Equal(t, "tape.img", cfg.Peripherals[1].ImagePath)
	assert.Equal(t, 5, cfg.Timings.PollMS)
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	path := writeTemp(t, "this is not valid toml [[[")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveFallsBackToDefaultsWhenUnset(t *testing.T) {
	defaults := sel810.IOTimings{
		IndicatorLag: 10 * time.Millisecond,
		PollInterval: 1 * time.Millisecond,
		HoldPollCmd:  20 * time.Millisecond,
		HoldPollRW:   30 * time.Millisecond,
	}
	var tc TimingConfig // everything zero

	resolved := tc.Resolve(defaults)

	assert.Equal(t, defaults, resolved)
}

func TestResolveOverridesOnlySetFields(t *testing.T) {
	defaults := sel810.IOTimings{
		IndicatorLag: 10 * time.Millisecond,
		PollInterval: 1 * time.Millisecond,
		HoldPollCmd:  20 * time.Millisecond,
		HoldPollRW:   30 * time.Millisecond,
	}
	tc := TimingConfig{PollMS: 5, HoldPollRWMS: 50}

	resolved := tc.Resolve(defaults)

	assert.Equal(t, 5*time.Millisecond, resolved.PollInterval)
	assert.Equal(t, 50*time.Millisecond, resolved.HoldPollRW)
	assert.Equal(t, defaults.IndicatorLag, resolved.IndicatorLag)
	assert.Equal(t, defaults.HoldPollCmd, resolved.HoldPollCmd)
}
