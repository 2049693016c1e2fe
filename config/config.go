// SPDX-License-Identifier: Unlicense OR MIT

// Package config holds the engine's construction-time configuration
// record, plus a YAML loader (gopkg.in/yaml.v3) for the demo binary's
// settings, including the LOD table — legitimately static
// per-deployment settings even though the engine itself keeps no
// persisted runtime state. The memory budget is not configurable here;
// it comes from the host's device class.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pixelscope/viewer/policy"
)

// DoubleClickMode selects what a double-activation does, mirroring
// gesture.Mode so config stays decoupled from the gesture package.
type DoubleClickMode string

const (
	DoubleClickToggle DoubleClickMode = "toggle"
	DoubleClickZoom   DoubleClickMode = "zoom"
)

// Config carries every option the engine recognizes, with Go zero
// values already matching the intended defaults wherever possible (e.g.
// Disabled fields default to false, meaning enabled).
type Config struct {
	InitialScale float64 `yaml:"initialScale"`
	MinScale     float64 `yaml:"minScale"`
	MaxScale     float64 `yaml:"maxScale"`

	WheelStep       float64 `yaml:"wheelStep"`
	WheelDisabled   bool    `yaml:"wheelDisabled"`
	PanningDisabled bool    `yaml:"panningDisabled"`
	PinchDisabled   bool    `yaml:"pinchDisabled"`

	DoubleClickDisabled    bool            `yaml:"doubleClickDisabled"`
	DoubleClickMode        DoubleClickMode `yaml:"doubleClickMode"`
	DoubleClickStep        float64         `yaml:"doubleClickStep"`
	DoubleClickAnimationMS int             `yaml:"doubleClickAnimationMs"`

	Smooth       bool `yaml:"smooth"`
	CenterOnInit bool `yaml:"centerOnInit"`
	LimitToBounds bool `yaml:"limitToBounds"`
	Debug        bool `yaml:"debug"`

	LODTable []policy.Level `yaml:"lodTable"`
}

// Default returns the configuration used when every option is left
// unset: fit-relative initial scale, no zoom clamp beyond the engine's
// own floors, 300ms eased double-activation in toggle mode, smoothing
// on.
func Default() Config {
	return Config{
		InitialScale:           1,
		MinScale:               0,
		MaxScale:               0,
		WheelStep:              0.1,
		DoubleClickMode:        DoubleClickToggle,
		DoubleClickStep:        1,
		DoubleClickAnimationMS: 300,
		Smooth:                 true,
		CenterOnInit:           true,
	}
}

// AnimationDuration converts DoubleClickAnimationMS to a
// time.Duration, returning 0 (no animation) when Smooth is false.
func (c Config) AnimationDuration() time.Duration {
	if !c.Smooth {
		return 0
	}
	return time.Duration(c.DoubleClickAnimationMS) * time.Millisecond
}

// Load reads a YAML config file, starting from Default and overriding
// only the fields the file sets.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
