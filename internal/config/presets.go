package config

import (
	"sort"

	"github.com/san-kum/techpills/internal/dynamo"
)

// Presets are complete configurations selectable by name.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"wide": with(func(c *Config) {
		c.Container = SizeConfig{Width: 1200, Height: 400}
	}),
	"mobile": with(func(c *Config) {
		c.Container = SizeConfig{Width: 360, Height: 640}
		c.Pill = SizeConfig{Width: 120, Height: 40}
		c.Gap = 12
		c.Rows = []int{2}
	}),
	"bouncy": with(func(c *Config) {
		c.Material = dynamo.Material{Restitution: 0.95, Friction: 0.02, AirDrag: 0.01}
		c.Run.Kick = 900
	}),
	"heavy": with(func(c *Config) {
		c.Gravity = VecConfig{Y: 1500}
		c.Material = dynamo.Material{Restitution: 0.3, Friction: 0.3, AirDrag: 0.04}
	}),
}

func with(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
